package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

func press(t *testing.T, c *Calculator, keys ...string) {
	t.Helper()
	for _, k := range keys {
		ok, _ := c.Press(k)
		require.True(t, ok, "key %q", k)
	}
}

func TestCalculator_Evaluate(t *testing.T) {
	c := New()
	assert.Equal(t, "0", c.Display())

	press(t, c, "2", "+", "2")
	assert.Equal(t, "2+2", c.Display())

	got, err := c.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "4", got)
	assert.Equal(t, "4", c.Display())
	assert.Equal(t, "2+2 =", c.HistoryLine())
	assert.Equal(t, JustEvaluated, c.State())
	assert.Equal(t, []Entry{{Expression: "2+2", Result: "4"}}, c.History())
}

func TestCalculator_PercentExample(t *testing.T) {
	c := New()
	press(t, c, "5", "+", "5", "%", "=")
	assert.Equal(t, "5.05", c.Display())
	assert.Equal(t, "5+5% =", c.HistoryLine())
}

func TestCalculator_ErrorResetsBuffer(t *testing.T) {
	c := New()
	press(t, c, "8", "/", "0")

	got, err := c.Evaluate()
	require.ErrorIs(t, err, types.ErrEvaluation)
	assert.Equal(t, "Error", got)
	assert.Equal(t, "Error", c.Display())
	assert.Empty(t, c.Buffer())
	assert.Empty(t, c.History(), "failures are not logged")

	press(t, c, "7")
	assert.Equal(t, "7", c.Display())
}

func TestCalculator_AppendAfterEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "digit starts over", token: "3", want: "3"},
		{name: "point starts over", token: ".", want: "."},
		{name: "paren starts over", token: "(", want: "("},
		{name: "operator continues", token: "*", want: "4*"},
		{name: "percent continues", token: "%", want: "4%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			press(t, c, "2", "+", "2", "=")
			c.Append(tt.token)
			assert.Equal(t, tt.want, c.Buffer())
			assert.Equal(t, Entering, c.State())
		})
	}
}

func TestCalculator_ZeroSentinel(t *testing.T) {
	c := New()
	press(t, c, "0", "5")
	assert.Equal(t, "5", c.Buffer())

	c.Clear()
	press(t, c, "0", ".", "5")
	assert.Equal(t, "0.5", c.Buffer())

	c.Clear()
	press(t, c, "0", "+", "1")
	assert.Equal(t, "0+1", c.Buffer())
}

func TestCalculator_Delete(t *testing.T) {
	c := New()
	press(t, c, "1", "2", "3", "Backspace")
	assert.Equal(t, "12", c.Buffer())

	press(t, c, "Del", "Del", "Del")
	assert.Empty(t, c.Buffer())
	assert.Equal(t, "0", c.Display())

	press(t, c, "9", "=")
	press(t, c, "Del")
	assert.Empty(t, c.Buffer(), "deleting a result clears it")
	assert.Equal(t, Entering, c.State())
}

func TestCalculator_ClearKeepsLog(t *testing.T) {
	c := New()
	press(t, c, "1", "+", "1", "Enter")
	press(t, c, "Escape")

	assert.Equal(t, "0", c.Display())
	assert.Empty(t, c.HistoryLine())
	assert.Len(t, c.History(), 1)

	c.ResetHistory()
	assert.Empty(t, c.History())
}

func TestCalculator_EmptyEvaluateIsNoop(t *testing.T) {
	c := New()
	got, err := c.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "0", got)
	assert.Empty(t, c.History())
}

func TestCalculator_ChainedResults(t *testing.T) {
	c := New()
	press(t, c, "1", "0", "/", "4", "=")
	press(t, c, "*", "2", "=")

	assert.Equal(t, "5", c.Display())
	assert.Equal(t, []Entry{
		{Expression: "10/4", Result: "2.5"},
		{Expression: "2.5*2", Result: "5"},
	}, c.History())
}

func TestCalculator_UnknownKey(t *testing.T) {
	c := New()
	ok, err := c.Press("x")
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, "0", c.Display())
}
