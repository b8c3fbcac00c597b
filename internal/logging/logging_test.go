package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", FormatJSON)
	require.NoError(t, err)

	store := Component(log, "store")
	store.Info().Int("n", 3).Msg("hello")
	log.Debug().Msg("filtered")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "store", line["component"])
	assert.Equal(t, "hello", line["message"])
	assert.EqualValues(t, 3, line["n"])
	assert.Contains(t, line, "time")
}

func TestNew_ConsoleDefault(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "", "")
	require.NoError(t, err)

	log.Info().Msg("quiet")
	assert.Empty(t, buf.String(), "default level is warn")

	log.Warn().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "WRN")
}

func TestNew_Errors(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(&buf, "chatty", FormatJSON)
	assert.Error(t, err)

	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}
