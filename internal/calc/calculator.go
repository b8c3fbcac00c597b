package calc

import (
	"strings"
	"sync"
)

// State is the input mode of the calculator buffer.
type State int

const (
	// Entering means the buffer is accumulating keystrokes.
	Entering State = iota
	// JustEvaluated means the buffer holds the last result.
	JustEvaluated
)

func (s State) String() string {
	if s == JustEvaluated {
		return "just-evaluated"
	}
	return "entering"
}

// Key names accepted by Press in addition to the input characters.
const (
	KeyClear     = "C"
	KeyDelete    = "Del"
	KeyEquals    = "="
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// inputChars are the characters a key press may append.
const inputChars = "0123456789.()+-*/%"

const (
	operatorChars = "+-*/%"
	errorDisplay  = "Error"
	emptyDisplay  = "0"
)

// Entry is one successful evaluation in the history log.
type Entry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Calculator holds the expression buffer, the one-line history display and
// the append-only history log of a session. The log is never persisted.
type Calculator struct {
	mu          sync.Mutex
	buffer      string
	state       State
	failed      bool
	historyLine string
	history     []Entry
}

// New returns a calculator with an empty buffer.
func New() *Calculator {
	return &Calculator{}
}

// Append adds token to the buffer. After an evaluation a number or '('
// starts a new expression while an operator continues from the result. A
// buffer holding the "0" sentinel is replaced by anything but '.' or an
// operator.
func (c *Calculator) Append(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	first := token[:1]
	switch {
	case c.state == JustEvaluated && strings.ContainsAny(first, "0123456789.("):
		c.buffer = token
	case c.state == JustEvaluated && strings.ContainsAny(first, operatorChars):
		c.buffer += token
	case c.buffer == "0" && !strings.ContainsAny(first, "."+operatorChars):
		c.buffer = token
	default:
		c.buffer += token
	}
	c.state = Entering
	c.failed = false
}

// Delete removes the last character, or clears a shown result.
func (c *Calculator) Delete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == JustEvaluated {
		c.buffer = ""
	} else if c.buffer != "" {
		c.buffer = c.buffer[:len(c.buffer)-1]
	}
	c.state = Entering
	c.failed = false
}

// Clear resets the buffer and the history display line. The history log is
// kept.
func (c *Calculator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buffer = ""
	c.historyLine = ""
	c.state = Entering
	c.failed = false
}

// ResetHistory empties the history log.
func (c *Calculator) ResetHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

// Evaluate computes the buffer. On success the result replaces the buffer
// and is logged; on failure the display shows "Error", the buffer is emptied
// and the error is returned. An empty buffer is a no-op.
func (c *Calculator) Evaluate() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buffer == "" {
		return c.displayLocked(), nil
	}

	result, err := Evaluate(c.buffer)
	if err != nil {
		c.buffer = ""
		c.state = Entering
		c.failed = true
		return errorDisplay, err
	}

	c.history = append(c.history, Entry{Expression: c.buffer, Result: result})
	c.historyLine = c.buffer + " ="
	c.buffer = result
	c.state = JustEvaluated
	c.failed = false
	return result, nil
}

// Press dispatches a button or keyboard key. Unknown keys are ignored and
// report false.
func (c *Calculator) Press(key string) (bool, error) {
	switch key {
	case KeyClear, "c", KeyEscape:
		c.Clear()
	case KeyDelete, KeyBackspace:
		c.Delete()
	case KeyEquals, KeyEnter:
		_, err := c.Evaluate()
		return true, err
	default:
		if len(key) != 1 || !strings.Contains(inputChars, key) {
			return false, nil
		}
		c.Append(key)
	}
	return true, nil
}

// Display is the text of the main display.
func (c *Calculator) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayLocked()
}

func (c *Calculator) displayLocked() string {
	switch {
	case c.failed:
		return errorDisplay
	case c.buffer == "":
		return emptyDisplay
	default:
		return c.buffer
	}
}

// Buffer is the raw expression buffer.
func (c *Calculator) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// HistoryLine is the "expr =" line shown above the display.
func (c *Calculator) HistoryLine() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.historyLine
}

// State reports the current input mode.
func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns a copy of the log, most recent last.
func (c *Calculator) History() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.history...)
}
