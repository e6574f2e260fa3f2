package calc

import (
	"strings"
)

// allowedRunes are the single-rune inputs accepted by the expression buffer
const allowedRunes = "0123456789.()+-*/^%√πe"

// allowedWords are the multi-rune inputs accepted by the expression buffer
var allowedWords = []string{"sin", "cos", "tan", "log"}

// AllowedInput reports whether text is made up entirely of allow-listed
// pieces. Empty text is not allowed.
func AllowedInput(text string) bool {
	if text == "" {
		return false
	}
	rest := text
	for rest != "" {
		matched := false
		for _, w := range allowedWords {
			if strings.HasPrefix(rest, w) {
				rest = rest[len(w):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		r := []rune(rest)[0]
		if !strings.ContainsRune(allowedRunes, r) {
			return false
		}
		rest = rest[len(string(r)):]
	}
	return true
}

// ExpressionCalculator is the free-text strategy: an editable buffer with a
// cursor, a live preview and a finalized state after '='.
type ExpressionCalculator struct {
	display   Display
	buf       []rune
	cursor    int
	finalized bool
	preview   string
	invalid   bool
	trace     string
}

// NewExpressionCalculator creates an empty expression calculator
func NewExpressionCalculator(d Display) *ExpressionCalculator {
	return &ExpressionCalculator{display: d}
}

// Mode identifies the strategy
func (c *ExpressionCalculator) Mode() Mode {
	return ModeExpression
}

// Handle applies one token. The invalid signal only survives until the next
// token.
func (c *ExpressionCalculator) Handle(tok Token) ViewState {
	c.invalid = false

	switch tok.Kind {
	case TokenInput:
		c.Insert(tok.Text)
	case TokenEquals:
		c.Evaluate()
	case TokenBackspace:
		c.Backspace()
	case TokenClear:
		c.Clear()
	case TokenMove:
		c.MoveCursor(tok.Direction)
	case TokenFunction:
		return c.Apply(tok.Function)
	}
	return c.View()
}

// View returns the current view state
func (c *ExpressionCalculator) View() ViewState {
	return ViewState{
		Buffer:    string(c.buf),
		Cursor:    c.cursor,
		Preview:   c.preview,
		Finalized: c.finalized,
		Invalid:   c.invalid,
		Trace:     c.trace,
	}
}

// Reset clears everything including the trace
func (c *ExpressionCalculator) Reset() {
	c.Clear()
	c.trace = ""
	c.invalid = false
}

// Insert splices text at the cursor. After a result it hands over to
// TypeAfterResult; text outside the allow-list is ignored.
func (c *ExpressionCalculator) Insert(text string) {
	if !AllowedInput(text) {
		return
	}
	if c.finalized {
		c.TypeAfterResult(text)
		return
	}

	ins := []rune(text)
	buf := make([]rune, 0, len(c.buf)+len(ins))
	buf = append(buf, c.buf[:c.cursor]...)
	buf = append(buf, ins...)
	buf = append(buf, c.buf[c.cursor:]...)
	c.buf = buf
	c.cursor += len(ins)
	c.refreshPreview()
}

// TypeAfterResult continues from the finalized result: the buffer becomes
// the stringified result followed by text. If the current buffer does not
// evaluate, the keystroke is dropped.
func (c *ExpressionCalculator) TypeAfterResult(text string) {
	if !AllowedInput(text) {
		return
	}
	res := Evaluate(string(c.buf))
	if !res.Ok() {
		return
	}
	c.buf = []rune(Stringify(res.Value) + text)
	c.cursor = len(c.buf)
	c.finalized = false
	c.refreshPreview()
}

// Backspace removes the rune before the cursor, or the whole result when
// finalized
func (c *ExpressionCalculator) Backspace() {
	if c.finalized {
		c.buf = nil
		c.cursor = 0
		c.preview = ""
		c.finalized = false
		return
	}
	if c.cursor == 0 {
		return
	}
	c.buf = append(c.buf[:c.cursor-1], c.buf[c.cursor:]...)
	c.cursor--
	c.refreshPreview()
}

// Clear empties the buffer and leaves the finalized state
func (c *ExpressionCalculator) Clear() {
	c.buf = nil
	c.cursor = 0
	c.preview = ""
	c.finalized = false
	c.trace = ""
}

// MoveCursor moves the cursor within the buffer bounds
func (c *ExpressionCalculator) MoveCursor(dir Direction) {
	switch dir {
	case MoveLeft:
		if c.cursor > 0 {
			c.cursor--
		}
	case MoveRight:
		if c.cursor < len(c.buf) {
			c.cursor++
		}
	case MoveHome:
		c.cursor = 0
	case MoveEnd:
		c.cursor = len(c.buf)
	}
}

// Evaluate finalizes the buffer. On failure the buffer is left as typed and
// the invalid signal is raised. A second '=' on a result is a no-op.
func (c *ExpressionCalculator) Evaluate() Result {
	expr := string(c.buf)
	res := Evaluate(expr)
	if !res.Ok() {
		c.invalid = true
		return res
	}
	if c.finalized {
		return res
	}

	c.buf = []rune(Stringify(res.Value))
	c.cursor = len(c.buf)
	c.preview = ""
	c.finalized = true
	c.trace = strings.TrimSpace(expr) + " ="
	return res
}

// Apply evaluates the buffer as the current operand, runs fn on it and
// finalizes the outcome. Constants replace the operand outright.
func (c *ExpressionCalculator) Apply(fn Function) ViewState {
	c.invalid = false

	var operand float64
	if !fn.IsConstant() {
		res := Evaluate(string(c.buf))
		if !res.Ok() {
			c.invalid = true
			return c.View()
		}
		operand = res.Value
	}

	out := ApplyFunction(fn, operand)
	if !out.Ok() {
		c.invalid = true
		return c.View()
	}

	c.buf = []rune(Stringify(out.Value))
	c.cursor = len(c.buf)
	c.preview = ""
	c.finalized = true
	c.trace = FunctionTrace(fn, operand, out.Value, c.display)
	return c.View()
}

// refreshPreview recomputes the live result shown under the buffer
func (c *ExpressionCalculator) refreshPreview() {
	if c.finalized || strings.TrimSpace(string(c.buf)) == "" {
		c.preview = ""
		return
	}
	res := Evaluate(string(c.buf))
	if !res.Ok() {
		c.preview = ""
		return
	}
	c.preview = c.display.Format(res.Value)
}
