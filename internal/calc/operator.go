package calc

import (
	"math"
	"strconv"
	"strings"
)

// Operator is a binary operator of the discrete strategy
type Operator string

const (
	OpNone Operator = ""
	OpAdd  Operator = "+"
	OpSub  Operator = "-"
	OpMul  Operator = "*"
	OpDiv  Operator = "/"
	OpMod  Operator = "%"
	OpPow  Operator = "^"
)

// ParseOperator recognises an operator key
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(s); op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return op, true
	}
	return OpNone, false
}

// OperatorState is the position of the discrete strategy in its cycle
type OperatorState int

const (
	AwaitingFirstOperand OperatorState = iota
	HasOperand
	HasOperandAndOperator
	HasBothOperands
)

func (s OperatorState) String() string {
	switch s {
	case AwaitingFirstOperand:
		return "AwaitingFirstOperand"
	case HasOperand:
		return "HasOperand"
	case HasOperandAndOperator:
		return "HasOperandAndOperator"
	case HasBothOperands:
		return "HasBothOperands"
	}
	return "Unknown"
}

// Compute applies op to a and b. Division and remainder by zero yield 0 and
// report ErrDivisionByZero; the error is a notice, the value is still used.
func Compute(a float64, op Operator, b float64) (float64, *EvalError) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		if b == 0 {
			return 0, divisionByZero()
		}
		return a / b, nil
	case OpMod:
		if b == 0 {
			return 0, divisionByZero()
		}
		return math.Mod(a, b), nil
	case OpPow:
		return math.Pow(a, b), nil
	}
	return b, nil
}

func divisionByZero() *EvalError {
	return &EvalError{
		Type:    ErrTypeDivisionByZero,
		Message: "division by zero yields 0",
		Pos:     -1,
	}
}

// OperatorCalculator is the discrete strategy: one pending binary operator,
// left-to-right reduction, no precedence and no parentheses.
type OperatorCalculator struct {
	display Display

	entry     string
	exact     float64 // full-precision value behind a formatted result entry
	hasExact  bool
	first     float64
	hasFirst  bool
	pending   Operator
	entered   bool // the entry holds an operand typed since the last operator
	overwrite bool // the next digit starts a new entry

	finalized bool
	invalid   bool
	trace     string
	notice    string
}

// NewOperatorCalculator creates a calculator showing 0
func NewOperatorCalculator(d Display) *OperatorCalculator {
	c := &OperatorCalculator{display: d}
	c.Reset()
	return c
}

// Mode identifies the strategy
func (c *OperatorCalculator) Mode() Mode {
	return ModeOperator
}

// Reset returns to AwaitingFirstOperand
func (c *OperatorCalculator) Reset() {
	c.entry = "0"
	c.hasExact = false
	c.first = 0
	c.hasFirst = false
	c.pending = OpNone
	c.entered = false
	c.overwrite = true
	c.finalized = false
	c.invalid = false
	c.trace = ""
	c.notice = ""
}

// State reports where the calculator is in the operand/operator cycle
func (c *OperatorCalculator) State() OperatorState {
	switch {
	case c.pending != OpNone && c.entered:
		return HasBothOperands
	case c.pending != OpNone:
		return HasOperandAndOperator
	case c.entered || c.hasFirst:
		return HasOperand
	}
	return AwaitingFirstOperand
}

// Pending returns the operator waiting for its second operand
func (c *OperatorCalculator) Pending() Operator {
	return c.pending
}

// Handle applies one token. Function names arriving as input text are
// routed to Apply since this strategy has no expression text.
func (c *OperatorCalculator) Handle(tok Token) ViewState {
	c.invalid = false
	c.notice = ""

	switch tok.Kind {
	case TokenInput:
		c.input(tok.Text)
	case TokenEquals:
		c.Equals()
	case TokenBackspace:
		c.Backspace()
	case TokenClear:
		c.Reset()
	case TokenFunction:
		return c.Apply(tok.Function)
	}
	return c.View()
}

func (c *OperatorCalculator) input(text string) {
	if op, ok := ParseOperator(text); ok {
		c.PressOperator(op)
		return
	}
	if fn, ok := LookupFunction(text); ok {
		c.Apply(fn)
		return
	}
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			c.PressDigit(r)
		case r == '.':
			c.PressDecimal()
		default:
			c.invalid = true
			return
		}
	}
}

// View returns the current view state
func (c *OperatorCalculator) View() ViewState {
	return ViewState{
		Buffer:    c.entry,
		Cursor:    len([]rune(c.entry)),
		Finalized: c.finalized,
		Invalid:   c.invalid,
		Trace:     c.trace,
		Notice:    c.notice,
	}
}

// PressDigit appends a digit to the entry, starting a new one when needed
func (c *OperatorCalculator) PressDigit(d rune) {
	if c.overwrite || c.entry == "0" {
		c.entry = string(d)
	} else {
		c.entry += string(d)
	}
	c.hasExact = false
	c.overwrite = false
	c.entered = true
	c.finalized = false
}

// PressDecimal adds a decimal point unless the entry already has one
func (c *OperatorCalculator) PressDecimal() {
	if c.overwrite {
		c.entry = "0."
	} else if !strings.Contains(c.entry, ".") {
		c.entry += "."
	}
	c.hasExact = false
	c.overwrite = false
	c.entered = true
	c.finalized = false
}

// PressOperator sets op as the pending operator. If another operator is
// pending and a second operand was entered, the pair collapses first.
func (c *OperatorCalculator) PressOperator(op Operator) {
	v := c.entryValue()

	switch {
	case c.pending != OpNone && c.entered:
		result, err := Compute(c.first, c.pending, v)
		if err != nil {
			c.notice = err.Message
		}
		if !c.accept(result) {
			return
		}
		c.first = result
		c.setResult(result)
	case c.pending == OpNone:
		c.first = v
	}

	c.hasFirst = true
	c.pending = op
	c.entered = false
	c.overwrite = true
	c.finalized = false
	c.trace = c.display.Format(c.first) + " " + string(op)
}

// Equals completes the pending operation. With nothing pending it is a
// no-op. The result stays as the first operand for chained operations.
func (c *OperatorCalculator) Equals() {
	if c.pending == OpNone {
		return
	}
	operand := c.entryValue()
	result, err := Compute(c.first, c.pending, operand)
	if err != nil {
		c.notice = err.Message
	}
	if !c.accept(result) {
		return
	}

	c.trace = c.display.Format(c.first) + " " + string(c.pending) + " " + c.display.Format(operand) + " ="
	c.first = result
	c.setResult(result)
	c.pending = OpNone
	c.entered = false
	c.overwrite = true
	c.finalized = true
}

// Backspace removes the last entry character; an emptied entry shows 0
func (c *OperatorCalculator) Backspace() {
	if c.overwrite {
		return
	}
	r := []rune(c.entry)
	r = r[:len(r)-1]
	c.entry = string(r)
	if c.entry == "" || c.entry == "-" {
		c.entry = "0"
	}
}

// Apply runs fn on the entry and makes the outcome the current operand
func (c *OperatorCalculator) Apply(fn Function) ViewState {
	operand := c.entryValue()
	out := ApplyFunction(fn, operand)
	if !out.Ok() {
		c.invalid = true
		return c.View()
	}
	if fn.IsConstant() {
		operand = 0
	}

	c.trace = FunctionTrace(fn, operand, out.Value, c.display)
	c.setResult(out.Value)
	c.overwrite = true
	c.entered = true
	c.finalized = false
	if c.pending == OpNone {
		c.first = out.Value
		c.hasFirst = true
	}
	return c.View()
}

// accept rejects results the display cannot show, e.g. an overflowing power
func (c *OperatorCalculator) accept(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.invalid = true
		return false
	}
	return true
}

// setResult shows v in the entry while keeping its full precision for the
// next operation
func (c *OperatorCalculator) setResult(v float64) {
	c.entry = c.display.Format(v)
	c.exact = v
	c.hasExact = true
}

// Value returns the full-precision operand behind the entry
func (c *OperatorCalculator) Value() float64 {
	return c.entryValue()
}

// entryValue returns the operand held by the entry
func (c *OperatorCalculator) entryValue() float64 {
	if c.hasExact {
		return c.exact
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(c.entry, "."), 64)
	if err != nil {
		return 0
	}
	return v
}
