package calc

import (
	"math"
	"testing"
)

// press feeds key names through ParseToken, the way the UI does
func press(c Calculator, keys ...string) ViewState {
	var v ViewState
	for _, k := range keys {
		v = c.Handle(ParseToken(k))
	}
	return v
}

func TestExpressionPreviewAndFinalize(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())

	v := press(c, "2", "+", "3", "*", "4")
	if v.Buffer != "2+3*4" {
		t.Fatalf("Buffer = %q", v.Buffer)
	}
	if v.Preview != "14" {
		t.Errorf("Preview = %q, want 14", v.Preview)
	}
	if v.Finalized {
		t.Error("should not be finalized before '='")
	}

	v = press(c, "=")
	if v.Buffer != "14" || !v.Finalized {
		t.Errorf("after '=' got Buffer=%q Finalized=%v", v.Buffer, v.Finalized)
	}
	if v.Preview != "" {
		t.Errorf("Preview should clear on finalize, got %q", v.Preview)
	}
	if v.Trace != "2+3*4 =" {
		t.Errorf("Trace = %q", v.Trace)
	}

	again := press(c, "Enter")
	if again != v {
		t.Errorf("second '=' changed state: %+v -> %+v", v, again)
	}
}

func TestExpressionTypeAfterResult(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"digit appends", []string{"2", "+", "3", "*", "4", "=", "5"}, "145"},
		{"operator continues", []string{"2", "+", "3", "*", "4", "=", "+"}, "14+"},
		{"paren appends", []string{"6", "=", ")"}, "6)"},
		{"full precision kept", []string{"1", "/", "3", "=", "*"}, "0.3333333333333333*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewExpressionCalculator(DefaultDisplay())
			v := press(c, tt.keys...)
			if v.Buffer != tt.want {
				t.Errorf("Buffer = %q, want %q", v.Buffer, tt.want)
			}
			if v.Finalized {
				t.Error("typing after a result should leave the finalized state")
			}
			if v.Cursor != len([]rune(tt.want)) {
				t.Errorf("Cursor = %d, want end of buffer", v.Cursor)
			}
		})
	}
}

func TestExpressionInvalidEvaluation(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())

	v := press(c, "2", "+", "=")
	if !v.Invalid {
		t.Fatal("expected the invalid signal")
	}
	if v.Buffer != "2+" || v.Finalized {
		t.Errorf("failed '=' must leave the buffer as typed, got %q finalized=%v", v.Buffer, v.Finalized)
	}

	v = press(c, "1")
	if v.Invalid {
		t.Error("invalid signal should clear on the next token")
	}
	if v.Preview != "3" {
		t.Errorf("Preview = %q, want 3", v.Preview)
	}
}

func TestExpressionDivisionByZeroIsInvalid(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())
	v := press(c, "1", "/", "0")
	if v.Preview != "" {
		t.Errorf("non-finite preview should be blank, got %q", v.Preview)
	}
	v = press(c, "=")
	if !v.Invalid || v.Buffer != "1/0" {
		t.Errorf("got %+v", v)
	}
}

func TestExpressionIgnoresDisallowedInput(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())
	v := press(c, "1", "x", "$", "a", "2")
	if v.Buffer != "12" {
		t.Errorf("Buffer = %q, want 12", v.Buffer)
	}
}

func TestExpressionBackspace(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())

	v := press(c, "1", "2", "3", "Backspace")
	if v.Buffer != "12" || v.Cursor != 2 {
		t.Errorf("got Buffer=%q Cursor=%d", v.Buffer, v.Cursor)
	}

	v = press(c, "=", "⌫")
	if v.Buffer != "" || v.Finalized {
		t.Errorf("backspace on a result should clear, got %q finalized=%v", v.Buffer, v.Finalized)
	}

	v = press(c, "Backspace")
	if v.Buffer != "" || v.Cursor != 0 {
		t.Errorf("backspace on empty buffer should be a no-op, got %+v", v)
	}
}

func TestExpressionCursorEditing(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())

	v := press(c, "1", "2", "Left", "3")
	if v.Buffer != "132" || v.Cursor != 2 {
		t.Fatalf("got Buffer=%q Cursor=%d", v.Buffer, v.Cursor)
	}

	v = press(c, "Home", "Backspace")
	if v.Buffer != "132" || v.Cursor != 0 {
		t.Errorf("backspace at start should be a no-op, got %q cursor %d", v.Buffer, v.Cursor)
	}

	v = press(c, "Left", "Left")
	if v.Cursor != 0 {
		t.Errorf("cursor should clamp at 0, got %d", v.Cursor)
	}

	v = press(c, "End", "Right", "Right")
	if v.Cursor != 3 {
		t.Errorf("cursor should clamp at the end, got %d", v.Cursor)
	}

	v = press(c, "Home", "Right", "Backspace")
	if v.Buffer != "32" || v.Cursor != 0 {
		t.Errorf("got Buffer=%q Cursor=%d", v.Buffer, v.Cursor)
	}
}

func TestExpressionMultiRuneInput(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())
	v := press(c, "sin", "(", "0", ")", "+", "√", "(", "4", ")")
	if v.Buffer != "sin(0)+√(4)" {
		t.Fatalf("Buffer = %q", v.Buffer)
	}
	if v.Cursor != len([]rune("sin(0)+√(4)")) {
		t.Errorf("Cursor = %d", v.Cursor)
	}
	if v.Preview != "2" {
		t.Errorf("Preview = %q", v.Preview)
	}
}

func TestExpressionClear(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())
	v := press(c, "9", "=", "AC")
	if v != (ViewState{}) {
		t.Errorf("clear should return to the empty state, got %+v", v)
	}
}

func TestExpressionApply(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())

	press(c, "2", "+", "2")
	v := c.Apply(FuncSqrt)
	if v.Buffer != "2" || !v.Finalized {
		t.Errorf("got %+v", v)
	}
	if v.Trace != "sqrt(4) = 2" {
		t.Errorf("Trace = %q", v.Trace)
	}

	v = press(c, "*", "3")
	if v.Buffer != "2*3" {
		t.Errorf("typing after a function result: Buffer = %q", v.Buffer)
	}

	v = c.Apply(FuncSquare)
	if v.Buffer != "36" {
		t.Errorf("square of 2*3: Buffer = %q", v.Buffer)
	}
}

func TestExpressionApplyConstant(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())
	v := c.Apply(FuncPi)
	if v.Buffer != Stringify(math.Pi) {
		t.Errorf("Buffer = %q", v.Buffer)
	}
	if v.Trace != "π = 3.141593e+00" {
		t.Errorf("Trace = %q", v.Trace)
	}
}

func TestExpressionApplyFailures(t *testing.T) {
	c := NewExpressionCalculator(DefaultDisplay())

	v := c.Apply(FuncSin)
	if !v.Invalid {
		t.Error("applying a function to an empty buffer should be invalid")
	}

	press(c, "0", "-", "4")
	v = c.Apply(FuncSqrt)
	if !v.Invalid || v.Buffer != "0-4" {
		t.Errorf("sqrt of a negative should leave the buffer, got %+v", v)
	}

	v = c.Handle(ParseToken("1/x"))
	if v.Invalid {
		t.Errorf("reciprocal of -4 should succeed, got %+v", v)
	}
	if v.Buffer != "-0.25" {
		t.Errorf("Buffer = %q", v.Buffer)
	}
}

func TestAllowedInput(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"7", true},
		{"2+3*4", true},
		{"sin", true},
		{"cos(π)", true},
		{"√", true},
		{"e^2", true},
		{"1.5%2", true},
		{"", false},
		{"x", false},
		{"sinx", false},
		{"ln", false},
		{"2 + 3", false},
		{"=", false},
	}

	for _, tt := range tests {
		if got := AllowedInput(tt.text); got != tt.want {
			t.Errorf("AllowedInput(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
