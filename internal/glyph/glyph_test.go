package glyph

import (
	"testing"

	"github.com/yildizm/kcalc/internal/calc"
)

func TestGet(t *testing.T) {
	t.Cleanup(func() { SetDisabled(false) })

	tests := []struct {
		key      string
		unicode  string
		fallback string
	}{
		{"pi", "π", "pi"},
		{"sqrt", "√", "sqrt"},
		{"backspace", "⌫", "<-"},
		{"error", "❌", "[ERR]"},
		{"no-such-glyph", "[?]", "[?]"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			SetDisabled(false)
			if got := Get(tt.key); got != tt.unicode {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.unicode)
			}
			SetDisabled(true)
			if got := Get(tt.key); got != tt.fallback {
				t.Errorf("Get(%q) disabled = %q, want %q", tt.key, got, tt.fallback)
			}
		})
	}
}

func TestFunction(t *testing.T) {
	t.Cleanup(func() { SetDisabled(false) })

	SetDisabled(false)
	if got := Function(calc.FuncSqrt); got != "√" {
		t.Errorf("Function(sqrt) = %q", got)
	}
	if got := Function(calc.FuncSin); got != "sin" {
		t.Errorf("Function(sin) = %q", got)
	}

	SetDisabled(true)
	if !IsDisabled() {
		t.Fatal("IsDisabled should report true")
	}
	if got := Function(calc.FuncPi); got != "pi" {
		t.Errorf("Function(π) disabled = %q", got)
	}
	if got := Function(calc.FuncSquare); got != "x^2" {
		t.Errorf("Function(square) disabled = %q", got)
	}
}

// Every ASCII fallback must be something the calculator itself accepts,
// so a fallback label can be fed straight back as a key.
func TestFunctionFallbacksAreKeys(t *testing.T) {
	t.Cleanup(func() { SetDisabled(false) })
	SetDisabled(true)

	for _, fn := range calc.Functions() {
		label := Function(fn)
		if got, ok := calc.LookupFunction(label); !ok || got != fn {
			t.Errorf("fallback label %q does not resolve to %s", label, fn)
		}
	}
}
