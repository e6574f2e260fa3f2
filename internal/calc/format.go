package calc

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Display holds the formatting rules for rendering numbers
type Display struct {
	// ExponentThreshold is the length at which the shortest decimal form is
	// replaced by exponent notation
	ExponentThreshold int

	// ExponentDigits is the number of fractional digits in exponent notation
	ExponentDigits int
}

// DefaultDisplay returns the 12-character display used by the calculator
func DefaultDisplay() Display {
	return Display{
		ExponentThreshold: 12,
		ExponentDigits:    6,
	}
}

// Format renders v for display, switching to exponent notation when the
// shortest form would be too long.
func (d Display) Format(v float64) string {
	s := Stringify(v)
	if d.ExponentThreshold > 0 && utf8.RuneCountInString(s) >= d.ExponentThreshold {
		return strconv.FormatFloat(v, 'e', d.ExponentDigits, 64)
	}
	return s
}

// Format renders v with the default display rules
func Format(v float64) string {
	return DefaultDisplay().Format(v)
}

// Stringify returns the shortest decimal string that parses back to exactly
// v. Fixed notation is used for 1e-7 <= |v| < 1e21, exponent notation
// outside that range, with the exponent written without padding ("1e-8").
func Stringify(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
