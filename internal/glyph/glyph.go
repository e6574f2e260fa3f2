// Package glyph maps the calculator's symbols and status markers to their
// Unicode form or an ASCII fallback for terminals that cannot show them.
package glyph

import (
	"sync/atomic"

	"github.com/yildizm/kcalc/internal/calc"
)

// glyphMap holds [unicode, fallback] pairs
var glyphMap = map[string][2]string{
	// keypad symbols
	"pi":         {"π", "pi"},
	"euler":      {"e", "e"},
	"sqrt":       {"√", "sqrt"},
	"square":     {"x²", "x^2"},
	"reciprocal": {"¹/x", "1/x"},
	"backspace":  {"⌫", "<-"},
	"multiply":   {"×", "*"},
	"divide":     {"÷", "/"},
	"cursor":     {"▏", "|"},

	// status markers
	"error":      {"❌", "[ERR]"},
	"notice":     {"⚠️", "[!]"},
	"success":    {"✅", "[OK]"},
	"statistics": {"📊", "[STATS]"},
	"calculator": {"🧮", "[CALC]"},
	"history":    {"📜", "[TAPE]"},
	"watch":      {"👀", "[WATCH]"},
	"config":     {"📄", "[CFG]"},
	"path":       {"📁", "[DIR]"},
	"target":     {"🎯", "[>]"},
	"hint":       {"💡", "[TIP]"},
}

var disabled atomic.Bool

// SetDisabled switches every lookup to the ASCII fallbacks
func SetDisabled(v bool) {
	disabled.Store(v)
}

// IsDisabled reports whether fallbacks are in use
func IsDisabled() bool {
	return disabled.Load()
}

// Get returns the glyph for key, or its fallback when glyphs are disabled
func Get(key string) string {
	mapping, ok := glyphMap[key]
	if !ok {
		return "[?]"
	}
	if disabled.Load() {
		return mapping[1]
	}
	return mapping[0]
}

// Fallback returns the ASCII form of key regardless of the global switch
func Fallback(key string) string {
	if mapping, ok := glyphMap[key]; ok {
		return mapping[1]
	}
	return "[?]"
}

var functionGlyphs = map[calc.Function]string{
	calc.FuncSqrt:       "sqrt",
	calc.FuncSquare:     "square",
	calc.FuncReciprocal: "reciprocal",
	calc.FuncPi:         "pi",
	calc.FuncE:          "euler",
}

// Function returns the keypad label for fn. Named functions such as sin
// are spelled out in both modes.
func Function(fn calc.Function) string {
	if key, ok := functionGlyphs[fn]; ok {
		return Get(key)
	}
	return string(fn)
}
