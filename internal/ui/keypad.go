package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/yildizm/kcalc/internal/calc"
	"github.com/yildizm/kcalc/internal/glyph"
)

// keypadKey is one button on the keypad. Input is the key that presses it,
// used to highlight the last button pressed.
type keypadKey struct {
	Label string
	Input string
}

func basicKeypad() [][]keypadKey {
	return [][]keypadKey{
		{{"C", "c"}, {glyph.Get("backspace"), "backspace"}, {"(", "("}, {")", ")"}},
		{{"7", "7"}, {"8", "8"}, {"9", "9"}, {glyph.Get("divide"), "/"}},
		{{"4", "4"}, {"5", "5"}, {"6", "6"}, {glyph.Get("multiply"), "*"}},
		{{"1", "1"}, {"2", "2"}, {"3", "3"}, {"-", "-"}},
		{{"0", "0"}, {".", "."}, {"%", "%"}, {"+", "+"}},
		{{"^", "^"}, {"=", "enter"}},
	}
}

func scientificKeypad() [][]keypadKey {
	return [][]keypadKey{
		{{"sin", "s"}, {"cos", "o"}, {"tan", "n"}},
		{{"log", "l"}, {"ln", "ctrl+l"}, {glyph.Function(calc.FuncSqrt), "r"}},
		{{glyph.Function(calc.FuncSquare), "ctrl+q"}, {glyph.Function(calc.FuncReciprocal), "ctrl+r"}, {glyph.Function(calc.FuncPi), "p"}},
		{{glyph.Function(calc.FuncE), "E"}},
	}
}

// keyInputAliases map keys that press the same button
var keyInputAliases = map[string]string{
	"=":   "enter",
	"esc": "c",
}

// renderKeypad draws the keypad grid, highlighting the button for lastKey
func renderKeypad(rows [][]keypadKey, lastKey string, styles Styles) string {
	if alias, ok := keyInputAliases[lastKey]; ok {
		lastKey = alias
	}

	cell := 0
	for _, row := range rows {
		for _, k := range row {
			cell = max(cell, uniseg.StringWidth(k.Label))
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		buttons := make([]string, 0, len(row))
		for _, k := range row {
			label := k.Label + strings.Repeat(" ", cell-uniseg.StringWidth(k.Label))
			style := styles.Key
			if k.Input == lastKey {
				style = styles.KeyHot
			}
			buttons = append(buttons, style.Render(label))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
