package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/yildizm/kcalc/internal/calc"
)

// keyMap holds every binding the calculator understands
type keyMap struct {
	Input      key.Binding
	Evaluate   key.Binding
	Backspace  key.Binding
	Clear      key.Binding
	Left       key.Binding
	Right      key.Binding
	Home       key.Binding
	End        key.Binding
	Scientific key.Binding
	Strategy   key.Binding
	Theme      key.Binding
	Insert     key.Binding
	Ln         key.Binding
	Reciprocal key.Binding
	Square     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// inputKeys are inserted into the buffer as typed
var inputKeys = []string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"+", "-", "*", "/", ".", "(", ")", "%", "^",
}

// insertKeys are letter shortcuts for functions and constants
var insertKeys = map[string]calc.Function{
	"s": calc.FuncSin,
	"o": calc.FuncCos,
	"n": calc.FuncTan,
	"l": calc.FuncLog,
	"r": calc.FuncSqrt,
	"p": calc.FuncPi,
	"E": calc.FuncE,
}

func newKeyMap() keyMap {
	return keyMap{
		Input: key.NewBinding(
			key.WithKeys(inputKeys...),
			key.WithHelp("0-9 + - * / ( ) % ^", "type"),
		),
		Evaluate: key.NewBinding(
			key.WithKeys("enter", "="),
			key.WithHelp("enter/=", "evaluate"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c", "C", "esc"),
			key.WithHelp("c/esc", "clear"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "start"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "end"),
		),
		Scientific: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "scientific"),
		),
		Strategy: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch mode"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Insert: key.NewBinding(
			key.WithKeys("s", "o", "n", "l", "r", "p", "E"),
			key.WithHelp("s o n l r p E", "sin cos tan log √ π e"),
		),
		Ln: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "ln"),
		),
		Reciprocal: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "1/x"),
		),
		Square: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "x²"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Evaluate, k.Clear, k.Strategy, k.Scientific, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Input, k.Evaluate, k.Backspace, k.Clear},
		{k.Left, k.Right, k.Home, k.End},
		{k.Insert, k.Ln, k.Reciprocal, k.Square},
		{k.Scientific, k.Strategy, k.Theme, k.Help, k.Quit},
	}
}
