package calc

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Mode names a calculator strategy
type Mode string

const (
	ModeExpression Mode = "expression"
	ModeOperator   Mode = "operator"
)

// ViewState is what the surrounding UI renders after each token. It is
// derived from the strategy's state and never stored on its own.
type ViewState struct {
	Buffer    string
	Cursor    int
	Preview   string
	Finalized bool
	Invalid   bool
	Trace     string
	Notice    string
}

// Calculator is the capability shared by both strategies
type Calculator interface {
	// Handle applies one external token and returns the new view state
	Handle(tok Token) ViewState

	// Apply runs a single-operand function on the current operand
	Apply(fn Function) ViewState

	// View returns the current view state without changing anything
	View() ViewState

	// Reset returns the calculator to its initial state
	Reset()

	// Mode identifies the strategy
	Mode() Mode
}

// TokenKind classifies an external input token
type TokenKind int

const (
	TokenInput TokenKind = iota
	TokenEquals
	TokenBackspace
	TokenClear
	TokenMove
	TokenFunction
)

// Direction is a cursor movement
type Direction int

const (
	MoveLeft Direction = iota
	MoveRight
	MoveHome
	MoveEnd
)

// Token is one discrete keystroke or click delivered by the UI
type Token struct {
	Kind      TokenKind
	Text      string
	Direction Direction
	Function  Function
}

var controlTokens = map[string]Token{
	"=":         {Kind: TokenEquals},
	"Enter":     {Kind: TokenEquals},
	"Backspace": {Kind: TokenBackspace},
	"⌫":         {Kind: TokenBackspace},
	"AC":        {Kind: TokenClear},
	"C":         {Kind: TokenClear},
	"Clear":     {Kind: TokenClear},
	"Escape":    {Kind: TokenClear},
	"Left":      {Kind: TokenMove, Direction: MoveLeft},
	"Right":     {Kind: TokenMove, Direction: MoveRight},
	"Home":      {Kind: TokenMove, Direction: MoveHome},
	"End":       {Kind: TokenMove, Direction: MoveEnd},
}

// applyOnly are function names the input allow-list does not accept, so
// they always mean function application
var applyOnly = map[string]bool{
	"ln":         true,
	"reciprocal": true,
	"1/x":        true,
	"square":     true,
	"x²":         true,
	"x^2":        true,
	"sqrt":       true,
}

// ParseToken maps a key name or button label to a Token. Anything that is
// not a control key or an apply-only function is input text; strategies
// decide whether they accept it.
func ParseToken(s string) Token {
	if tok, ok := controlTokens[s]; ok {
		return tok
	}
	if applyOnly[s] {
		fn, _ := LookupFunction(s)
		return Token{Kind: TokenFunction, Function: fn, Text: s}
	}
	return Token{Kind: TokenInput, Text: s}
}

// Factory creates a calculator strategy
type Factory func(d Display) Calculator

// Registry maps mode names to strategy factories
type Registry struct {
	factories map[Mode]Factory
	mu        sync.RWMutex
}

// NewRegistry creates a registry with both built-in strategies
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[Mode]Factory)}
	r.Register(ModeExpression, func(d Display) Calculator { return NewExpressionCalculator(d) })
	r.Register(ModeOperator, func(d Display) Calculator { return NewOperatorCalculator(d) })
	return r
}

// Register adds or replaces a strategy factory
func (r *Registry) Register(mode Mode, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[mode] = factory
}

// Create builds the named strategy
func (r *Registry) Create(mode Mode, d Display) (Calculator, error) {
	r.mu.RLock()
	factory, ok := r.factories[mode]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown calculator mode %q (available: %s)", mode, strings.Join(r.Modes(), ", "))
	}
	return factory(d), nil
}

// Modes lists registered mode names in sorted order
func (r *Registry) Modes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modes := make([]string, 0, len(r.factories))
	for m := range r.factories {
		modes = append(modes, string(m))
	}
	sort.Strings(modes)
	return modes
}

var defaultRegistry = NewRegistry()

// New creates a calculator for the named mode using the default registry
func New(mode string, d Display) (Calculator, error) {
	return defaultRegistry.Create(Mode(mode), d)
}

// Modes lists the modes known to the default registry
func Modes() []string {
	return defaultRegistry.Modes()
}
