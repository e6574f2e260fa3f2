package calc

import (
	"fmt"
	"strings"
)

// ErrorType represents the category of an evaluation error
type ErrorType string

const (
	// ErrTypeInvalidExpression covers malformed syntax, unknown tokens and
	// unmatched parentheses
	ErrTypeInvalidExpression ErrorType = "invalid_expression"

	// ErrTypeNonFiniteResult indicates the value evaluated to NaN or ±Inf
	ErrTypeNonFiniteResult ErrorType = "non_finite_result"

	// ErrTypeDivisionByZero is only reported by the operator strategy, which
	// substitutes 0 for the quotient
	ErrTypeDivisionByZero ErrorType = "division_by_zero"
)

// Sentinel errors for use with errors.Is
var (
	ErrInvalidExpression = &EvalError{Type: ErrTypeInvalidExpression}
	ErrNonFiniteResult   = &EvalError{Type: ErrTypeNonFiniteResult}
	ErrDivisionByZero    = &EvalError{Type: ErrTypeDivisionByZero}
)

// EvalError describes why an expression could not be evaluated
type EvalError struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message provides human-readable error description
	Message string `json:"message,omitempty"`

	// Pos is the rune offset in the input where the problem was found, or -1
	Pos int `json:"pos"`
}

// Error implements the error interface
func (e *EvalError) Error() string {
	parts := []string{string(e.Type)}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Pos >= 0 && e.Message != "" {
		parts = append(parts, fmt.Sprintf("at %d", e.Pos))
	}
	return strings.Join(parts, ": ")
}

// Is matches errors by type. A non-finite result is also an invalid
// expression, so errors.Is(err, ErrInvalidExpression) holds for both.
func (e *EvalError) Is(target error) bool {
	te, ok := target.(*EvalError)
	if !ok {
		return false
	}
	if e.Type == te.Type {
		return true
	}
	return te.Type == ErrTypeInvalidExpression && e.Type == ErrTypeNonFiniteResult
}

func newSyntaxError(pos int, format string, args ...any) *EvalError {
	return &EvalError{
		Type:    ErrTypeInvalidExpression,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

func newNonFiniteError(v float64) *EvalError {
	return &EvalError{
		Type:    ErrTypeNonFiniteResult,
		Message: fmt.Sprintf("result is %v", v),
		Pos:     -1,
	}
}
