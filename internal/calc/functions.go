package calc

import (
	"fmt"
	"math"
)

// Function is a single-operand function or constant that can be applied to
// the current operand of either strategy
type Function string

const (
	FuncSin        Function = "sin"
	FuncCos        Function = "cos"
	FuncTan        Function = "tan"
	FuncLog        Function = "log"
	FuncLn         Function = "ln"
	FuncSqrt       Function = "sqrt"
	FuncReciprocal Function = "reciprocal"
	FuncSquare     Function = "square"
	FuncPi         Function = "π"
	FuncE          Function = "e"
)

type functionSpec struct {
	constant bool
	eval     func(float64) float64
}

// trig functions take radians
var functionTable = map[Function]functionSpec{
	FuncSin:        {eval: math.Sin},
	FuncCos:        {eval: math.Cos},
	FuncTan:        {eval: math.Tan},
	FuncLog:        {eval: math.Log10},
	FuncLn:         {eval: math.Log},
	FuncSqrt:       {eval: math.Sqrt},
	FuncReciprocal: {eval: func(x float64) float64 { return 1 / x }},
	FuncSquare:     {eval: func(x float64) float64 { return x * x }},
	FuncPi:         {constant: true, eval: func(float64) float64 { return math.Pi }},
	FuncE:          {constant: true, eval: func(float64) float64 { return math.E }},
}

var functionAliases = map[string]Function{
	"√":   FuncSqrt,
	"1/x": FuncReciprocal,
	"x²":  FuncSquare,
	"x^2": FuncSquare,
	"pi":  FuncPi,
}

// LookupFunction resolves a function name or one of its keypad aliases
func LookupFunction(name string) (Function, bool) {
	if fn, ok := functionAliases[name]; ok {
		return fn, true
	}
	fn := Function(name)
	if _, ok := functionTable[fn]; ok {
		return fn, true
	}
	return "", false
}

// Functions lists every applicable function in keypad order
func Functions() []Function {
	return []Function{
		FuncSin, FuncCos, FuncTan, FuncLog, FuncLn,
		FuncSqrt, FuncReciprocal, FuncSquare, FuncPi, FuncE,
	}
}

// IsConstant reports whether fn ignores its operand
func (fn Function) IsConstant() bool {
	return functionTable[fn].constant
}

// ApplyFunction evaluates fn on operand. Non-finite outcomes such as
// sqrt(-1) or reciprocal(0) are reported as errors.
func ApplyFunction(fn Function, operand float64) Result {
	spec, ok := functionTable[fn]
	if !ok {
		return Failure(&EvalError{
			Type:    ErrTypeInvalidExpression,
			Message: fmt.Sprintf("unknown function %q", fn),
			Pos:     -1,
		})
	}
	v := spec.eval(operand)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Failure(newNonFiniteError(v))
	}
	return Number(v)
}

// FunctionTrace renders the trace line for a function application, e.g.
// "sin(2) = 0.909297" or "π = 3.141593"
func FunctionTrace(fn Function, operand, result float64, d Display) string {
	if fn.IsConstant() {
		return fmt.Sprintf("%s = %s", fn, d.Format(result))
	}
	return fmt.Sprintf("%s(%s) = %s", fn, d.Format(operand), d.Format(result))
}
