package calc

import (
	"errors"
	"math"
	"testing"

	"github.com/expr-lang/expr"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want float64
	}{
		{"precedence", "2+3*4", 14},
		{"parentheses override", "(2+3)*4", 20},
		{"left associative subtraction", "10-4-3", 3},
		{"left associative division", "100/10/5", 2},
		{"decimal", "1.5+2.25", 3.75},
		{"leading dot", ".5*4", 2},
		{"trailing dot", "5.+1", 6},
		{"remainder", "10%4", 2},
		{"remainder binds like multiply", "1+10%4", 3},
		{"unary minus", "-3+5", 2},
		{"double unary", "--3", 3},
		{"unary after operator", "2*-3", -6},
		{"power", "2^3", 8},
		{"power binds tighter than multiply", "3*2^3", 24},
		{"power fractional literal", "1.5^2", 2.25},
		{"power with constant", "π^2", math.Pi * math.Pi},
		{"unary minus applies after power", "-2^2", -4},
		{"pi", "π", math.Pi},
		{"euler", "e", math.E},
		{"sin radians", "sin(π/2)", 1},
		{"cos radians", "cos(0)", 1},
		{"tan", "tan(0)", 0},
		{"log base ten", "log(1000)", 3},
		{"root glyph", "√(16)", 4},
		{"sqrt word", "sqrt(2*8)", 4},
		{"nested functions", "sqrt(log(10000))", 2},
		{"whitespace", " 1 + 2 ", 3},
		{"exponent literal", "1e+21", 1e21},
		{"negative exponent literal", "1.5e-8*2", 3e-8},
		{"exponent literal uppercase", "2E3", 2000},
		{"e then operator", "e+1", math.E + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.expr)
			if !res.Ok() {
				t.Fatalf("Evaluate(%q) = %v, want %v", tt.expr, res, tt.want)
			}
			if math.Abs(res.Value-tt.want) > 1e-12 {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, res.Value, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		errType ErrorType
	}{
		{"empty", "", ErrTypeInvalidExpression},
		{"blank", "   ", ErrTypeInvalidExpression},
		{"division by zero", "1/0", ErrTypeNonFiniteResult},
		{"zero over zero", "0/0", ErrTypeNonFiniteResult},
		{"remainder by zero", "5%0", ErrTypeNonFiniteResult},
		{"sqrt of negative", "√(-1)", ErrTypeNonFiniteResult},
		{"log of zero", "log(0)", ErrTypeNonFiniteResult},
		{"dangling operator", "2+", ErrTypeInvalidExpression},
		{"double operator", "2*/3", ErrTypeInvalidExpression},
		{"unmatched open", "(2+3", ErrTypeInvalidExpression},
		{"unmatched close", "2+3)", ErrTypeInvalidExpression},
		{"empty parens", "()", ErrTypeInvalidExpression},
		{"unknown identifier", "foo(2)", ErrTypeInvalidExpression},
		{"unknown character", "2$3", ErrTypeInvalidExpression},
		{"function without parens", "sin 2", ErrTypeInvalidExpression},
		{"root without parens", "√9", ErrTypeInvalidExpression},
		{"implicit multiplication", "2π", ErrTypeInvalidExpression},
		{"implicit multiplication with paren", "2(3)", ErrTypeInvalidExpression},
		{"malformed number", "1.2.3", ErrTypeInvalidExpression},
		{"lone dot", ".", ErrTypeInvalidExpression},
		{"parenthesised power base", "(1+1)^2", ErrTypeInvalidExpression},
		{"parenthesised exponent", "2^(1+1)", ErrTypeInvalidExpression},
		{"signed exponent", "2^-1", ErrTypeInvalidExpression},
		{"chained power", "2^3^2", ErrTypeInvalidExpression},
		{"function power base", "sin(1)^2", ErrTypeInvalidExpression},
		{"dangling power", "2^", ErrTypeInvalidExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.expr)
			if res.Ok() {
				t.Fatalf("Evaluate(%q) = %v, want error %s", tt.expr, res, tt.errType)
			}
			if res.Err.Type != tt.errType {
				t.Errorf("Evaluate(%q) error type = %s, want %s", tt.expr, res.Err.Type, tt.errType)
			}
			if _, err := res.Float(); !errors.Is(err, ErrInvalidExpression) {
				t.Errorf("errors.Is(%v, ErrInvalidExpression) = false", err)
			}
		})
	}
}

func TestEvaluateNonFiniteIsNotDivisionByZero(t *testing.T) {
	_, err := Evaluate("1/0").Float()
	if !errors.Is(err, ErrNonFiniteResult) {
		t.Errorf("expected ErrNonFiniteResult, got %v", err)
	}
	if errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expression mode must not report division by zero as a policy notice")
	}
}

func TestEvaluateErrorPosition(t *testing.T) {
	res := Evaluate("12+$")
	if res.Ok() {
		t.Fatal("expected an error")
	}
	if res.Err.Pos != 3 {
		t.Errorf("Pos = %d, want 3", res.Err.Pos)
	}
}

// Plain arithmetic must agree with an independent evaluator.
func TestEvaluateMatchesReferenceEvaluator(t *testing.T) {
	exprs := []string{
		"2+3*4",
		"2*3+4",
		"(1+2)*(3+4)",
		"10-2-3",
		"100/8/2",
		"7/2",
		"-(3-10)*2",
		"1.25*8-0.5",
		"((2))",
		"3*(4-(2+1))/6",
		"1-2*3+4/5",
		"0.1+0.2",
	}

	for _, s := range exprs {
		t.Run(s, func(t *testing.T) {
			out, err := expr.Eval(s, nil)
			if err != nil {
				t.Fatalf("reference evaluator failed on %q: %v", s, err)
			}
			var want float64
			switch v := out.(type) {
			case int:
				want = float64(v)
			case float64:
				want = v
			default:
				t.Fatalf("unexpected reference type %T", out)
			}

			got, gerr := Evaluate(s).Float()
			if gerr != nil {
				t.Fatalf("Evaluate(%q) error: %v", s, gerr)
			}
			if got != want {
				t.Errorf("Evaluate(%q) = %v, reference = %v", s, got, want)
			}
		})
	}
}

// Re-evaluating a stringified result is stable.
func TestEvaluateStringifyRoundTrip(t *testing.T) {
	exprs := []string{
		"0.1+0.2",
		"1/3",
		"2^0.5",
		"123456789*1000000000000000",
		"1/3/10000000000",
		"-7/9",
		"π",
		"e^10",
		"10^21",
	}

	for _, s := range exprs {
		t.Run(s, func(t *testing.T) {
			first := Evaluate(s)
			if !first.Ok() {
				t.Fatalf("Evaluate(%q) = %v", s, first)
			}
			str := Stringify(first.Value)
			second := Evaluate(str)
			if !second.Ok() {
				t.Fatalf("Evaluate(%q) = %v", str, second)
			}
			if second.Value != first.Value {
				t.Errorf("round trip of %q changed value: %v -> %v", s, first.Value, second.Value)
			}
			if Stringify(second.Value) != str {
				t.Errorf("stringified result not stable: %q -> %q", str, Stringify(second.Value))
			}
		})
	}
}

func TestResultString(t *testing.T) {
	if got := Evaluate("2+3*4").String(); got != "Number(14)" {
		t.Errorf("String() = %q", got)
	}
	if got := Evaluate("2+").String(); got != "Error(invalid_expression)" {
		t.Errorf("String() = %q", got)
	}
}
