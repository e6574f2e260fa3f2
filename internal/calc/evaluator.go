package calc

import (
	"math"
	"strings"
)

// ResultKind tags a Result as a number or an error
type ResultKind int

const (
	ResultNumber ResultKind = iota
	ResultError
)

// Result is the outcome of evaluating an expression: either a finite number
// or an error, never both.
type Result struct {
	Kind  ResultKind
	Value float64
	Err   *EvalError
}

// Number builds a successful Result
func Number(v float64) Result {
	return Result{Kind: ResultNumber, Value: v}
}

// Failure builds an error Result
func Failure(err *EvalError) Result {
	return Result{Kind: ResultError, Err: err}
}

// Ok reports whether the result holds a number
func (r Result) Ok() bool {
	return r.Kind == ResultNumber
}

// Float returns the value with the error as a plain error interface, so
// callers can use the usual `v, err :=` form.
func (r Result) Float() (float64, error) {
	if r.Kind == ResultError {
		return 0, r.Err
	}
	return r.Value, nil
}

// String renders the result for logs and tests
func (r Result) String() string {
	if r.Kind == ResultError {
		return "Error(" + string(r.Err.Type) + ")"
	}
	return "Number(" + Stringify(r.Value) + ")"
}

// Evaluate parses and evaluates an arithmetic expression. It never panics
// and never has side effects.
func Evaluate(expr string) Result {
	if strings.TrimSpace(expr) == "" {
		return Failure(newSyntaxError(0, "empty expression"))
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return Failure(err)
	}

	p := &parser{tokens: tokens}
	v, perr := p.parseExpr()
	if perr != nil {
		return Failure(perr)
	}
	if tok := p.peek(); tok.typ != tokEOF {
		if tok.typ == tokRParen {
			return Failure(newSyntaxError(tok.pos, "unmatched ')'"))
		}
		return Failure(newSyntaxError(tok.pos, "unexpected %s", tok.typ))
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Failure(newNonFiniteError(v))
	}
	return Number(v)
}

// parser is a recursive-descent evaluator over the token stream. It
// computes values directly rather than building a tree.
type parser struct {
	tokens []exprToken
	pos    int
}

func (p *parser) peek() exprToken {
	return p.tokens[p.pos]
}

func (p *parser) advance() exprToken {
	tok := p.tokens[p.pos]
	if tok.typ != tokEOF {
		p.pos++
	}
	return tok
}

// parseExpr handles + and -
func (p *parser) parseExpr() (float64, *EvalError) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().typ {
		case tokPlus:
			p.advance()
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case tokMinus:
			p.advance()
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseTerm handles *, / and %
func (p *parser) parseTerm() (float64, *EvalError) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek().typ
		if op != tokMul && op != tokDiv && op != tokMod {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch op {
		case tokMul:
			left *= right
		case tokDiv:
			left /= right
		case tokMod:
			left = math.Mod(left, right)
		}
	}
}

func (p *parser) parseUnary() (float64, *EvalError) {
	switch p.peek().typ {
	case tokMinus:
		p.advance()
		v, err := p.parseUnary()
		return -v, err
	case tokPlus:
		p.advance()
		return p.parseUnary()
	}
	return p.parsePower()
}

// parsePower only accepts literal operands on both sides of '^'. Anything
// else next to '^' is rejected rather than guessed at.
func (p *parser) parsePower() (float64, *EvalError) {
	start := p.peek()
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if p.peek().typ != tokPow {
		return base, nil
	}

	caret := p.advance()
	if !isLiteral(start) {
		return 0, newSyntaxError(caret.pos, "exponent base must be a numeric literal")
	}
	exp := p.advance()
	if !isLiteral(exp) {
		return 0, newSyntaxError(exp.pos, "exponent must be a numeric literal")
	}
	if p.peek().typ == tokPow {
		return 0, newSyntaxError(p.peek().pos, "chained exponents are not supported")
	}
	return math.Pow(base, literalValue(exp)), nil
}

func (p *parser) parsePrimary() (float64, *EvalError) {
	tok := p.advance()
	switch tok.typ {
	case tokNumber, tokConst:
		return literalValue(tok), nil
	case tokLParen:
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if closing := p.advance(); closing.typ != tokRParen {
			return 0, newSyntaxError(closing.pos, "unmatched '('")
		}
		return v, nil
	case tokFunc:
		return p.parseCall(tok)
	case tokEOF:
		return 0, newSyntaxError(tok.pos, "unexpected end of input")
	}
	return 0, newSyntaxError(tok.pos, "unexpected %s", tok.typ)
}

func (p *parser) parseCall(fn exprToken) (float64, *EvalError) {
	if open := p.advance(); open.typ != tokLParen {
		return 0, newSyntaxError(open.pos, "%s must be followed by '('", fn.text)
	}
	arg, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if closing := p.advance(); closing.typ != tokRParen {
		return 0, newSyntaxError(closing.pos, "unmatched '('")
	}

	switch fn.text {
	case "sin":
		return math.Sin(arg), nil
	case "cos":
		return math.Cos(arg), nil
	case "tan":
		return math.Tan(arg), nil
	case "log":
		return math.Log10(arg), nil
	case "sqrt":
		return math.Sqrt(arg), nil
	}
	return 0, newSyntaxError(fn.pos, "unknown function %q", fn.text)
}

func isLiteral(tok exprToken) bool {
	return tok.typ == tokNumber || tok.typ == tokConst
}

func literalValue(tok exprToken) float64 {
	if tok.typ == tokConst {
		if tok.text == "π" {
			return math.Pi
		}
		return math.E
	}
	return tok.num
}
