package calc

import (
	"strconv"
	"unicode"
)

// tokenType identifies a lexical token of the expression grammar
type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokConst
	tokFunc
	tokPlus
	tokMinus
	tokMul
	tokDiv
	tokMod
	tokPow
	tokLParen
	tokRParen
)

var tokenNames = map[tokenType]string{
	tokEOF:    "end of input",
	tokNumber: "number",
	tokConst:  "constant",
	tokFunc:   "function",
	tokPlus:   "'+'",
	tokMinus:  "'-'",
	tokMul:    "'*'",
	tokDiv:    "'/'",
	tokMod:    "'%'",
	tokPow:    "'^'",
	tokLParen: "'('",
	tokRParen: "')'",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// exprToken is a single lexical token
type exprToken struct {
	typ  tokenType
	text string
	num  float64
	pos  int
}

// function names recognised by the lexer, keyed by their spelling
var funcNames = map[string]string{
	"sin":  "sin",
	"cos":  "cos",
	"tan":  "tan",
	"log":  "log",
	"sqrt": "sqrt",
}

var singleRuneTokens = map[rune]tokenType{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokMul,
	'/': tokDiv,
	'%': tokMod,
	'^': tokPow,
	'(': tokLParen,
	')': tokRParen,
}

// lexer splits an expression into tokens. Positions are rune offsets.
type lexer struct {
	input []rune
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input)}
}

// tokenize returns every token of the input followed by tokEOF
func tokenize(input string) ([]exprToken, *EvalError) {
	l := newLexer(input)
	var tokens []exprToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.typ == tokEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *lexer) next() (exprToken, *EvalError) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return exprToken{typ: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case isDigit(ch) || (ch == '.' && isDigit(l.peek(1))):
		return l.readNumber()
	case ch == 'π':
		l.pos++
		return exprToken{typ: tokConst, text: "π", pos: start}, nil
	case ch == '√':
		l.pos++
		return exprToken{typ: tokFunc, text: "sqrt", pos: start}, nil
	case isLetter(ch):
		return l.readWord()
	}

	if typ, ok := singleRuneTokens[ch]; ok {
		l.pos++
		return exprToken{typ: typ, text: string(ch), pos: start}, nil
	}

	return exprToken{}, newSyntaxError(start, "unexpected character %q", ch)
}

// readNumber scans digits, an optional fraction and an optional exponent.
// The exponent is only taken when 'e' is followed by digits (optionally
// signed), so a trailing "e" stays available as the constant.
func (l *lexer) readNumber() (exprToken, *EvalError) {
	start := l.pos
	for isDigit(l.peek(0)) {
		l.pos++
	}
	if l.peek(0) == '.' {
		l.pos++
		if !isDigit(l.peek(0)) && l.pos-start == 1 {
			return exprToken{}, newSyntaxError(start, "malformed number")
		}
		for isDigit(l.peek(0)) {
			l.pos++
		}
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		offset := 1
		if s := l.peek(1); s == '+' || s == '-' {
			offset = 2
		}
		if isDigit(l.peek(offset)) {
			l.pos += offset
			for isDigit(l.peek(0)) {
				l.pos++
			}
		}
	}
	if l.peek(0) == '.' {
		return exprToken{}, newSyntaxError(l.pos, "malformed number")
	}

	text := string(l.input[start:l.pos])
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return exprToken{}, newSyntaxError(start, "malformed number %q", text)
	}
	return exprToken{typ: tokNumber, text: text, num: v, pos: start}, nil
}

func (l *lexer) readWord() (exprToken, *EvalError) {
	start := l.pos
	for l.pos < len(l.input) && isLetter(l.input[l.pos]) {
		l.pos++
	}
	word := string(l.input[start:l.pos])

	if word == "e" {
		return exprToken{typ: tokConst, text: "e", pos: start}, nil
	}
	if name, ok := funcNames[word]; ok {
		return exprToken{typ: tokFunc, text: name, pos: start}, nil
	}
	return exprToken{}, newSyntaxError(start, "unknown identifier %q", word)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
