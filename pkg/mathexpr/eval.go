// Package mathexpr evaluates the small arithmetic expressions used by
// the math drill: integers, the four operators, optional parentheses.
// Parsing the fixed grammar directly keeps generated problems away from
// any string-to-code execution path.
package mathexpr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrBadExpression  = errors.New("malformed expression")
)

// Eval evaluates an expression and returns the result rounded half-up
// to the nearest integer. Multiplication and division bind tighter than
// addition and subtraction; parentheses override. Both ASCII operators
// and the display glyphs ×, ÷ and − are accepted.
func Eval(expr string) (int64, error) {
	p := &parser{tokens: tokenize(expr)}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrBadExpression, p.tokens[p.pos])
	}
	// Round half-up, matching integer display semantics.
	return int64(math.Floor(v + 0.5)), nil
}

func tokenize(expr string) []string {
	var tokens []string
	var num strings.Builder
	flush := func() {
		if num.Len() > 0 {
			tokens = append(tokens, num.String())
			num.Reset()
		}
	}
	for _, r := range expr {
		switch {
		case unicode.IsDigit(r) || r == '.':
			num.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			switch r {
			case '×':
				tokens = append(tokens, "*")
			case '÷':
				tokens = append(tokens, "/")
			case '−':
				tokens = append(tokens, "-")
			default:
				tokens = append(tokens, string(r))
			}
		}
	}
	flush()
	return tokens
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) next() string {
	tok := p.peek()
	if tok != "" {
		p.pos++
	}
	return tok
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case "+":
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case "-":
			p.next()
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

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case "*":
			p.next()
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			left *= right
		case "/":
			p.next()
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	switch tok := p.next(); {
	case tok == "":
		return 0, fmt.Errorf("%w: unexpected end of input", ErrBadExpression)
	case tok == "(":
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.next() != ")" {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrBadExpression)
		}
		return v, nil
	case tok == "-":
		v, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -v, nil
	default:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad number %q", ErrBadExpression, tok)
		}
		return v, nil
	}
}
