package knowledge

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ConditionFields is the enumerated set of field names a rule condition may
// reference. Anything else is rejected when the knowledge base is loaded.
var ConditionFields = map[string]struct{}{
	"temp_max":      {},
	"temp_min":      {},
	"precip_mm":     {},
	"wind_speed":    {},
	"wind_gusts":    {},
	"humidity":      {},
	"temp":          {},
	"et0":           {},
	"aridity_index": {},
}

// Expr is a compiled rule condition. Expressions are immutable and safe for
// concurrent evaluation.
type Expr interface {
	// Eval evaluates the condition against a day's field values.
	// An error means the condition could not be decided for this day
	// (e.g. an operand is undefined); callers treat that as no match.
	Eval(vars map[string]float64) (bool, error)
}

// Compile parses a condition string into an expression tree.
//
// Grammar, loosest to tightest binding: or (`or`, `||`), and (`and`, `&&`),
// not (`not`, `!`), then comparisons (`<`, `<=`, `>`, `>=`, `==`, `!=`)
// over field names and numeric literals. Parentheses group subexpressions.
// No function calls, no assignment, no arbitrary code.
func Compile(condition string) (Expr, error) {
	tokens, err := lex(condition)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %q after expression", p.peek().text)
	}
	return expr, nil
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenLParen
	tokenRParen
	tokenLT
	tokenLE
	tokenGT
	tokenGE
	tokenEQ
	tokenNE
	tokenAnd
	tokenOr
	tokenNot
)

type token struct {
	kind tokenKind
	text string
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")"})
			i++
		case c == '<':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenLE, "<="})
				i += 2
			} else {
				tokens = append(tokens, token{tokenLT, "<"})
				i++
			}
		case c == '>':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenGE, ">="})
				i += 2
			} else {
				tokens = append(tokens, token{tokenGT, ">"})
				i++
			}
		case c == '=':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenEQ, "=="})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected %q, did you mean ==", "=")
			}
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenNE, "!="})
				i += 2
			} else {
				tokens = append(tokens, token{tokenNot, "!"})
				i++
			}
		case c == '&':
			if i+1 < len(input) && input[i+1] == '&' {
				tokens = append(tokens, token{tokenAnd, "&&"})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected %q, did you mean &&", "&")
			}
		case c == '|':
			if i+1 < len(input) && input[i+1] == '|' {
				tokens = append(tokens, token{tokenOr, "||"})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected %q, did you mean ||", "|")
			}
		case c >= '0' && c <= '9' || c == '.' || c == '-':
			start := i
			if c == '-' {
				i++
				if i >= len(input) || !(input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
					return nil, fmt.Errorf("unexpected %q", "-")
				}
			}
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			text := input[start:i]
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, fmt.Errorf("invalid number %q", text)
			}
			tokens = append(tokens, token{tokenNumber, text})
		case unicode.IsLetter(rune(c)) || c == '_':
			start := i
			for i < len(input) && (unicode.IsLetter(rune(input[i])) || unicode.IsDigit(rune(input[i])) || input[i] == '_') {
				i++
			}
			word := input[start:i]
			switch strings.ToLower(word) {
			case "and":
				tokens = append(tokens, token{tokenAnd, word})
			case "or":
				tokens = append(tokens, token{tokenOr, word})
			case "not":
				tokens = append(tokens, token{tokenNot, word})
			default:
				tokens = append(tokens, token{tokenIdent, word})
			}
		default:
			return nil, fmt.Errorf("unexpected character %q", string(c))
		}
	}
	tokens = append(tokens, token{tokenEOF, ""})
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().kind {
	case tokenNot:
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &notExpr{inner: inner}, nil
	case tokenLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenRParen {
			return nil, fmt.Errorf("expected ), got %q", p.peek().text)
		}
		p.next()
		return inner, nil
	default:
		return p.parseComparison()
	}
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op := p.next()
	switch op.kind {
	case tokenLT, tokenLE, tokenGT, tokenGE, tokenEQ, tokenNE:
	default:
		return nil, fmt.Errorf("expected comparison operator, got %q", op.text)
	}

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return &comparison{op: op.kind, left: left, right: right}, nil
}

func (p *parser) parseOperand() (operand, error) {
	t := p.next()
	switch t.kind {
	case tokenIdent:
		if _, ok := ConditionFields[t.text]; !ok {
			return operand{}, fmt.Errorf("unknown field %q", t.text)
		}
		return operand{field: t.text, isField: true}, nil
	case tokenNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return operand{}, fmt.Errorf("invalid number %q", t.text)
		}
		return operand{value: v}, nil
	default:
		return operand{}, fmt.Errorf("expected field or number, got %q", t.text)
	}
}

// operand is a leaf of a comparison: a field reference or numeric literal.
type operand struct {
	field   string
	value   float64
	isField bool
}

func (o operand) resolve(vars map[string]float64) (float64, error) {
	if !o.isField {
		return o.value, nil
	}
	v, ok := vars[o.field]
	if !ok {
		return 0, fmt.Errorf("field %q not bound", o.field)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("field %q is undefined", o.field)
	}
	return v, nil
}

type comparison struct {
	op          tokenKind
	left, right operand
}

func (c *comparison) Eval(vars map[string]float64) (bool, error) {
	l, err := c.left.resolve(vars)
	if err != nil {
		return false, err
	}
	r, err := c.right.resolve(vars)
	if err != nil {
		return false, err
	}

	switch c.op {
	case tokenLT:
		return l < r, nil
	case tokenLE:
		return l <= r, nil
	case tokenGT:
		return l > r, nil
	case tokenGE:
		return l >= r, nil
	case tokenEQ:
		return l == r, nil
	case tokenNE:
		return l != r, nil
	default:
		return false, fmt.Errorf("unknown comparison operator")
	}
}

type andExpr struct {
	left, right Expr
}

func (e *andExpr) Eval(vars map[string]float64) (bool, error) {
	l, err := e.left.Eval(vars)
	if err != nil {
		return false, err
	}
	if !l {
		return false, nil
	}
	return e.right.Eval(vars)
}

type orExpr struct {
	left, right Expr
}

func (e *orExpr) Eval(vars map[string]float64) (bool, error) {
	l, err := e.left.Eval(vars)
	if err != nil {
		return false, err
	}
	if l {
		return true, nil
	}
	return e.right.Eval(vars)
}

type notExpr struct {
	inner Expr
}

func (e *notExpr) Eval(vars map[string]float64) (bool, error) {
	v, err := e.inner.Eval(vars)
	if err != nil {
		return false, err
	}
	return !v, nil
}
