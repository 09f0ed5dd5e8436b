package expr

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// ============================================================
// Lexer
// ============================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

func tokenize(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			for i < len(rs) && (unicode.IsDigit(rs[i]) || rs[i] == '.') {
				i++
			}
			// An exponent needs a digit after the optional sign, otherwise
			// "2e" is 2 times the constant e.
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					i = j
					for i < len(rs) && unicode.IsDigit(rs[i]) {
						i++
					}
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		case strings.ContainsRune("+-*/^()", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, r, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(rs)})
	return toks, nil
}

// ============================================================
// Parser
// ============================================================
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary | power)*   juxtaposition multiplies
//	unary   := ('-' | '+') unary | power
//	power   := primary ('^' unary)?                 right associative
//	primary := number | ident | ident '(' expr ')' | '(' expr ')'

// maxLiteralExp bounds the decimal exponent of a number literal.
const maxLiteralExp = 1000

type parser struct {
	toks []token
	pos  int
}

// Parse reads a textual formula such as "x^3 - x - 2" or "2sin(x) + e^x".
// The result is simplified.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %s at offset %d", ErrSyntax, tok, tok.pos)
	}
	return e.Simplify(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		tok := p.peek()
		return fmt.Errorf("%w: expected %q, got %s at offset %d", ErrSyntax, op, tok, tok.pos)
	}
	p.next()
	return nil
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = &Mul{args: []Expr{N(-1), right}}
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return &Add{args: terms}, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for {
		switch {
		case p.isOp("*"):
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, right)
		case p.isOp("/"):
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, &Pow{base: right, exp: N(-1)})
		case p.peek().kind == tokIdent || p.isOp("("):
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			factors = append(factors, right)
		default:
			if len(factors) == 1 {
				return left, nil
			}
			return &Mul{args: factors}, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch {
	case p.isOp("-"):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Mul{args: []Expr{N(-1), operand}}, nil
	case p.isOp("+"):
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Pow{base: base, exp: exp}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNum:
		lit := tok.text
		if strings.HasPrefix(lit, ".") {
			lit = "0" + lit
		}
		if i := strings.IndexAny(lit, "eE"); i >= 0 {
			if exp, err := strconv.Atoi(lit[i+1:]); err != nil || exp > maxLiteralExp || exp < -maxLiteralExp {
				return nil, fmt.Errorf("%w: number %q out of range at offset %d", ErrSyntax, tok.text, tok.pos)
			}
		}
		r, ok := new(big.Rat).SetString(lit)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q at offset %d", ErrSyntax, tok.text, tok.pos)
		}
		return ratNum(r), nil
	case tokIdent:
		if p.isOp("(") {
			build, ok := lookup(tok.text)
			if !ok {
				if tok.text == "pi" || tok.text == "e" || len(tok.text) == 1 {
					return p.constOrSym(tok), nil
				}
				return nil, fmt.Errorf("%w: %s at offset %d", ErrUnknownFunction, tok.text, tok.pos)
			}
			p.next()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return build(arg), nil
		}
		if _, ok := lookup(tok.text); ok {
			return nil, fmt.Errorf("%w: function %s needs parentheses at offset %d", ErrSyntax, tok.text, tok.pos)
		}
		return p.constOrSym(tok), nil
	case tokOp:
		if tok.text == "(" {
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}
	return nil, fmt.Errorf("%w: unexpected %s at offset %d", ErrSyntax, tok, tok.pos)
}

func (p *parser) constOrSym(tok token) Expr {
	switch tok.text {
	case "pi":
		return Pi
	case "e":
		return Euler
	}
	return S(tok.text)
}
