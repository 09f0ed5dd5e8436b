// Package expr is the expression kernel behind the root finder.
//
// It parses single-variable formulas into an immutable, simplified tree,
// evaluates the tree in float64 and differentiates it symbolically.
// Coefficients stay exact rationals (math/big.Rat) so derivatives print the
// way a person would write them: "2*x", "3*x^2 + -1".
//
// Simplification is canonical but deliberately shallow: like terms of a sum
// are collected, numeric coefficients of a product are multiplied out and
// integer powers of numbers are folded. Nothing is expanded or factored.
package expr

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Env binds symbol names to values for Eval.
type Env map[string]float64

// Expr is a node of an expression tree. Nodes are never mutated after
// construction.
type Expr interface {
	String() string
	LaTeX() string
	// Eval returns the value of the node. NaN, ±Inf and arguments outside
	// a function's real domain are reported as ErrNotReal.
	Eval(env Env) (float64, error)
	// Diff returns the derivative with respect to the named symbol. The
	// result may need Simplify.
	Diff(v string) Expr
	Simplify() Expr
}

func checkReal(v float64, what string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNotReal, what)
	}
	return v, nil
}

// ============================================================
// Num
// ============================================================

// Num is an exact rational constant.
type Num struct{ r *big.Rat }

func N(n int64) *Num { return &Num{r: big.NewRat(n, 1)} }

// F returns p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("expr: zero denominator")
	}
	return &Num{r: big.NewRat(p, q)}
}

func ratNum(r *big.Rat) *Num { return &Num{r: r} }

// Rat returns a copy of the value.
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.r) }
func (n *Num) Float64() float64 { f, _ := n.r.Float64(); return f }
func (n *Num) Sign() int        { return n.r.Sign() }
func (n *Num) IsInt() bool      { return n.r.IsInt() }

func (n *Num) is(v int64) bool {
	return n.r.IsInt() && n.r.Num().IsInt64() && n.r.Num().Int64() == v
}

func isNum(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.is(v)
}

func (n *Num) String() string            { return n.r.RatString() }
func (n *Num) Diff(string) Expr          { return N(0) }
func (n *Num) Simplify() Expr            { return n }

// Eval fails for a literal beyond the float64 range, such as 1e400.
func (n *Num) Eval(Env) (float64, error) { return checkReal(n.Float64(), n.String()) }

func (n *Num) LaTeX() string {
	if n.r.IsInt() {
		return n.r.RatString()
	}
	sign := ""
	if n.r.Sign() < 0 {
		sign = "-"
	}
	return fmt.Sprintf(`%s\frac{%s}{%s}`, sign, new(big.Int).Abs(n.r.Num()), n.r.Denom())
}

// ============================================================
// Const and Sym
// ============================================================

// Const is a named real constant.
type Const struct {
	name string
	tex  string
	v    float64
}

var (
	Pi    = &Const{name: "pi", tex: `\pi`, v: math.Pi}
	Euler = &Const{name: "e", tex: "e", v: math.E}
)

func (c *Const) String() string            { return c.name }
func (c *Const) LaTeX() string             { return c.tex }
func (c *Const) Eval(Env) (float64, error) { return c.v, nil }
func (c *Const) Diff(string) Expr          { return N(0) }
func (c *Const) Simplify() Expr            { return c }

// Sym is a free variable.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string   { return s.name }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Simplify() Expr { return s }

func (s *Sym) Eval(env Env) (float64, error) {
	if v, ok := env[s.name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnboundSymbol, s.name)
}

func (s *Sym) Diff(v string) Expr {
	if s.name == v {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Traversal
// ============================================================

func children(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.args
	case *Mul:
		return v.args
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return []Expr{v.arg}
	case *noDeriv:
		return []Expr{v.arg}
	}
	return nil
}

// walk visits e and its descendants depth first until visit returns false.
func walk(e Expr, visit func(Expr) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range children(e) {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// FreeSymbols returns the names of the Sym nodes in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	walk(e, func(n Expr) bool {
		if s, ok := n.(*Sym); ok {
			out[s.name] = struct{}{}
		}
		return true
	})
	return out
}

// partial reports whether e fails to evaluate for some real values of its
// symbols. Simplification must keep such subtrees so Eval still reports them.
func partial(e Expr) bool {
	return !walk(e, func(n Expr) bool {
		switch v := n.(type) {
		case *Func:
			return !v.fn.positive && !v.fn.bounded
		case *Pow:
			return totalPow(v)
		case *noDeriv:
			return false
		}
		return true
	})
}

// totalPow reports whether base^exp is real wherever both operands are.
func totalPow(p *Pow) bool {
	if n, ok := p.exp.(*Num); ok && n.IsInt() && n.Sign() >= 0 {
		return true
	}
	switch b := p.base.(type) {
	case *Num:
		return b.Sign() > 0
	case *Const:
		return b.v > 0
	}
	return false
}

func String(e Expr) string { return e.String() }

// Diff differentiates e with respect to v and simplifies the result.
func Diff(e Expr, v string) Expr { return e.Diff(v).Simplify() }

func joinStrings(es []Expr, sep string, str func(Expr) string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = str(e)
	}
	return strings.Join(parts, sep)
}
