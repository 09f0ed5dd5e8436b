package expr

import (
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"
)

// Integer powers of numbers fold into a single rational only while the
// exponent is at most maxFoldExp and the result at most maxFoldBits wide.
const (
	maxFoldExp  = 64
	maxFoldBits = 4096
)

// ============================================================
// Add
// ============================================================

// Add is a sum. A simplified sum holds one term per distinct non-numeric
// part, in order of first appearance, followed by its numeric constant.
// Terms that cancel are dropped unless they restrict the domain, so
// ln(x) - ln(x) is 0*ln(x), not 0.
type Add struct{ args []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{args: terms}).Simplify() }

// likeTerm is coeff*rest for one group of like terms.
type likeTerm struct {
	coeff *big.Rat
	rest  Expr
}

// splitCoeff separates a simplified term into its rational coefficient and
// the remaining factors. rest is nil for a number.
func splitCoeff(t Expr) (*big.Rat, Expr) {
	switch v := t.(type) {
	case *Num:
		return v.Rat(), nil
	case *Mul:
		if n, ok := v.args[0].(*Num); ok {
			if len(v.args) == 2 {
				return n.Rat(), v.args[1]
			}
			return n.Rat(), &Mul{args: v.args[1:]}
		}
	}
	return big.NewRat(1, 1), t
}

func (a *Add) Simplify() Expr {
	constant := new(big.Rat)
	var groups []*likeTerm
	index := map[string]int{}

	for _, arg := range a.args {
		s := arg.Simplify()
		terms := []Expr{s}
		if inner, ok := s.(*Add); ok {
			terms = inner.args
		}
		for _, t := range terms {
			c, rest := splitCoeff(t)
			if rest == nil {
				constant.Add(constant, c)
				continue
			}
			key := rest.String()
			if i, ok := index[key]; ok {
				groups[i].coeff.Add(groups[i].coeff, c)
				continue
			}
			index[key] = len(groups)
			groups = append(groups, &likeTerm{coeff: c, rest: rest})
		}
	}

	out := make([]Expr, 0, len(groups)+1)
	for _, g := range groups {
		switch {
		case g.coeff.Sign() == 0:
			if partial(g.rest) {
				out = append(out, MulOf(N(0), g.rest))
			}
		case g.coeff.IsInt() && g.coeff.Num().IsInt64() && g.coeff.Num().Int64() == 1:
			out = append(out, g.rest)
		default:
			out = append(out, MulOf(ratNum(g.coeff), g.rest))
		}
	}
	if constant.Sign() != 0 {
		out = append(out, ratNum(constant))
	}
	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{args: out}
}

func (a *Add) String() string { return joinStrings(a.args, " + ", Expr.String) }
func (a *Add) LaTeX() string  { return joinStrings(a.args, " + ", Expr.LaTeX) }

func (a *Add) Diff(v string) Expr {
	d := make([]Expr, len(a.args))
	for i, t := range a.args {
		d[i] = t.Diff(v)
	}
	return AddOf(d...)
}

func (a *Add) Eval(env Env) (float64, error) {
	sum := 0.0
	for _, t := range a.args {
		v, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return checkReal(sum, "sum overflows")
}

// ============================================================
// Mul
// ============================================================

// Mul is a product. A simplified product starts with its rational
// coefficient, omitted when it is 1, and keeps the other factors sorted by
// their text.
type Mul struct{ args []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{args: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	coeff := big.NewRat(1, 1)
	var rest []Expr
	for _, arg := range m.args {
		s := arg.Simplify()
		factors := []Expr{s}
		if inner, ok := s.(*Mul); ok {
			factors = inner.args
		}
		for _, f := range factors {
			if n, ok := f.(*Num); ok {
				coeff.Mul(coeff, n.r)
				continue
			}
			rest = append(rest, f)
		}
	}
	if len(rest) == 0 {
		return ratNum(coeff)
	}
	rest = sortByText(rest)
	if coeff.Sign() == 0 {
		if !slices.ContainsFunc(rest, partial) {
			return N(0)
		}
		return &Mul{args: append([]Expr{N(0)}, rest...)}
	}
	if !(coeff.IsInt() && coeff.Num().IsInt64() && coeff.Num().Int64() == 1) {
		rest = append([]Expr{ratNum(coeff)}, rest...)
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return &Mul{args: rest}
}

func sortByText(es []Expr) []Expr {
	type keyed struct {
		text string
		e    Expr
	}
	ks := make([]keyed, len(es))
	for i, e := range es {
		ks[i] = keyed{text: e.String(), e: e}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int { return strings.Compare(a.text, b.text) })
	out := make([]Expr, len(ks))
	for i, k := range ks {
		out[i] = k.e
	}
	return out
}

func (m *Mul) String() string {
	return joinStrings(m.args, "*", func(e Expr) string {
		if _, ok := e.(*Add); ok {
			return "(" + e.String() + ")"
		}
		return e.String()
	})
}

func (m *Mul) LaTeX() string {
	return joinStrings(m.args, " ", func(e Expr) string {
		if _, ok := e.(*Add); ok {
			return `\left(` + e.LaTeX() + `\right)`
		}
		return e.LaTeX()
	})
}

// Diff applies the product rule, skipping factors that do not depend on v.
func (m *Mul) Diff(v string) Expr {
	var terms []Expr
	for i := range m.args {
		d := Diff(m.args[i], v)
		if isNum(d, 0) {
			continue
		}
		factors := slices.Clone(m.args)
		factors[i] = d
		terms = append(terms, MulOf(factors...))
	}
	return AddOf(terms...)
}

func (m *Mul) Eval(env Env) (float64, error) {
	prod := 1.0
	for _, f := range m.args {
		v, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		prod *= v
	}
	return checkReal(prod, "product overflows")
}

// ============================================================
// Pow
// ============================================================

// Pow is base^exp. Division is represented as a power of -1.
type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base, exp := p.base.Simplify(), p.exp.Simplify()
	bn, baseNum := base.(*Num)
	en, expNum := exp.(*Num)

	switch {
	case expNum && en.is(0) && !partial(base):
		return N(1)
	case expNum && en.is(1):
		return base
	case baseNum && bn.Sign() == 0:
		// 0^-n stays symbolic so Eval reports the division by zero.
		if expNum && en.Sign() > 0 {
			return N(0)
		}
	case baseNum && bn.is(1) && !partial(exp):
		return N(1)
	case baseNum && expNum && en.IsInt():
		if r, ok := ratPow(bn.r, en.r.Num()); ok {
			return ratNum(r)
		}
	}
	// (b^m)^n == b^(m*n) for integers m and n. With m < 0 and n <= 0 the
	// right side is defined at b = 0 and the left is not.
	if inner, ok := base.(*Pow); ok && expNum && en.IsInt() {
		if m, ok := inner.exp.(*Num); ok && m.IsInt() && (m.Sign() > 0 || en.Sign() > 0) {
			return PowOf(inner.base, MulOf(m, en))
		}
	}
	return &Pow{base: base, exp: exp}
}

// ratPow returns r^e for a nonzero r and |e| <= maxFoldExp, unless the
// result would be wider than maxFoldBits.
func ratPow(r *big.Rat, e *big.Int) (*big.Rat, bool) {
	if !e.IsInt64() || r.Sign() == 0 {
		return nil, false
	}
	n := e.Int64()
	if n > maxFoldExp || n < -maxFoldExp {
		return nil, false
	}
	width := max(r.Num().BitLen(), r.Denom().BitLen())
	if int64(width)*max(n, -n) > maxFoldBits {
		return nil, false
	}
	k := big.NewInt(n)
	if n < 0 {
		k.Neg(k)
	}
	out := new(big.Rat).SetFrac(
		new(big.Int).Exp(r.Num(), k, nil),
		new(big.Int).Exp(r.Denom(), k, nil),
	)
	if n < 0 {
		out.Inv(out)
	}
	return out, true
}

// compound reports whether e must be parenthesised as a power operand to
// survive a round trip through Parse.
func compound(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul:
		return true
	case *Num:
		return v.Sign() < 0 || !v.IsInt()
	}
	return false
}

func (p *Pow) String() string {
	base, exp := p.base.String(), p.exp.String()
	if _, nested := p.base.(*Pow); nested || compound(p.base) {
		base = "(" + base + ")"
	}
	if compound(p.exp) {
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

func (p *Pow) LaTeX() string {
	base := p.base.LaTeX()
	if compound(p.base) {
		base = `\left(` + base + `\right)`
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Diff(v string) Expr {
	du, dw := Diff(p.base, v), Diff(p.exp, v)
	switch {
	case isNum(du, 0) && isNum(dw, 0):
		return N(0)
	case isNum(dw, 0):
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	case isNum(du, 0):
		return MulOf(p, LnOf(p.base), dw)
	}
	// u^w * (w' ln u + w u'/u)
	return MulOf(p, AddOf(
		MulOf(dw, LnOf(p.base)),
		MulOf(p.exp, du, PowOf(p.base, N(-1))),
	))
}

func (p *Pow) Eval(env Env) (float64, error) {
	b, err := p.base.Eval(env)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Eval(env)
	if err != nil {
		return 0, err
	}
	if b == 0 && e < 0 {
		return 0, fmt.Errorf("%w: division by zero in %s", ErrNotReal, p)
	}
	return checkReal(math.Pow(b, e), p.String())
}
