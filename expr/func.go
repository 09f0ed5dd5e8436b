package expr

import (
	"fmt"
	"math"
	"math/big"
)

// builtin describes one function the parser accepts.
type builtin struct {
	name string
	eval func(float64) float64
	// positive marks functions defined only for arguments > 0.
	positive bool
	// bounded marks functions defined only on [-1, 1].
	bounded bool
	// deriv returns f'(u). Functions without a derivative leave it nil.
	deriv func(u Expr) Expr
	// fold rewrites f(u) when an exact identity applies, or returns nil.
	fold func(u Expr) Expr
	// latex is a format with one %s for the argument.
	latex string
}

var funcs = map[string]*builtin{}

// Declared in init: the derivative rules refer back to funcs.
func init() {
	for _, b := range []*builtin{
		{name: "sin", eval: math.Sin, fold: foldAtZero(0), latex: `\sin\left(%s\right)`,
			deriv: CosOf},
		{name: "cos", eval: math.Cos, fold: foldAtZero(1), latex: `\cos\left(%s\right)`,
			deriv: func(u Expr) Expr { return MulOf(N(-1), SinOf(u)) }},
		{name: "tan", eval: math.Tan, fold: foldAtZero(0), latex: `\tan\left(%s\right)`,
			deriv: func(u Expr) Expr { return AddOf(N(1), PowOf(TanOf(u), N(2))) }},
		{name: "exp", eval: math.Exp, fold: foldExp, latex: `\exp\left(%s\right)`,
			deriv: ExpOf},
		{name: "ln", eval: math.Log, positive: true, fold: foldLn, latex: `\ln\left(%s\right)`,
			deriv: func(u Expr) Expr { return PowOf(u, N(-1)) }},
		{name: "log10", eval: math.Log10, positive: true, fold: foldAtOne(0), latex: `\log_{10}\left(%s\right)`,
			deriv: func(u Expr) Expr { return PowOf(MulOf(u, LnOf(N(10))), N(-1)) }},
		{name: "abs", eval: math.Abs, fold: foldAbs, latex: `\left|%s\right|`,
			deriv: func(u Expr) Expr { return call("sign", u) }},
		{name: "asin", eval: math.Asin, bounded: true, fold: foldAtZero(0), latex: `\arcsin\left(%s\right)`,
			deriv: func(u Expr) Expr { return PowOf(oneMinusSquare(u), F(-1, 2)) }},
		{name: "acos", eval: math.Acos, bounded: true, latex: `\arccos\left(%s\right)`,
			deriv: func(u Expr) Expr { return MulOf(N(-1), PowOf(oneMinusSquare(u), F(-1, 2))) }},
		{name: "atan", eval: math.Atan, fold: foldAtZero(0), latex: `\arctan\left(%s\right)`,
			deriv: func(u Expr) Expr { return PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1)) }},
		{name: "sinh", eval: math.Sinh, fold: foldAtZero(0), latex: `\sinh\left(%s\right)`,
			deriv: func(u Expr) Expr { return call("cosh", u) }},
		{name: "cosh", eval: math.Cosh, fold: foldAtZero(1), latex: `\cosh\left(%s\right)`,
			deriv: func(u Expr) Expr { return call("sinh", u) }},
		{name: "tanh", eval: math.Tanh, fold: foldAtZero(0), latex: `\tanh\left(%s\right)`,
			deriv: func(u Expr) Expr { return oneMinusSquare(call("tanh", u)) }},
		{name: "floor", eval: math.Floor, latex: `\lfloor %s \rfloor`},
		{name: "ceil", eval: math.Ceil, latex: `\lceil %s \rceil`},
		{name: "sign", eval: signum, fold: foldSign, latex: `\operatorname{sign}\left(%s\right)`},
	} {
		funcs[b.name] = b
	}
}

func SinOf(u Expr) Expr  { return call("sin", u) }
func CosOf(u Expr) Expr  { return call("cos", u) }
func TanOf(u Expr) Expr  { return call("tan", u) }
func ExpOf(u Expr) Expr  { return call("exp", u) }
func LnOf(u Expr) Expr   { return call("ln", u) }
func AbsOf(u Expr) Expr  { return call("abs", u) }
func SqrtOf(u Expr) Expr { return PowOf(u, F(1, 2)) }

func call(name string, u Expr) Expr { return (&Func{fn: funcs[name], arg: u}).Simplify() }

// lookup returns the constructor for a function name in a formula,
// including the aliases sqrt and log.
func lookup(name string) (func(Expr) Expr, bool) {
	switch name {
	case "sqrt":
		return SqrtOf, true
	case "log":
		return LnOf, true
	}
	if _, ok := funcs[name]; !ok {
		return nil, false
	}
	return func(u Expr) Expr { return call(name, u) }, true
}

func signum(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func oneMinusSquare(u Expr) Expr { return AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))) }

func foldAtZero(v int64) func(Expr) Expr {
	return func(u Expr) Expr {
		if isNum(u, 0) {
			return N(v)
		}
		return nil
	}
}

func foldAtOne(v int64) func(Expr) Expr {
	return func(u Expr) Expr {
		if isNum(u, 1) {
			return N(v)
		}
		return nil
	}
}

// exp(ln(u)) is left alone: it is undefined for u <= 0, u is not.
func foldExp(u Expr) Expr {
	if isNum(u, 0) {
		return N(1)
	}
	return nil
}

func foldLn(u Expr) Expr {
	if isNum(u, 1) {
		return N(0)
	}
	if u == Euler {
		return N(1)
	}
	if f, ok := u.(*Func); ok && f.fn.name == "exp" {
		return f.arg
	}
	return nil
}

func foldAbs(u Expr) Expr {
	if n, ok := u.(*Num); ok {
		return ratNum(new(big.Rat).Abs(n.r))
	}
	if m, ok := u.(*Mul); ok && isNum(m.args[0], -1) {
		return AbsOf(MulOf(m.args[1:]...))
	}
	return nil
}

func foldSign(u Expr) Expr {
	if n, ok := u.(*Num); ok {
		return N(int64(n.Sign()))
	}
	return nil
}

// ============================================================
// Func
// ============================================================

// Func applies a builtin function to one argument.
type Func struct {
	fn  *builtin
	arg Expr
}

func (f *Func) Name() string { return f.fn.name }
func (f *Func) Arg() Expr    { return f.arg }

func (f *Func) Simplify() Expr {
	u := f.arg.Simplify()
	if f.fn.fold != nil {
		if r := f.fn.fold(u); r != nil {
			return r
		}
	}
	return &Func{fn: f.fn, arg: u}
}

func (f *Func) String() string { return f.fn.name + "(" + f.arg.String() + ")" }
func (f *Func) LaTeX() string  { return fmt.Sprintf(f.fn.latex, f.arg.LaTeX()) }

// Diff applies the chain rule.
func (f *Func) Diff(v string) Expr {
	du := Diff(f.arg, v)
	if isNum(du, 0) {
		return N(0)
	}
	if f.fn.deriv == nil {
		return MulOf(&noDeriv{fn: f.fn, arg: f.arg}, du)
	}
	return MulOf(f.fn.deriv(f.arg), du)
}

func (f *Func) Eval(env Env) (float64, error) {
	v, err := f.arg.Eval(env)
	if err != nil {
		return 0, err
	}
	if f.fn.positive && v <= 0 {
		return 0, fmt.Errorf("%w: %s(%g)", ErrNotReal, f.fn.name, v)
	}
	return checkReal(f.fn.eval(v), f.String())
}

// noDeriv stands for f'(u) of a function with no derivative. It survives
// simplification so Function.Derivative can report it.
type noDeriv struct {
	fn  *builtin
	arg Expr
}

func (d *noDeriv) String() string { return "D[" + d.fn.name + "](" + d.arg.String() + ")" }
func (d *noDeriv) LaTeX() string {
	return `\operatorname{` + d.fn.name + `}'\left(` + d.arg.LaTeX() + `\right)`
}
func (d *noDeriv) Diff(string) Expr { return d }
func (d *noDeriv) Simplify() Expr   { return &noDeriv{fn: d.fn, arg: d.arg.Simplify()} }
func (d *noDeriv) Eval(Env) (float64, error) {
	return 0, fmt.Errorf("%w: %s", ErrNotDifferentiable, d.fn.name)
}
