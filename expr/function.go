package expr

import (
	"fmt"
	"sort"
	"strings"
)

// Function is a compiled single-variable expression.
type Function struct {
	expr     Expr
	variable string
}

// Compile parses src and checks that variable is its only free symbol.
func Compile(src, variable string) (*Function, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return FromExpr(e, variable)
}

// FromExpr wraps an already built expression.
func FromExpr(e Expr, variable string) (*Function, error) {
	var unknown []string
	for name := range FreeSymbols(e) {
		if name != variable {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s (only %s is allowed)", ErrUnknownSymbol, strings.Join(unknown, ", "), variable)
	}
	return &Function{expr: e, variable: variable}, nil
}

// Eval evaluates the function at x. Non-finite results are errors.
func (f *Function) Eval(x float64) (float64, error) {
	return f.expr.Eval(Env{f.variable: x})
}

// Derivative differentiates symbolically with respect to the bound variable.
func (f *Function) Derivative() (*Function, error) {
	d := Diff(f.expr, f.variable)
	var missing *noDeriv
	walk(d, func(e Expr) bool {
		missing, _ = e.(*noDeriv)
		return missing == nil
	})
	if missing != nil {
		return nil, fmt.Errorf("%w: %s has no derivative", ErrNotDifferentiable, missing.fn.name)
	}
	return &Function{expr: d, variable: f.variable}, nil
}

func (f *Function) Expr() Expr       { return f.expr }
func (f *Function) Variable() string { return f.variable }
func (f *Function) String() string   { return f.expr.String() }
func (f *Function) LaTeX() string    { return f.expr.LaTeX() }
