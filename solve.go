package rootfind

import (
	"fmt"

	"github.com/njchilds90/rootfind/expr"
)

// DefaultVariable is the free variable of an equation when none is given.
const DefaultVariable = "x"

// Request is a complete solve described as data: the shape shared by the
// CLI, the HTTP server and the tool interface. Only the initial values the
// method needs are required.
type Request struct {
	Method        Method   `json:"method" validate:"required,oneof=bisection false-position newton-raphson secant"`
	Equation      string   `json:"equation" validate:"required,max=1024"`
	Variable      string   `json:"variable,omitempty" validate:"omitempty,alpha,max=16"`
	XL            *float64 `json:"xl,omitempty"`
	XR            *float64 `json:"xr,omitempty"`
	X0            *float64 `json:"x0,omitempty"`
	XA            *float64 `json:"xa,omitempty"`
	XB            *float64 `json:"xb,omitempty"`
	Tolerance     float64  `json:"tolerance,omitempty" validate:"gte=0"`
	MaxIterations int      `json:"max_iterations,omitempty" validate:"omitempty,min=1,max=100000"`
	RoundOff      int      `json:"round_off,omitempty" validate:"omitempty,min=1,max=15"`
}

// Options returns the solver options carried by the request.
func (r Request) Options() Options {
	return Options{Tolerance: r.Tolerance, MaxIterations: r.MaxIterations, RoundOff: r.RoundOff}
}

// Solve validates the request, compiles the equation and runs the method.
// Invalid input (including an equation that does not parse) matches
// ErrInvalidInput; a Newton-Raphson equation without a derivative matches
// ErrDifferentiation.
func Solve(req Request) (*Trace, error) {
	if m, err := ParseMethod(string(req.Method)); err == nil {
		req.Method = m
	}
	if err := Validate(req); err != nil {
		return nil, err
	}
	variable := req.Variable
	if variable == "" {
		variable = DefaultVariable
	}
	fn, err := expr.Compile(req.Equation, variable)
	if err != nil {
		return nil, fmt.Errorf("%w: equation: %w", ErrInvalidInput, err)
	}
	f := Func(fn.Eval)
	opts := req.Options()

	switch req.Method {
	case MethodBisection:
		return Bisection(f, *req.XL, *req.XR, opts)
	case MethodFalsePosition:
		return FalsePosition(f, *req.XL, *req.XR, opts)
	case MethodNewtonRaphson:
		d, err := fn.Derivative()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDifferentiation, err)
		}
		tr, err := NewtonRaphson(f, d.Eval, *req.X0, opts)
		if err != nil {
			return nil, err
		}
		tr.Derivative = d.String()
		return tr, nil
	case MethodSecant:
		_, tr, err := Secant(f, *req.XA, *req.XB, opts)
		return tr, err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, req.Method)
}

// Float returns a pointer to v, for filling Request initial values.
func Float(v float64) *float64 { return &v }
