package expr

import "errors"

var (
	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("expr: syntax error")

	// ErrUnknownFunction is returned for a call to a name that is not a builtin.
	ErrUnknownFunction = errors.New("expr: unknown function")

	// ErrUnknownSymbol is returned by Compile when the expression mentions a
	// symbol other than the bound variable.
	ErrUnknownSymbol = errors.New("expr: unknown symbol")

	// ErrUnboundSymbol is returned by Eval when a symbol has no value in Env.
	ErrUnboundSymbol = errors.New("expr: unbound symbol")

	// ErrNotReal is returned by Eval when a result is NaN, infinite, or
	// outside the real domain of a function.
	ErrNotReal = errors.New("expr: not a finite real number")

	// ErrNotDifferentiable is returned when the derivative contains a
	// function with no symbolic derivative.
	ErrNotDifferentiable = errors.New("expr: not differentiable")
)
