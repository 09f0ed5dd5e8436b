package rootfind

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a missing or malformed input, reported before
	// the first iteration.
	ErrInvalidInput = errors.New("rootfind: invalid input")
	// ErrNoSignChange is returned by the bracketing methods when f(xl) and
	// f(xr) have the same sign.
	ErrNoSignChange = fmt.Errorf("%w: f(xl) and f(xr) must have opposite signs", ErrInvalidInput)
	// ErrUnknownMethod is returned for a method name that is not recognised.
	ErrUnknownMethod = fmt.Errorf("%w: unknown method", ErrInvalidInput)
	// ErrEvaluation marks a failed or non-finite evaluation during a solve.
	ErrEvaluation = errors.New("rootfind: evaluation failed")
	// ErrDifferentiation is returned when Newton-Raphson cannot obtain f'.
	ErrDifferentiation = errors.New("rootfind: differentiation failed")

	errNotFinite      = errors.New("result is not finite")
	errZeroDerivative = errors.New("derivative is zero")
	errFlatSecant     = errors.New("f(xa) equals f(xb), secant is horizontal")
)

// EvalError reports which evaluation aborted a solve.
type EvalError struct {
	Method    Method
	Iteration int
	X         float64
	Err       error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("rootfind: %s iteration %d at x=%g: %v", e.Method, e.Iteration, e.X, e.Err)
}

// Unwrap exposes both ErrEvaluation and the underlying cause to errors.Is.
func (e *EvalError) Unwrap() []error { return []error{ErrEvaluation, e.Err} }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
