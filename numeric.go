package rootfind

import (
	"math"

	"golang.org/x/exp/constraints"
)

// relativeError is |(next-prev)/next| in percent. Equal values give exactly
// zero, including next == prev == 0.
func relativeError[T constraints.Float](next, prev T) T {
	if next == prev {
		return 0
	}
	return T(math.Abs(float64((next-prev)/next))) * 100
}

// oppositeSigns is a*b < 0 without the underflow of the product.
func oppositeSigns[T constraints.Float](a, b T) bool {
	return (a < 0 && b > 0) || (a > 0 && b < 0)
}

func sameSign[T constraints.Float](a, b T) bool {
	return (a < 0 && b < 0) || (a > 0 && b > 0)
}

// adjacent reports whether a and b are within a few ulps of each other.
func adjacent(a, b float64) bool {
	const eps = 0x1p-52
	return math.Abs(a-b) <= 8*eps*math.Max(math.Abs(a), math.Abs(b))
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// evalAt calls f and converts failures into an *EvalError.
func evalAt(f Func, m Method, iteration int, x float64) (float64, error) {
	y, err := f(x)
	if err == nil && !isFinite(y) {
		err = errNotFinite
	}
	if err != nil {
		return 0, &EvalError{Method: m, Iteration: iteration, X: x, Err: err}
	}
	return y, nil
}
