package rootfind

// Secant replaces the derivative of Newton-Raphson with the slope through
// the two latest estimates, starting from xa and xb.
//
// From the second iteration the loop stops when the relative error between
// the current pair is exactly zero; otherwise it runs to opts.MaxIterations
// (default 1000). The last x2 is returned whether or not it converged.
//
// If f(xa) == f(xb) the step is undefined. When the pair is already a root,
// or the two points are float neighbours, the iteration holds x2 = xb and
// stops on the next pass. Otherwise the solve fails with an *EvalError.
func Secant(f Func, xa, xb float64, opts Options) (float64, *Trace, error) {
	const m = MethodSecant
	opts, err := opts.resolve(m)
	if err != nil {
		return 0, nil, err
	}
	if err := checkFinite("xa", xa); err != nil {
		return 0, nil, err
	}
	if err := checkFinite("xb", xb); err != nil {
		return 0, nil, err
	}
	if xa == xb {
		return 0, nil, invalidf("xa and xb must differ, got %g twice", xa)
	}
	tr := newTrace(m, ExactConvergence, opts.RoundOff)

	x0, x1 := xa, xb
	var x2 float64
	for i := 1; i <= opts.MaxIterations; i++ {
		fxA, err := evalAt(f, m, i, x0)
		if err != nil {
			return 0, nil, err
		}
		fxB, err := evalAt(f, m, i, x1)
		if err != nil {
			return 0, nil, err
		}
		var rel RelError
		if i > 1 {
			rel = relErr(relativeError(x1, x0))
		}

		switch den := fxB - fxA; {
		case den != 0:
			x2 = x1 - fxB*(x1-x0)/den
		case fxB == 0 || adjacent(x0, x1):
			x2 = x1
		default:
			return 0, nil, &EvalError{Method: m, Iteration: i, X: x1, Err: errFlatSecant}
		}
		if !isFinite(x2) {
			return 0, nil, &EvalError{Method: m, Iteration: i, X: x1, Err: errNotFinite}
		}
		tr.Records = append(tr.Records, SecantRecord{Iteration: i, XA: x0, XB: x1, X2: x2, FXA: fxA, FXB: fxB, RelError: rel})
		tr.Iterations = i

		if i > 1 && rel.Value <= 0 {
			tr.Converged = true
			break
		}
		x0, x1 = x1, x2
	}
	tr.Root = Root{Value: x2, Found: true}
	return x2, tr, nil
}
