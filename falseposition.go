package rootfind

import "math"

// FalsePosition (regula falsi) replaces the midpoint of bisection with the
// x-intercept of the chord through (xl, f(xl)) and (xr, f(xr)).
//
// It stops when f(xm) is exactly zero or, from the second iteration on,
// when f(xm) changed by less than opts.Tolerance since the previous
// iteration. That test can fire while the bracket is still wide. Root and
// f(root) are not found when the cap runs out first. An endpoint that is
// already a root is returned with an empty trace, as in Bisection.
func FalsePosition(f Func, xl, xr float64, opts Options) (*Trace, error) {
	const m = MethodFalsePosition
	opts, err := opts.resolve(m)
	if err != nil {
		return nil, err
	}
	fl, fr, err := checkBracket(f, m, xl, xr)
	if err != nil {
		return nil, err
	}
	tr := newTrace(m, Stagnation, opts.RoundOff)
	if root, ok := endpointRoot(xl, fl, xr, fr); ok {
		tr.Root = Root{Value: root, HasFX: true, Found: true}
		tr.Converged = true
		return tr, nil
	}

	var xm, ym, prevYM float64
	for i := 1; i <= opts.MaxIterations; i++ {
		yl, err := evalAt(f, m, i, xl)
		if err != nil {
			return nil, err
		}
		yr, err := evalAt(f, m, i, xr)
		if err != nil {
			return nil, err
		}
		xm = xl + (xr-xl)*(yl/(yl-yr))
		if !isFinite(xm) {
			return nil, &EvalError{Method: m, Iteration: i, X: xm, Err: errNotFinite}
		}
		ym, err = evalAt(f, m, i, xm)
		if err != nil {
			return nil, err
		}
		tr.Records = append(tr.Records, FalsePositionRecord{Iteration: i, XL: xl, XM: xm, XR: xr, YL: yl, YM: ym, YR: yr})
		tr.Iterations = i

		if (i > 1 && math.Abs(ym-prevYM) < opts.Tolerance) || ym == 0 {
			tr.Converged = true
			break
		}
		if oppositeSigns(ym, yl) {
			xr = xm
		} else {
			xl = xm
		}
		prevYM = ym
	}
	tr.Root = Root{Value: xm, FX: ym, HasFX: true, Found: tr.Converged}
	return tr, nil
}
