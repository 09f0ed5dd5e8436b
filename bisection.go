package rootfind

import (
	"fmt"
	"math"
)

// Bisection halves [xl, xr] until it is narrower than opts.Tolerance or
// f(xm) is exactly zero.
//
// f(xl) and f(xr) must have opposite signs (ErrNoSignChange otherwise). If
// either endpoint is already a root the trace is empty and that endpoint is
// returned. When the iteration cap runs out first, the root is reported as
// not found.
func Bisection(f Func, xl, xr float64, opts Options) (*Trace, error) {
	const m = MethodBisection
	opts, err := opts.resolve(m)
	if err != nil {
		return nil, err
	}
	fl, fr, err := checkBracket(f, m, xl, xr)
	if err != nil {
		return nil, err
	}
	tr := newTrace(m, BracketWidth, opts.RoundOff)
	if root, ok := endpointRoot(xl, fl, xr, fr); ok {
		tr.Root = Root{Value: root, HasFX: true, Found: true}
		tr.Converged = true
		return tr, nil
	}

	var xm, ym float64
	for i := 1; i <= opts.MaxIterations; i++ {
		xm = (xl + xr) / 2
		ym, err = evalAt(f, m, i, xm)
		if err != nil {
			return nil, err
		}
		tr.Records = append(tr.Records, BisectionRecord{Iteration: i, XL: xl, XM: xm, XR: xr, YL: fl, YM: ym, YR: fr})
		tr.Iterations = i

		if ym == 0 {
			tr.Converged = true
			break
		}
		if oppositeSigns(fl, ym) {
			xr, fr = xm, ym
		} else {
			xl, fl = xm, ym
		}
		if math.Abs(xr-xl) < opts.Tolerance {
			tr.Converged = true
			break
		}
	}
	tr.Root = Root{Value: xm, FX: ym, HasFX: true, Found: tr.Converged}
	return tr, nil
}

// checkBracket validates an interval and returns f at both ends.
func checkBracket(f Func, m Method, xl, xr float64) (fl, fr float64, err error) {
	if err := checkFinite("xl", xl); err != nil {
		return 0, 0, err
	}
	if err := checkFinite("xr", xr); err != nil {
		return 0, 0, err
	}
	if !(xl < xr) {
		return 0, 0, invalidf("xl must be less than xr, got xl=%g xr=%g", xl, xr)
	}
	if fl, err = evalAt(f, m, 0, xl); err != nil {
		return 0, 0, err
	}
	if fr, err = evalAt(f, m, 0, xr); err != nil {
		return 0, 0, err
	}
	if sameSign(fl, fr) {
		return 0, 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoSignChange, xl, fl, xr, fr)
	}
	return fl, fr, nil
}

func endpointRoot(xl, fl, xr, fr float64) (float64, bool) {
	switch {
	case fl == 0:
		return xl, true
	case fr == 0:
		return xr, true
	}
	return 0, false
}
