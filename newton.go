package rootfind

// NewtonRaphson iterates x <- x - f(x)/f'(x) from x0.
//
// The loop stops when a step reproduces its input exactly (relative error
// zero) or after opts.MaxIterations steps; opts.Tolerance is not used. A zero
// derivative or a non-finite step aborts with an *EvalError. The root is the
// last estimate and is always returned; check Trace.Converged.
//
// Internally the first pass records the seed x0 and is then shifted out, so
// the returned records hold Iterations-1 steps numbered from 1, and the first
// one has an empty relative error.
func NewtonRaphson(f, fPrime Func, x0 float64, opts Options) (*Trace, error) {
	const m = MethodNewtonRaphson
	opts, err := opts.resolve(m)
	if err != nil {
		return nil, err
	}
	if err := checkFinite("x0", x0); err != nil {
		return nil, err
	}
	if f == nil || fPrime == nil {
		return nil, invalidf("f and f' are required")
	}

	fx, err := evalAt(f, m, 1, x0)
	if err != nil {
		return nil, err
	}
	fpx, err := evalAt(fPrime, m, 1, x0)
	if err != nil {
		return nil, err
	}
	raw := []NewtonRecord{{Iteration: 1, From: x0, X: x0, FX: fx, FPrimeX: fpx}}

	converged := false
	xn := x0
	var prev RelError
	for step := 1; ; step++ {
		i := step + 1
		fx, err := evalAt(f, m, i, xn)
		if err != nil {
			return nil, err
		}
		fpx, err := evalAt(fPrime, m, i, xn)
		if err != nil {
			return nil, err
		}
		if fpx == 0 {
			return nil, &EvalError{Method: m, Iteration: i, X: xn, Err: errZeroDerivative}
		}
		next := xn - fx/fpx
		if !isFinite(next) {
			return nil, &EvalError{Method: m, Iteration: i, X: xn, Err: errNotFinite}
		}
		rel := relativeError(next, xn)
		raw = append(raw, NewtonRecord{Iteration: i, From: xn, X: next, FX: fx, FPrimeX: fpx, RelError: prev})

		if rel <= 0 {
			converged = true
			break
		}
		if step >= opts.MaxIterations {
			break
		}
		prev = relErr(rel)
		xn = next
	}

	tr := newTrace(m, ExactConvergence, opts.RoundOff)
	tr.Iterations = len(raw)
	tr.Converged = converged
	tr.Records = dropSeedRow(raw)
	tr.Root = Root{Value: tr.Last().Estimate(), Found: true}
	return tr, nil
}

// dropSeedRow removes the first raw row and renumbers the rest from 1.
func dropSeedRow(raw []NewtonRecord) []Record {
	out := make([]Record, 0, len(raw)-1)
	for i, r := range raw[1:] {
		r.Iteration = i + 1
		out = append(out, r)
	}
	return out
}
