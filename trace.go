package rootfind

import (
	"strconv"
)

// ============================================================
// Records
// ============================================================

// Record is one row of an iteration trace. The concrete type is one of
// BisectionRecord, FalsePositionRecord, NewtonRecord or SecantRecord.
type Record interface {
	// Index is the 1-based position of the row in its trace.
	Index() int
	// Estimate is the root estimate produced by this row.
	Estimate() float64
	// Cells renders the row with roundOff fixed-point digits, in the column
	// order of Headers for the owning method.
	Cells(roundOff int) []string

	record()
}

// RelError is a relative error in percent. The zero value is empty.
type RelError struct {
	Value float64
	Valid bool
}

func relErr(v float64) RelError { return RelError{Value: v, Valid: true} }

// Format renders the error with digits decimals followed by suffix, or ""
// when empty.
func (r RelError) Format(digits int, suffix string) string {
	if !r.Valid {
		return ""
	}
	return fixed(r.Value, digits) + suffix
}

// BisectionRecord holds the bracket at entry to an iteration and the
// midpoint it produced.
type BisectionRecord struct {
	Iteration int     `json:"iteration"`
	XL        float64 `json:"xl"`
	XM        float64 `json:"xm"`
	XR        float64 `json:"xr"`
	YL        float64 `json:"yl"`
	YM        float64 `json:"ym"`
	YR        float64 `json:"yr"`
}

func (r BisectionRecord) Index() int        { return r.Iteration }
func (r BisectionRecord) Estimate() float64 { return r.XM }
func (r BisectionRecord) record()           {}

func (r BisectionRecord) Cells(roundOff int) []string {
	return bracketCells(r.Iteration, roundOff, r.XL, r.XM, r.XR, r.YL, r.YM, r.YR)
}

// FalsePositionRecord has the same shape as BisectionRecord; XM is the
// chord intercept instead of the midpoint.
type FalsePositionRecord struct {
	Iteration int     `json:"iteration"`
	XL        float64 `json:"xl"`
	XM        float64 `json:"xm"`
	XR        float64 `json:"xr"`
	YL        float64 `json:"yl"`
	YM        float64 `json:"ym"`
	YR        float64 `json:"yr"`
}

func (r FalsePositionRecord) Index() int        { return r.Iteration }
func (r FalsePositionRecord) Estimate() float64 { return r.XM }
func (r FalsePositionRecord) record()           {}

func (r FalsePositionRecord) Cells(roundOff int) []string {
	return bracketCells(r.Iteration, roundOff, r.XL, r.XM, r.XR, r.YL, r.YM, r.YR)
}

// NewtonRecord is one Newton step. X is the new estimate; FX and FPrimeX
// were evaluated at From, the previous estimate. RelError lags one step:
// it is the error of the step that produced From.
type NewtonRecord struct {
	Iteration int      `json:"iteration"`
	From      float64  `json:"from"`
	X         float64  `json:"x"`
	FX        float64  `json:"fx"`
	FPrimeX   float64  `json:"fpx"`
	RelError  RelError `json:"-"`
}

func (r NewtonRecord) Index() int        { return r.Iteration }
func (r NewtonRecord) Estimate() float64 { return r.X }
func (r NewtonRecord) record()           {}

func (r NewtonRecord) Cells(roundOff int) []string {
	return []string{
		strconv.Itoa(r.Iteration),
		fixed(r.X, roundOff),
		fixed(r.FX, roundOff),
		fixed(r.FPrimeX, roundOff),
		r.RelError.Format(roundOff, ""),
	}
}

// SecantRecord is one secant step from the pair (XA, XB) to X2.
type SecantRecord struct {
	Iteration int      `json:"iteration"`
	XA        float64  `json:"xa"`
	XB        float64  `json:"xb"`
	X2        float64  `json:"x2"`
	FXA       float64  `json:"fxa"`
	FXB       float64  `json:"fxb"`
	RelError  RelError `json:"-"`
}

func (r SecantRecord) Index() int        { return r.Iteration }
func (r SecantRecord) Estimate() float64 { return r.X2 }
func (r SecantRecord) record()           {}

// The secant error column always uses four decimals and a percent sign.
func (r SecantRecord) Cells(roundOff int) []string {
	return []string{
		strconv.Itoa(r.Iteration),
		fixed(r.XA, roundOff),
		fixed(r.XB, roundOff),
		fixed(r.X2, roundOff),
		fixed(r.FXA, roundOff),
		fixed(r.FXB, roundOff),
		r.RelError.Format(4, "%"),
	}
}

func bracketCells(i, roundOff int, xl, xm, xr, yl, ym, yr float64) []string {
	cells := []string{strconv.Itoa(i)}
	for _, v := range []float64{xl, xm, xr, yl, ym, yr} {
		cells = append(cells, fixed(v, roundOff))
	}
	return cells
}

func fixed(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'f', digits, 64)
	// -0.0000 reads as noise in a table.
	if s[0] == '-' && strconv.FormatFloat(0, 'f', digits, 64) == s[1:] {
		return s[1:]
	}
	return s
}

// Headers returns the column titles of a method's table.
func Headers(m Method) []string {
	switch m {
	case MethodNewtonRaphson:
		return []string{"Iteration", "X", "f(X)", "f'(X)", "Relative Error (%)"}
	case MethodSecant:
		return []string{"Iteration", "XA", "XB", "X2", "f(XA)", "f(XB)", "Relative Error"}
	default:
		return []string{"Iteration", "XL", "XM", "XR", "YL", "YM", "YR"}
	}
}

// ============================================================
// Trace
// ============================================================

// Root is the final estimate of a solve.
type Root struct {
	Value float64
	// FX is f(Value) when HasFX is set. Open methods do not evaluate f at
	// their final estimate.
	FX    float64
	HasFX bool
	// Found is false when a bracketing method exhausted its iteration cap
	// without converging; the root is then reported as "Not found".
	Found bool
}

// Trace is the complete result of one solve. A new trace is built per solve
// and the solver keeps no reference to it.
type Trace struct {
	Method  Method
	Policy  StopPolicy
	Records []Record
	Root    Root
	// Iterations is the number of loop passes, which for Newton-Raphson
	// includes the seed row dropped from Records.
	Iterations int
	// Converged is set when the stop policy fired before the cap.
	Converged bool
	RoundOff  int
	// Derivative is the text of f' for Newton-Raphson traces built by Solve.
	Derivative string
}

func newTrace(m Method, p StopPolicy, roundOff int) *Trace {
	return &Trace{Method: m, Policy: p, RoundOff: roundOff}
}

// Estimates returns the root estimate of every record in order.
func (t *Trace) Estimates() []float64 {
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Estimate()
	}
	return out
}

// Last returns the final record, or nil for an empty trace.
func (t *Trace) Last() Record {
	if len(t.Records) == 0 {
		return nil
	}
	return t.Records[len(t.Records)-1]
}

// NotFound is the text shown for a root that was not found.
const NotFound = "Not found"

// View is the rendered form of a trace, ready for a table or JSON.
type View struct {
	Method     Method     `json:"method"`
	Title      string     `json:"title"`
	Policy     string     `json:"policy"`
	Headers    []string   `json:"headers"`
	Rows       [][]string `json:"rows"`
	Root       string     `json:"root"`
	FXRoot     string     `json:"fx_root,omitempty"`
	Derivative string     `json:"derivative,omitempty"`
	Iterations int        `json:"iterations"`
	Converged  bool       `json:"converged"`
}

// View renders the trace at its RoundOff precision.
func (t *Trace) View() View {
	v := View{
		Method:     t.Method,
		Title:      t.Method.Title(),
		Policy:     t.Policy.String(),
		Headers:    Headers(t.Method),
		Rows:       make([][]string, 0, len(t.Records)),
		Derivative: t.Derivative,
		Iterations: t.Iterations,
		Converged:  t.Converged,
	}
	for _, r := range t.Records {
		v.Rows = append(v.Rows, r.Cells(t.RoundOff))
	}
	switch {
	case t.Root.Found:
		v.Root = fixed(t.Root.Value, t.RoundOff)
		if t.Root.HasFX {
			v.FXRoot = fixed(t.Root.FX, t.RoundOff)
		}
	default:
		v.Root = NotFound
		if t.Root.HasFX {
			v.FXRoot = NotFound
		}
	}
	return v
}
