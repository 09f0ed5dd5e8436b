package expr_test

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/rootfind/expr"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := expr.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := expr.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := expr.F(2, 5)
	if n.LaTeX() != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", n.LaTeX())
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := expr.N(5).Diff("x")
	if expr.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", expr.String(result))
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_Eval_Bound(t *testing.T) {
	v, err := expr.S("x").Eval(expr.Env{"x": 3})
	if err != nil || v != 3 {
		t.Errorf("want 3, got %v (%v)", v, err)
	}
}

func TestSym_Eval_Unbound(t *testing.T) {
	_, err := expr.S("y").Eval(expr.Env{"x": 3})
	if !errors.Is(err, expr.ErrUnboundSymbol) {
		t.Errorf("want ErrUnboundSymbol, got %v", err)
	}
}

func TestSym_Diff_Self(t *testing.T) {
	if got := expr.String(expr.S("x").Diff("x")); got != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", got)
	}
}

func TestSym_Diff_Other(t *testing.T) {
	if got := expr.String(expr.S("y").Diff("x")); got != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", got)
	}
}

// ============================================================
// Add / Mul / Pow tests
// ============================================================

func TestAdd_LikeTerms(t *testing.T) {
	e := expr.AddOf(expr.S("x"), expr.S("x"))
	if expr.String(e) != "2*x" {
		t.Errorf("want '2*x', got %s", expr.String(e))
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	e := expr.AddOf(expr.N(1), expr.N(-1))
	if expr.String(e) != "0" {
		t.Errorf("want 0, got %s", expr.String(e))
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	e := expr.MulOf(expr.N(0), expr.S("x"))
	if expr.String(e) != "0" {
		t.Errorf("0*x should be 0, got %s", expr.String(e))
	}
}

func TestPow_NumericEval(t *testing.T) {
	e := expr.PowOf(expr.N(2), expr.N(3))
	if expr.String(e) != "8" {
		t.Errorf("2^3 should be 8, got %s", expr.String(e))
	}
}

func TestPow_NestedFractionalKept(t *testing.T) {
	// (x^2)^(1/2) is |x|, not x, so it must not collapse.
	e := expr.PowOf(expr.PowOf(expr.S("x"), expr.N(2)), expr.F(1, 2))
	v, err := e.Eval(expr.Env{"x": -3})
	if err != nil || !approx(v, 3) {
		t.Errorf("want 3, got %v (%v)", v, err)
	}
}

func TestPow_NestedDomainKept(t *testing.T) {
	x := expr.S("x")
	cases := []struct {
		e    expr.Expr
		text string
		at   float64
	}{
		{expr.PowOf(expr.PowOf(x, expr.F(1, 2)), expr.N(2)), "(x^(1/2))^2", -1},
		{expr.PowOf(expr.PowOf(x, expr.N(-1)), expr.N(-1)), "(x^(-1))^(-1)", 0},
		{expr.PowOf(expr.PowOf(x, expr.N(-2)), expr.N(0)), "(x^(-2))^0", 0},
	}
	for _, c := range cases {
		if got := c.e.String(); got != c.text {
			t.Errorf("want %s, got %s", c.text, got)
		}
		if _, err := c.e.Eval(expr.Env{"x": c.at}); !errors.Is(err, expr.ErrNotReal) {
			t.Errorf("%s at %v: want ErrNotReal, got %v", c.text, c.at, err)
		}
	}

	if got := expr.PowOf(expr.PowOf(x, expr.N(2)), expr.N(3)).String(); got != "x^6" {
		t.Errorf("want x^6, got %s", got)
	}
	if got := expr.PowOf(expr.PowOf(x, expr.N(-1)), expr.N(2)).String(); got != "x^(-2)" {
		t.Errorf("want x^(-2), got %s", got)
	}
}

func TestPow_LargeFoldStaysSymbolic(t *testing.T) {
	e, err := expr.Parse("(((9^64)^64)^64)^64 + x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := e.Eval(expr.Env{"x": 1}); !errors.Is(err, expr.ErrNotReal) {
		t.Errorf("want ErrNotReal, got %v", err)
	}
	if got := expr.MustParse("2^64").String(); got != "18446744073709551616" {
		t.Errorf("2^64 should fold, got %s", got)
	}
}

// ============================================================
// Parse tests
// ============================================================

func TestParse_Strings(t *testing.T) {
	cases := map[string]string{
		"x^2 - 2":     "x^2 + -2",
		"x^3 - x - 2": "x^3 + -1*x + -2",
		"2x":          "2*x",
		"3(x + 1)":    "3*(x + 1)",
		"-x^2":        "-1*x^2",
		"2^3^2":       "512",
		"sqrt(x)":     "x^(1/2)",
		"log(x)":      "ln(x)",
		"x/2":         "1/2*x",
	}
	for src, want := range cases {
		e, err := expr.Parse(src)
		if err != nil {
			t.Errorf("Parse(%q): %v", src, err)
			continue
		}
		if got := expr.String(e); got != want {
			t.Errorf("Parse(%q): want %s, got %s", src, want, got)
		}
	}
}

func TestParse_Eval(t *testing.T) {
	cases := []struct {
		src  string
		x    float64
		want float64
	}{
		{"x^3 - x - 2", 2, 4},
		{"x^2 - 4", 3, 5},
		{"2x + 1", 1.5, 4},
		{"(x+1)(x-1)", 3, 8},
		{"x(x+1)", 2, 6},
		{"e^x", 1, math.E},
		{"2e3 + x", 1, 2001},
		{"2e", 0, 2 * math.E},
		{".5x", 4, 2},
		{"sin(pi/2) + cos(0)", 0, 2},
		{"abs(x) - 1", -3, 2},
		{"log10(x)", 1000, 3},
		{"x - cos(x)", 0, -1},
	}
	for _, c := range cases {
		e, err := expr.Parse(c.src)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.src, err)
			continue
		}
		got, err := e.Eval(expr.Env{"x": c.x})
		if err != nil {
			t.Errorf("Eval(%q, %v): %v", c.src, c.x, err)
			continue
		}
		if !approx(got, c.want) {
			t.Errorf("Eval(%q, %v): want %v, got %v", c.src, c.x, c.want, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]error{
		"":          expr.ErrSyntax,
		"x +":       expr.ErrSyntax,
		"(x + 1":    expr.ErrSyntax,
		"x $ 2":     expr.ErrSyntax,
		"sin x":     expr.ErrSyntax,
		"foo(x)":    expr.ErrUnknownFunction,
		"x 2":       expr.ErrSyntax,
		"2 * * x":   expr.ErrSyntax,
		"x^":        expr.ErrSyntax,
		"sqrt(x))":  expr.ErrSyntax,
		"1.2.3 + x": expr.ErrSyntax,
		"1e99999":   expr.ErrSyntax,
	}
	for src, want := range cases {
		_, err := expr.Parse(src)
		if !errors.Is(err, want) {
			t.Errorf("Parse(%q): want %v, got %v", src, want, err)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, src := range []string{"x^3 - x - 2", "sqrt(x) + 1/x", "2^(x + 1)", "(x^2)^x", "-x/3"} {
		e := expr.MustParse(src)
		again, err := expr.Parse(e.String())
		if err != nil {
			t.Errorf("reparse of %q (%s): %v", src, e.String(), err)
			continue
		}
		a, _ := e.Eval(expr.Env{"x": 1.7})
		b, _ := again.Eval(expr.Env{"x": 1.7})
		if !approx(a, b) {
			t.Errorf("round trip of %q changed value: %v vs %v", src, a, b)
		}
	}
}

// ============================================================
// Eval domain tests
// ============================================================

func TestEval_NotReal(t *testing.T) {
	cases := []struct {
		src string
		x   float64
	}{
		{"1/x", 0},
		{"ln(x)", 0},
		{"ln(x)", -1},
		{"sqrt(x)", -4},
		{"asin(x)", 2},
		{"exp(x)", 1000},
		{"1e400", 0},
	}
	for _, c := range cases {
		_, err := expr.MustParse(c.src).Eval(expr.Env{"x": c.x})
		if !errors.Is(err, expr.ErrNotReal) {
			t.Errorf("Eval(%q, %v): want ErrNotReal, got %v", c.src, c.x, err)
		}
	}
}

// ============================================================
// Differentiation tests
// ============================================================

func TestDiff_Strings(t *testing.T) {
	cases := map[string]string{
		"x^2 - 2":     "2*x",
		"x^3 - x - 2": "3*x^2 + -1",
		"sin(x)":      "cos(x)",
		"cos(x)":      "-1*sin(x)",
		"exp(x)":      "exp(x)",
		"ln(x)":       "x^(-1)",
		"e^x":         "e^x",
		"5":           "0",
	}
	for src, want := range cases {
		f, err := expr.Compile(src, "x")
		if err != nil {
			t.Errorf("Compile(%q): %v", src, err)
			continue
		}
		d, err := f.Derivative()
		if err != nil {
			t.Errorf("Derivative(%q): %v", src, err)
			continue
		}
		if d.String() != want {
			t.Errorf("d/dx %s: want %s, got %s", src, want, d.String())
		}
	}
}

func TestDiff_NumericAgreement(t *testing.T) {
	const h = 1e-6
	for _, src := range []string{"x^3 - 2x + 1", "sin(x)*x", "exp(-x^2)", "2^x", "x^x", "atan(x) + tanh(x)", "log10(x)", "sqrt(x+1)", "abs(x-3)"} {
		f, err := expr.Compile(src, "x")
		if err != nil {
			t.Fatalf("Compile(%q): %v", src, err)
		}
		d, err := f.Derivative()
		if err != nil {
			t.Fatalf("Derivative(%q): %v", src, err)
		}
		x := 1.3
		fp, _ := f.Eval(x + h)
		fm, _ := f.Eval(x - h)
		numeric := (fp - fm) / (2 * h)
		got, err := d.Eval(x)
		if err != nil {
			t.Errorf("d/dx %s at %v: %v", src, x, err)
			continue
		}
		if math.Abs(got-numeric) > 1e-5 {
			t.Errorf("d/dx %s at %v: symbolic %v, numeric %v", src, x, got, numeric)
		}
	}
}

func TestDiff_NotDifferentiable(t *testing.T) {
	for _, src := range []string{"floor(x)", "ceil(x) + x", "sign(x)*x"} {
		f, err := expr.Compile(src, "x")
		if err != nil {
			t.Fatalf("Compile(%q): %v", src, err)
		}
		if _, err := f.Derivative(); !errors.Is(err, expr.ErrNotDifferentiable) {
			t.Errorf("Derivative(%q): want ErrNotDifferentiable, got %v", src, err)
		}
	}
}

// ============================================================
// Compile tests
// ============================================================

func TestCompile_UnknownSymbol(t *testing.T) {
	_, err := expr.Compile("x + y", "x")
	if !errors.Is(err, expr.ErrUnknownSymbol) {
		t.Errorf("want ErrUnknownSymbol, got %v", err)
	}
}

func TestCompile_ConstantsAllowed(t *testing.T) {
	f, err := expr.Compile("pi*x - e", "x")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := f.Eval(1)
	if err != nil || !approx(v, math.Pi-math.E) {
		t.Errorf("want pi-e, got %v (%v)", v, err)
	}
}

func TestFunction_LaTeX(t *testing.T) {
	f, _ := expr.Compile("x^2 - 2", "x")
	if f.LaTeX() != "x^{2} + -2" {
		t.Errorf("want x^{2} + -2, got %s", f.LaTeX())
	}
}

func TestAdd_CollectsCoefficients(t *testing.T) {
	cases := map[string]string{
		"2x + x":            "3*x",
		"x^2 + 3x^2 - x":    "4*x^2 + -1*x",
		"sin(x) - sin(x)":   "0",
		"x/2 + x/2 + 1 - 1": "x",
	}
	for src, want := range cases {
		if got := expr.MustParse(src).String(); got != want {
			t.Errorf("Parse(%q): want %s, got %s", src, want, got)
		}
	}
}

func TestFunc_Folds(t *testing.T) {
	cases := map[string]string{
		"exp(ln(x))": "exp(ln(x))",
		"ln(exp(x))": "x",
		"ln(e)":      "1",
		"abs(-x)":    "abs(x)",
		"sign(-3)":   "-1",
		"cos(0) + x": "x + 1",
	}
	for src, want := range cases {
		if got := expr.MustParse(src).String(); got != want {
			t.Errorf("Parse(%q): want %s, got %s", src, want, got)
		}
	}
}

func TestLaTeX(t *testing.T) {
	cases := map[string]string{
		"sqrt(x)":      `x^{\frac{1}{2}}`,
		"pi*x":         `\pi x`,
		"abs(x)":       `\left|x\right|`,
		"3(x + 1)":     `3 \left(x + 1\right)`,
		"(x + 1)^2":    `\left(x + 1\right)^{2}`,
		"log10(x) - 1": `\log_{10}\left(x\right) + -1`,
	}
	for src, want := range cases {
		if got := expr.MustParse(src).LaTeX(); got != want {
			t.Errorf("LaTeX(%q): want %s, got %s", src, want, got)
		}
	}
}

func TestFreeSymbols(t *testing.T) {
	got := expr.FreeSymbols(expr.MustParse("sin(a*x) + b^2 + pi"))
	for _, name := range []string{"a", "b", "x"} {
		if _, ok := got[name]; !ok {
			t.Errorf("missing %s in %v", name, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("want 3 symbols, got %v", got)
	}
}

func TestSimplify_KeepsDomain(t *testing.T) {
	cases := []struct {
		src  string
		text string
		bad  float64
		good float64
		want float64
	}{
		{"sqrt(x)^2", "(x^(1/2))^2", -1, 4, 4},
		{"ln(x) - ln(x)", "0*ln(x)", -1, 2, 0},
		{"0*sqrt(x) + 1", "0*x^(1/2) + 1", -4, 4, 1},
		{"x/x - 1", "x*x^(-1) + -1", 0, 3, 0},
		{"asin(x) - asin(x) + x", "0*asin(x) + x", 2, 0.5, 0.5},
		{"exp(ln(x))", "exp(ln(x))", -1, 2, 2},
	}
	for _, c := range cases {
		f, err := expr.Compile(c.src, "x")
		if err != nil {
			t.Errorf("Compile(%q): %v", c.src, err)
			continue
		}
		if f.String() != c.text {
			t.Errorf("Compile(%q): want %s, got %s", c.src, c.text, f.String())
		}
		if _, err := f.Eval(c.bad); !errors.Is(err, expr.ErrNotReal) {
			t.Errorf("Eval(%q, %v): want ErrNotReal, got %v", c.src, c.bad, err)
		}
		if got, err := f.Eval(c.good); err != nil || !approx(got, c.want) {
			t.Errorf("Eval(%q, %v): want %v, got %v (%v)", c.src, c.good, c.want, got, err)
		}
	}
}

func TestDiff_SkipsConstantFactors(t *testing.T) {
	cases := map[string]string{
		"2ln(x)":      "2*x^(-1)",
		"3sin(x)":     "3*cos(x)",
		"pi*x":        "pi",
		"ln(2)*x + 1": "ln(2)",
	}
	for src, want := range cases {
		f, _ := expr.Compile(src, "x")
		d, err := f.Derivative()
		if err != nil {
			t.Errorf("Derivative(%q): %v", src, err)
			continue
		}
		if d.String() != want {
			t.Errorf("d/dx %s: want %s, got %s", src, want, d.String())
		}
	}
}
