// Package rootfind finds roots of single-variable real functions with four
// classical iterative methods and records every step of the iteration.
//
// Design goals:
//   - Bisection, False Position, Newton-Raphson and Secant behind one trace type
//   - Full float64 arithmetic; rounding only when a trace is rendered
//   - Deterministic output: the same inputs always give the same trace
//   - No shared state: solves are safe to run concurrently
//   - AI/LLM friendly: JSON views and MCP-ready tool calls
//
// The solvers take plain Go functions. Use Solve with a Request to go from
// equation text (parsed by package expr) to a trace in one call.
package rootfind

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================
// Core types
// ============================================================

// Func is a real function of one variable. An error or a non-finite result
// aborts the solve with an *EvalError.
type Func func(x float64) (float64, error)

// Method names one of the four solvers.
type Method string

const (
	MethodBisection     Method = "bisection"
	MethodFalsePosition Method = "false-position"
	MethodNewtonRaphson Method = "newton-raphson"
	MethodSecant        Method = "secant"
)

// Methods lists every method in display order.
var Methods = []Method{MethodBisection, MethodFalsePosition, MethodNewtonRaphson, MethodSecant}

// ParseMethod accepts the canonical names and their underscore spellings
// ("false_position", "newton_raphson").
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Bracketing reports whether the method needs an interval [xl, xr].
func (m Method) Bracketing() bool {
	return m == MethodBisection || m == MethodFalsePosition
}

// Title is the human readable name.
func (m Method) Title() string {
	switch m {
	case MethodBisection:
		return "Bisection"
	case MethodFalsePosition:
		return "False Position"
	case MethodNewtonRaphson:
		return "Newton-Raphson"
	case MethodSecant:
		return "Secant"
	}
	return string(m)
}

// StopPolicy is the convergence test a solver applies.
type StopPolicy int

const (
	// BracketWidth stops when |xr - xl| < tolerance.
	BracketWidth StopPolicy = iota + 1
	// Stagnation stops when f(xm) changes by less than tolerance between
	// consecutive iterations. The bracket may still be wide.
	Stagnation
	// ExactConvergence stops when the relative error is exactly zero, that
	// is when an iteration reproduces its input.
	ExactConvergence
)

func (p StopPolicy) String() string {
	switch p {
	case BracketWidth:
		return "bracket-width"
	case Stagnation:
		return "stagnation"
	case ExactConvergence:
		return "exact-convergence"
	}
	return "unknown"
}

// ============================================================
// Options
// ============================================================

const (
	DefaultMaxIterations       = 100
	DefaultSecantMaxIterations = 1000
	DefaultRoundOff            = 4
)

// Options tune a solve. The zero value is not usable for bracketing methods,
// which need a positive Tolerance.
type Options struct {
	// Tolerance is the stopping threshold of the bracketing methods. Open
	// methods ignore it.
	Tolerance float64
	// MaxIterations caps the loop. Zero selects the method default.
	MaxIterations int
	// RoundOff is the number of fixed-point digits used when rendering.
	// Zero selects DefaultRoundOff.
	RoundOff int
}

// DefaultOptions returns the defaults for m with the given tolerance.
func DefaultOptions(m Method, tolerance float64) Options {
	return Options{Tolerance: tolerance, MaxIterations: defaultCap(m), RoundOff: DefaultRoundOff}
}

func defaultCap(m Method) int {
	if m == MethodSecant {
		return DefaultSecantMaxIterations
	}
	return DefaultMaxIterations
}

// resolve fills defaults and checks the fields every method shares.
func (o Options) resolve(m Method) (Options, error) {
	if o.MaxIterations == 0 {
		o.MaxIterations = defaultCap(m)
	}
	if o.RoundOff == 0 {
		o.RoundOff = DefaultRoundOff
	}
	if o.MaxIterations < 0 {
		return o, invalidf("maxIterations must be at least 1, got %d", o.MaxIterations)
	}
	if o.RoundOff < 1 {
		return o, invalidf("roundOff must be at least 1, got %d", o.RoundOff)
	}
	if m.Bracketing() && (!(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0)) {
		return o, invalidf("tolerance must be a positive number, got %v", o.Tolerance)
	}
	return o, nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidf("%s must be a finite number, got %v", name, v)
	}
	return nil
}
