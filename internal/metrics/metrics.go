// Package metrics provides Prometheus collectors for solves and HTTP traffic.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/njchilds90/rootfind"
)

var (
	// solvesTotal counts solves by method and outcome
	solvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rootfind_solves_total",
			Help: "Total number of solves by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	// solveIterations tracks loop passes per solve
	solveIterations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rootfind_solve_iterations",
			Help:    "Iterations used per solve",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250, 500, 1000},
		},
		[]string{"method"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rootfind_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rootfind_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Outcome labels
const (
	OutcomeConverged     = "converged"
	OutcomeNotConverged  = "not_converged"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeEvalError     = "evaluation_error"
	OutcomeDiffError     = "differentiation_error"
	OutcomeInternalError = "error"
)

// Outcome classifies the result of a solve.
func Outcome(tr *rootfind.Trace, err error) string {
	switch {
	case err == nil && tr != nil && tr.Converged:
		return OutcomeConverged
	case err == nil:
		return OutcomeNotConverged
	case errors.Is(err, rootfind.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, rootfind.ErrDifferentiation):
		return OutcomeDiffError
	case errors.Is(err, rootfind.ErrEvaluation):
		return OutcomeEvalError
	}
	return OutcomeInternalError
}

// RecordSolve records the result of one solve
func RecordSolve(method rootfind.Method, tr *rootfind.Trace, err error) {
	solvesTotal.WithLabelValues(string(method), Outcome(tr, err)).Inc()
	if err == nil && tr != nil {
		solveIterations.WithLabelValues(string(method)).Observe(float64(tr.Iterations))
	}
}

// RecordHTTP records one HTTP request
func RecordHTTP(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
