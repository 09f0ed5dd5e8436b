package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/njchilds90/rootfind"
	"github.com/njchilds90/rootfind/chart"
	"github.com/njchilds90/rootfind/internal/metrics"
)

type errorBody struct {
	Error   string                    `json:"error"`
	Details rootfind.ValidationErrors `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details rootfind.ValidationErrors) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// decode reads exactly one JSON value of at most MaxBodyBytes.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, "invalid JSON: trailing data", nil)
		return false
	}
	return true
}

// solveError maps a solve failure to a response.
func solveError(w http.ResponseWriter, err error) {
	var verrs rootfind.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, "validation failed", verrs)
	case errors.Is(err, rootfind.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, rootfind.ErrEvaluation), errors.Is(err, rootfind.ErrDifferentiation):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
	}
}

// solve applies the configured defaults, runs the request and records it.
func (s *Server) solve(r *http.Request, req rootfind.Request) (*rootfind.Trace, error) {
	s.solver.Apply(&req)
	start := time.Now()
	tr, err := rootfind.Solve(req)
	metrics.RecordSolve(req.Method, tr, err)
	s.log.Debug("solve finished",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("method", string(req.Method)),
		zap.String("equation", req.Equation),
		zap.String("outcome", metrics.Outcome(tr, err)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return tr, err
}

// POST /tool
func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	var req rootfind.ToolRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, ok := rootfind.ToolMethod(req.Tool); ok {
		s.applyToolDefaults(&req)
	}
	resp := rootfind.HandleToolCallObserved(req, func(m rootfind.Method, tr *rootfind.Trace, err error) {
		metrics.RecordSolve(m, tr, err)
	})
	writeJSON(w, http.StatusOK, resp)
}

// applyToolDefaults fills the optional solver params from config.
func (s *Server) applyToolDefaults(req *rootfind.ToolRequest) {
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}
	m, _ := rootfind.ToolMethod(req.Tool)
	defaults := rootfind.Request{Method: m}
	s.solver.Apply(&defaults)
	set := func(key string, v float64) {
		if _, ok := req.Params[key]; !ok {
			req.Params[key] = v
		}
	}
	set("round_off", float64(defaults.RoundOff))
	set("max_iterations", float64(defaults.MaxIterations))
	if m.Bracketing() {
		set("tolerance", defaults.Tolerance)
	}
}

// POST /solve
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req rootfind.Request
	if !s.decode(w, r, &req) {
		return
	}
	tr, err := s.solve(r, req)
	if err != nil {
		solveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tr.View())
}

// POST /chart?format=png|svg|pdf
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	var req rootfind.Request
	if !s.decode(w, r, &req) {
		return
	}
	tr, err := s.solve(r, req)
	if err != nil {
		solveError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf, tr, chart.Options{Format: format}); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chart.ErrUnknownFormat) || errors.Is(err, chart.ErrEmptyTrace) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error(), nil)
		return
	}
	w.Header().Set("Content-Type", chart.ContentType(format))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// GET /schema
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, rootfind.MCPToolSpec())
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
