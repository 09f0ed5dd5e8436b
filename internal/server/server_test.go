package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/njchilds90/rootfind"
	"github.com/njchilds90/rootfind/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, Env: "test", MaxBodyBytes: 1 << 16},
		Log:    config.LogConfig{Level: "debug", Format: "console"},
		Solver: config.SolverConfig{RoundOff: 4, Tolerance: 0.001, MaxIterations: 100, SecantMaxIterations: 1000},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(testConfig(), zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTool(t *testing.T) {
	srv := newTestServer(t)

	t.Run("bisection uses configured tolerance", func(t *testing.T) {
		resp := post(t, srv.URL+"/tool", `{"tool":"bisection","params":{"equation":"x^3 - x - 2","xl":1,"xr":2}}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Result rootfind.View `json:"result"`
			String string        `json:"string"`
			Error  string        `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Empty(t, out.Error)
		assert.Equal(t, "1.5205", out.Result.Root)
		assert.Equal(t, rootfind.Headers(rootfind.MethodBisection), out.Result.Headers)
		assert.Len(t, out.Result.Rows, 10)
	})

	t.Run("tool errors stay in the body", func(t *testing.T) {
		resp := post(t, srv.URL+"/tool", `{"tool":"nope","params":{}}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out rootfind.ToolResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "unknown tool: nope", out.Error)
	})

	t.Run("unknown field", func(t *testing.T) {
		resp := post(t, srv.URL+"/tool", `{"tool":"secant","extra":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("trailing data", func(t *testing.T) {
		resp := post(t, srv.URL+"/tool", `{"tool":"mcp_spec"} {}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("body too large", func(t *testing.T) {
		big := `{"tool":"evaluate","params":{"equation":"` + strings.Repeat("x+", 1<<15) + `x","x":1}}`
		resp := post(t, srv.URL+"/tool", big)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/tool")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestSolve(t *testing.T) {
	srv := newTestServer(t)

	t.Run("newton-raphson", func(t *testing.T) {
		resp := post(t, srv.URL+"/solve", `{"method":"newton-raphson","equation":"x^2 - 2","x0":1,"round_off":8}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view rootfind.View
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		assert.Equal(t, "1.41421356", view.Root)
		assert.Equal(t, "2*x", view.Derivative)
	})

	t.Run("validation errors", func(t *testing.T) {
		resp := post(t, srv.URL+"/solve", `{"method":"secant","equation":"x^2 - 4"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "validation failed", body.Error)
		assert.Contains(t, body.Details, rootfind.ValidationError{Field: "xa", Message: "is required for method secant"})
	})

	t.Run("no sign change", func(t *testing.T) {
		resp := post(t, srv.URL+"/solve", `{"method":"bisection","equation":"x^2 + 1","xl":-1,"xr":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("evaluation failure", func(t *testing.T) {
		resp := post(t, srv.URL+"/solve", `{"method":"newton-raphson","equation":"x^2 - 4","x0":0}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestChart(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/chart?format=svg", `{"method":"false-position","equation":"x^3 - x - 2","xl":1,"xr":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(body, []byte("<svg")))

	resp = post(t, srv.URL+"/chart?format=gif", `{"method":"secant","equation":"x^2 - 4","xa":0,"xb":2}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSchemaHealthMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	var schema map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&schema))
	assert.Len(t, schema["tools"], 7)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	post(t, srv.URL+"/solve", `{"method":"secant","equation":"x^2 - 4","xa":0,"xb":2}`)
	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `rootfind_solves_total{method="secant",outcome="converged"}`)
	assert.Contains(t, string(body), `rootfind_http_requests_total{method="POST",path="POST /solve",status="200"}`)
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("generates request ID when not present", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})

	t.Run("preserves existing request ID from header", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "existing-request-id-12345")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "existing-request-id-12345", resp.Header.Get(RequestIDHeader))
	})
}

func TestRecoverer(t *testing.T) {
	s := New(testConfig(), zap.NewNop())
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), s.recoverer)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
