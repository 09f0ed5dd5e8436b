package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/rootfind"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, rootfind.DefaultRoundOff, cfg.Solver.RoundOff)
	assert.Equal(t, 0.0001, cfg.Solver.Tolerance)
	assert.Equal(t, rootfind.DefaultMaxIterations, cfg.Solver.MaxIterations)
	assert.Equal(t, rootfind.DefaultSecantMaxIterations, cfg.Solver.SecantMaxIterations)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROOTFIND_SERVER_PORT", "9090")
	t.Setenv("ROOTFIND_SERVER_ENV", "production")
	t.Setenv("ROOTFIND_SOLVER_ROUND_OFF", "6")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 6, cfg.Solver.RoundOff)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "server:\n  port: 7070\nsolver:\n  tolerance: 0.5\n  max_iterations: 20\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Solver.Tolerance)
	assert.Equal(t, 20, cfg.Solver.MaxIterations)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rootfind.yaml"), []byte("server:\n  host: 127.0.0.1\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("missing named file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("ROOTFIND_SOLVER_ROUND_OFF", "0")
		_, err := Load("")
		assert.ErrorIs(t, err, rootfind.ErrInvalidInput)
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("ROOTFIND_LOG_LEVEL", "loud")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Level")
	})
}

func TestSolverConfig_Apply(t *testing.T) {
	sc := SolverConfig{RoundOff: 6, Tolerance: 0.01, MaxIterations: 50, SecantMaxIterations: 500}

	req := rootfind.Request{Method: rootfind.MethodSecant}
	sc.Apply(&req)
	assert.Equal(t, 500, req.MaxIterations)
	assert.Equal(t, 6, req.RoundOff)
	assert.Equal(t, 0.01, req.Tolerance)

	req = rootfind.Request{Method: rootfind.MethodBisection, RoundOff: 2, MaxIterations: 10}
	sc.Apply(&req)
	assert.Equal(t, 10, req.MaxIterations)
	assert.Equal(t, 2, req.RoundOff)
}
