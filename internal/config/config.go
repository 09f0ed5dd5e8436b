package config

import (
	"net"
	"strconv"

	"github.com/njchilds90/rootfind"
)

// Config holds all configuration for the rootfind binaries
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Solver SolverConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Env          string `mapstructure:"env" validate:"oneof=development production test"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" validate:"min=1"`
}

// Addr returns host:port for net/http
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// SolverConfig holds the defaults applied to requests that leave a field unset
type SolverConfig struct {
	RoundOff            int     `mapstructure:"round_off" validate:"min=1,max=15"`
	Tolerance           float64 `mapstructure:"tolerance" validate:"gt=0"`
	MaxIterations       int     `mapstructure:"max_iterations" validate:"min=1,max=100000"`
	SecantMaxIterations int     `mapstructure:"secant_max_iterations" validate:"min=1,max=100000"`
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Apply fills the unset fields of req from the solver defaults.
func (c SolverConfig) Apply(req *rootfind.Request) {
	if req.RoundOff == 0 {
		req.RoundOff = c.RoundOff
	}
	if req.Tolerance == 0 {
		req.Tolerance = c.Tolerance
	}
	if req.MaxIterations == 0 {
		if m, err := rootfind.ParseMethod(string(req.Method)); err == nil && m == rootfind.MethodSecant {
			req.MaxIterations = c.SecantMaxIterations
		} else {
			req.MaxIterations = c.MaxIterations
		}
	}
}
