package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/njchilds90/rootfind"
)

// EnvPrefix prefixes every environment override, e.g. ROOTFIND_SERVER_PORT.
const EnvPrefix = "ROOTFIND"

// Load loads configuration from defaults, an optional config file and
// environment variables. An empty file searches for rootfind.yaml in the
// usual places and ignores its absence; a named file must exist.
func Load(file string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", file, err)
		}
	} else {
		v.SetConfigName("rootfind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/rootfind")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Config

	// Server
	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.Env = v.GetString("server.env")
	cfg.Server.MaxBodyBytes = v.GetInt64("server.max_body_bytes")

	// Logging
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	// Solver
	cfg.Solver.RoundOff = v.GetInt("solver.round_off")
	cfg.Solver.Tolerance = v.GetFloat64("solver.tolerance")
	cfg.Solver.MaxIterations = v.GetInt("solver.max_iterations")
	cfg.Solver.SecantMaxIterations = v.GetInt("solver.secant_max_iterations")

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Solver defaults
	v.SetDefault("solver.round_off", rootfind.DefaultRoundOff)
	v.SetDefault("solver.tolerance", 0.0001)
	v.SetDefault("solver.max_iterations", rootfind.DefaultMaxIterations)
	v.SetDefault("solver.secant_max_iterations", rootfind.DefaultSecantMaxIterations)
}

func validate(cfg *Config) error {
	if err := rootfind.Validate(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
