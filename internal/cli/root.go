// Package cli implements the rootfind command line.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/rootfind/internal/config"
	"github.com/njchilds90/rootfind/internal/logger"
)

// Version is set at build time
var Version = "0.1.0"

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configFile string
	verbose    bool
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "rootfind",
		Short: "rootfind - numerical root finding with iteration traces",
		Long: `rootfind solves f(x) = 0 for a single-variable equation and prints every
iteration of the chosen method.

Commands:
  bisection       - Bisection on a sign-changing bracket
  false-position  - False position (regula falsi) on a sign-changing bracket
  newton-raphson  - Newton-Raphson from one initial guess
  secant          - Secant method from two initial guesses
  derive          - Symbolic derivative of an equation
  eval            - Evaluate an equation at a point
  serve           - Start the HTTP tool server

Example:
  rootfind bisection "x^3 - x - 2" --xl 1 --xr 2 --tol 0.001
  rootfind newton-raphson "x^2 - 2" --x0 1 --round-off 8
  rootfind secant "exp(-x) - x" --xa 0 --xb 1 --json`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Config file (default: rootfind.yaml in ., ./config or /etc/rootfind)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")

	for _, m := range methodCommands {
		rootCmd.AddCommand(newSolveCmd(g, m))
	}
	rootCmd.AddCommand(newDeriveCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newServeCmd(g))
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the configuration and builds the logger the flags ask for.
// Verbose output lowers the level to debug.
func (g *globals) load(stderr io.Writer) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if g.verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(logger.Config{
		Level:      level,
		Format:     cfg.Log.Format,
		Production: cfg.IsProduction(),
	}, stderr)
	return cfg, log, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
