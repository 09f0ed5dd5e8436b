package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/rootfind/internal/server"
)

func newServeCmd(g *globals) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP tool server",
		Long: `Start the HTTP tool server.

Endpoints:
  POST /tool    execute a tool call
  POST /solve   solve a request and return the rendered trace
  POST /chart   solve a request and return its convergence chart
  GET  /schema  tool schema for agent registration
  GET  /health  liveness check
  GET  /metrics Prometheus metrics`,
		Example: `  rootfind serve --port 9090`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(cfg, log).Run(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from config)")
	return cmd
}
