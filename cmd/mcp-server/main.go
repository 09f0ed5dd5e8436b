// cmd/mcp-server/main.go - Standalone HTTP MCP server for rootfind
//
// Exposes the rootfind tools as an HTTP endpoint for AI agent frameworks.
//
// Usage:
//
//	go run cmd/mcp-server/main.go -port 8080
//	go run cmd/mcp-server/main.go -config config/rootfind.yaml
//
// Tool call endpoint: POST /tool
// Solve endpoint:     POST /solve
// Chart endpoint:     POST /chart
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/njchilds90/rootfind/internal/config"
	"github.com/njchilds90/rootfind/internal/logger"
	"github.com/njchilds90/rootfind/internal/server"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	configFile := flag.String("config", "", "Config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Production: cfg.IsProduction(),
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, log).Run(ctx); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
