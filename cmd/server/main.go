// Command server runs the snippet sharing web application.
//
// Configuration comes from environment variables (see internal/config).
// Typical local runs:
//
//	go run ./cmd/server                                  # MongoDB on localhost
//	SNIPPETS_STORE=sqlite go run ./cmd/server            # no database server
//	SESSION_STORE=redis SESSION_SECRET=... go run ./cmd/server
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/snippet-share/internal/config"
	"github.com/sakif/snippet-share/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if cfg.SecretGenerated {
		logger.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
