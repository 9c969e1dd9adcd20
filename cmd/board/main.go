// Board service entrypoint.
// Serves the blog board API: public listing, search and detail, and
// owner-only write, update and delete.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jhcode/board/internal/board"
	"github.com/jhcode/board/internal/config"
	"github.com/jhcode/board/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	server, err := board.NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to initialise board server", slog.Any("error", err))
		os.Exit(1)
	}
	defer server.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting board service", slog.String("port", cfg.Port))
	if err := server.Run(ctx); err != nil {
		logger.Error("board service stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
