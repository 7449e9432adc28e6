package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/playgate/playgate/internal/config"
	"github.com/playgate/playgate/internal/server"
	"github.com/playgate/playgate/internal/wiring"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A local .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PLAYGATE_CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Server.Mode == "development" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	handler, err := wiring.ProvideHandler(cfg, logger)
	if err != nil {
		logger.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, handler, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
