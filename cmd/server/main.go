// Package main is the entry point for the tutorhub API server.
// It reads configuration, sets up logging, and hands off to
// internal/server; all actual behavior lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/baraus/tutorhub/internal/config"
	"github.com/baraus/tutorhub/internal/server"
)

func main() {
	cfg := config.MustLoad()

	logger := newLogger(cfg.Env)

	// The SQLite file's directory may not exist on first boot.
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create storage directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger picks the log format by environment: human-readable text
// with debug level for dev, JSON at info level for prod.
func newLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}
