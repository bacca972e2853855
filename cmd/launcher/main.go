package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"redact-relay/internal/config"
	"redact-relay/internal/launcher"
	"redact-relay/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, "launcher")

	self, err := os.Executable()
	if err != nil {
		log.Error("cannot locate launcher binary", "err", err)
		os.Exit(1)
	}

	err = launcher.Run(ctx, log, launcher.Services(cfg, filepath.Dir(self)), os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("\nShutting down servers...")
	case err != nil:
		log.Error("service exited", "err", err)
		os.Exit(1)
	}
}
