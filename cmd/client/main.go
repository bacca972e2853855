package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"redact-relay/internal/config"
	"redact-relay/internal/logger"
	"redact-relay/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	// Logs go to stderr so stdout carries only the conversation.
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, "client")

	client := pipeline.New(nil, cfg.RedactURL, cfg.QueryURL)
	if err := client.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Debug("pipeline stopped", "err", err)
		os.Exit(1)
	}
}
