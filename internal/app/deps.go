package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"redact-relay/internal/cache"
	"redact-relay/internal/config"
	"redact-relay/internal/llm"
	"redact-relay/internal/logger"
)

// Deps bundles the runtime dependencies of one HTTP service. Built once per
// process and shared by every request.
type Deps struct {
	Service config.Service
	Config  config.Config
	Log     *slog.Logger
	LLM     llm.Client
	Cache   cache.Cache
}

// Close releases the cache connection.
func (d Deps) Close() error {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.Close()
}

// Build loads .env (optional) and the environment, then assembles deps for svc.
// The returned logger is usable even when err is non-nil.
func Build(ctx context.Context, svc config.Service) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{Log: slog.Default()}, fmt.Errorf("failed to load .env file: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return Deps{Log: slog.Default()}, err
	}
	log := logger.New(cfg.LogLevel, string(svc))
	deps, err := Assemble(ctx, cfg, svc, log)
	if err != nil {
		return Deps{Log: log}, err
	}
	return deps, nil
}

// Assemble builds the model client for svc, runs the startup check when
// enabled, and wraps the client with metrics and the configured cache.
func Assemble(ctx context.Context, cfg config.Config, svc config.Service, log *slog.Logger) (Deps, error) {
	apiKey, err := cfg.APIKey(svc)
	if err != nil {
		return Deps{}, err
	}
	client, err := llm.NewOpenAIClient(apiKey, cfg.LLMBaseURL, cfg.LLMTimeout)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	log.Info("using OpenAI-compatible LLM client", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)

	if cfg.StartupCheck {
		if err := Verify(ctx, log, client, cfg.LLMModel); err != nil {
			return Deps{}, err
		}
	}

	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return Deps{
		Service: svc,
		Config:  cfg,
		Log:     log,
		LLM:     wrapLLM(client, c, cfg, log, svc),
		Cache:   c,
	}, nil
}

// Verify runs the provider's credential check once. Any failure is fatal to startup.
func Verify(ctx context.Context, log *slog.Logger, v llm.Verifier, model string) error {
	if err := v.Verify(ctx, model); err != nil {
		log.Error("LLM startup check failed", "err", err)
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	log.Info("LLM startup check passed", "model", model)
	return nil
}

func wrapLLM(client llm.Client, c cache.Cache, cfg config.Config, log *slog.Logger, svc config.Service) llm.Client {
	instrumented := llm.Instrument(client, string(svc))
	if _, noop := c.(*cache.NoOpCache); noop {
		return instrumented
	}
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	return llm.NewCachingClient(instrumented, c, ttl, log, string(svc))
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "", "none":
		return cache.NewNoOpCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Info("using Redis completion cache", "addr", cfg.RedisAddr, "ttl_seconds", cfg.CacheTTL)
		return c, nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: none, redis)", cfg.CacheProvider)
	}
}
