package llm

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"redact-relay/internal/cache"
	"redact-relay/internal/metrics"
)

// CachingClient serves repeated identical completions from a cache.
// Cache errors are logged and otherwise ignored.
type CachingClient struct {
	next    Client
	cache   cache.Cache
	ttl     time.Duration
	log     *slog.Logger
	service string
}

func NewCachingClient(next Client, c cache.Cache, ttl time.Duration, log *slog.Logger, service string) *CachingClient {
	return &CachingClient{next: next, cache: c, ttl: ttl, log: log, service: service}
}

func (c *CachingClient) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	key := completionKey(messages, p)
	if val, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("cache lookup failed", "err", err)
	} else if ok {
		metrics.CacheLookups.WithLabelValues(c.service, "hit").Inc()
		return val, nil
	}
	metrics.CacheLookups.WithLabelValues(c.service, "miss").Inc()

	out, err := c.next.Complete(ctx, messages, p)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, out, c.ttl); err != nil {
		c.log.Warn("failed to cache completion", "err", err)
	}
	return out, nil
}

func completionKey(messages []Message, p Params) string {
	parts := []string{
		p.Model,
		strconv.FormatFloat(p.Temperature, 'g', -1, 64),
		strconv.Itoa(p.MaxTokens),
		strconv.FormatFloat(p.TopP, 'g', -1, 64),
	}
	for _, m := range messages {
		parts = append(parts, string(m.Role), m.Content)
	}
	return cache.GenerateCacheKey(parts...)
}
