package cache

import (
	"context"
	"time"
)

// NoOpCache is the default cache: every lookup misses and nothing is stored,
// so each request reaches the provider.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (c *NoOpCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
