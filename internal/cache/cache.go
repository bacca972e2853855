package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores completion texts keyed by a digest of the request that produced them.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value with TTL
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// GenerateCacheKey hashes the ordered parts into a fixed-length key.
func GenerateCacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
