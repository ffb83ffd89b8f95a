// Package cache provides the key/value cache port used by the read-through
// layer, together with its redis and in-memory drivers. Entries are derived
// state only: every value stored here can be rebuilt from the database, so a
// cache outage degrades performance, never correctness.
package cache

import (
	"context"
	"time"

	"github.com/allisson/go-shop-api/internal/errors"
)

// ErrMiss indicates the key is absent from the cache. It is the only cache
// error callers are expected to branch on; everything else is an
// infrastructure failure to be treated as best-effort.
var ErrMiss = errors.New("cache miss")

// Store defines cache operations with per-key TTL and prefix invalidation.
type Store interface {
	// Get returns the value stored under key, or ErrMiss if absent/expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given time-to-live.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePattern removes every key starting with the given prefix.
	DeletePattern(ctx context.Context, prefix string) error

	// Ping verifies the cache backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}
