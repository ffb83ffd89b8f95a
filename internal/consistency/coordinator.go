// Package consistency coordinates every product/order read and write across
// the authoritative database, the read-through cache, and the durable event
// queue. The database is the only source of truth; the cache is a
// best-effort accelerator and events are recorded transactionally and
// published by the outbox relay.
package consistency

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/allisson/go-shop-api/internal/cache"
	"github.com/allisson/go-shop-api/internal/database"
	apperrors "github.com/allisson/go-shop-api/internal/errors"
	"github.com/allisson/go-shop-api/internal/metrics"
)

// Event is a domain fact to be recorded alongside a mutation and published
// to the event queue after commit.
type Event struct {
	Type    string
	Payload map[string]any
}

// EventRecorder stores an event in the outbox within the transaction carried
// by ctx, so the mutation and the intent to publish commit atomically.
type EventRecorder interface {
	Record(ctx context.Context, eventType string, payload map[string]any) error
}

// Coordinator implements read-through caching with a fixed TTL and
// write-side prefix invalidation. All coordinator state lives in the
// external stores; the struct itself is safe for concurrent use.
type Coordinator struct {
	txManager database.TxManager
	store     cache.Store
	recorder  EventRecorder
	ttl       time.Duration
	logger    *slog.Logger
	business  metrics.BusinessMetrics
}

// NewCoordinator creates a Coordinator. businessMetrics may be nil.
func NewCoordinator(
	txManager database.TxManager,
	store cache.Store,
	recorder EventRecorder,
	ttl time.Duration,
	logger *slog.Logger,
	businessMetrics metrics.BusinessMetrics,
) *Coordinator {
	return &Coordinator{
		txManager: txManager,
		store:     store,
		recorder:  recorder,
		ttl:       ttl,
		logger:    logger,
		business:  businessMetrics,
	}
}

// TTL returns the fixed time-to-live applied to cache entries.
func (c *Coordinator) TTL() time.Duration {
	return c.ttl
}

func (c *Coordinator) recordCache(ctx context.Context, outcome string) {
	if c.business != nil {
		c.business.RecordOperation(ctx, "cache", "read_through", outcome)
	}
}

// ReadThrough returns the cached value under key, or loads it from the
// authoritative store, caches it with the fixed TTL, and returns it.
// Cache-store failures never abort the request: the loader runs and cache
// population is skipped, degrading to store-only behavior with a warning.
// The returned value is at most TTL stale relative to the last write whose
// invalidation completed.
func ReadThrough[T any](
	ctx context.Context,
	c *Coordinator,
	key string,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	storeHealthy := true
	cached, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if err := json.Unmarshal(cached, &value); err == nil {
			c.recordCache(ctx, "hit")
			return value, nil
		}
		// Undecodable entries are treated as misses and overwritten below.
		c.logger.Warn("discarding undecodable cache entry", slog.String("key", key))
	case apperrors.Is(err, cache.ErrMiss):
		// Fall through to the loader.
	default:
		// Infrastructure failure: serve from the store, skip population.
		storeHealthy = false
		c.recordCache(ctx, "error")
		c.logger.Warn("cache unavailable, falling back to database",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	value, err := loader(ctx)
	if err != nil {
		return zero, err
	}
	c.recordCache(ctx, "miss")

	if storeHealthy {
		if encoded, err := json.Marshal(value); err == nil {
			if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
				c.logger.Warn("failed to populate cache",
					slog.String("key", key),
					slog.Any("error", err),
				)
			}
		}
	}

	return value, nil
}

// Write executes mutate inside a single database transaction, recording the
// optional event in the outbox within that same transaction. On commit it
// deletes every cache entry matching the invalidation prefixes; invalidation
// is best-effort and never fails the write, bounding staleness at the TTL
// when the cache store is down. Steps run strictly in order:
// commit, invalidate, respond; publication happens via the outbox relay.
func (c *Coordinator) Write(
	ctx context.Context,
	event *Event,
	invalidate []string,
	mutate func(ctx context.Context) error,
) error {
	err := c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := mutate(ctx); err != nil {
			return err
		}
		if event != nil {
			if err := c.recorder.Record(ctx, event.Type, event.Payload); err != nil {
				return apperrors.Wrap(err, "failed to record event")
			}
		}
		return nil
	})
	if err != nil {
		// Rolled back: no cache or event side effects occurred.
		return err
	}

	// The commit is durable; invalidation must not be abandoned because the
	// request context got cancelled, or the staleness window would silently
	// extend to the full TTL.
	invalidateCtx := context.WithoutCancel(ctx)
	for _, prefix := range invalidate {
		if err := c.store.DeletePattern(invalidateCtx, prefix); err != nil {
			if c.business != nil {
				c.business.RecordOperation(invalidateCtx, "cache", "invalidate", "error")
			}
			c.logger.Warn("cache invalidation failed, stale entries persist until TTL",
				slog.String("prefix", prefix),
				slog.Any("error", err),
			)
		}
	}

	return nil
}
