package consistency

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/go-shop-api/internal/cache"
)

// fakeTxManager runs the function directly; commit/rollback behavior is
// modeled by the returned error.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// MockEventRecorder is a mock implementation of EventRecorder
type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, eventType string, payload map[string]any) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

// failingStore fails every operation, simulating a cache outage.
type failingStore struct{}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, assert.AnError
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return assert.AnError
}

func (f *failingStore) DeletePattern(ctx context.Context, prefix string) error {
	return assert.AnError
}

func (f *failingStore) Ping(ctx context.Context) error { return assert.AnError }
func (f *failingStore) Close() error                   { return nil }

type testItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newTestCoordinator(store cache.Store, recorder EventRecorder) (*Coordinator, *fakeTxManager) {
	txManager := &fakeTxManager{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCoordinator(txManager, store, recorder, time.Minute, logger, nil), txManager
}

func TestReadThrough_MissThenHit(t *testing.T) {
	store := cache.NewMemoryStore()
	coordinator, _ := newTestCoordinator(store, nil)
	ctx := context.Background()

	loaderCalls := 0
	loader := func(ctx context.Context) ([]testItem, error) {
		loaderCalls++
		return []testItem{{ID: 1, Name: "Phone", Price: 500}}, nil
	}

	// First read misses and hits the loader.
	value, err := ReadThrough(ctx, coordinator, cache.ProductListKey(0, 100), loader)
	require.NoError(t, err)
	assert.Equal(t, []testItem{{ID: 1, Name: "Phone", Price: 500}}, value)
	assert.Equal(t, 1, loaderCalls)

	// Second identical read is served from cache without the loader.
	value, err = ReadThrough(ctx, coordinator, cache.ProductListKey(0, 100), loader)
	require.NoError(t, err)
	assert.Equal(t, []testItem{{ID: 1, Name: "Phone", Price: 500}}, value)
	assert.Equal(t, 1, loaderCalls)
}

func TestReadThrough_LoaderError(t *testing.T) {
	store := cache.NewMemoryStore()
	coordinator, _ := newTestCoordinator(store, nil)

	_, err := ReadThrough(context.Background(), coordinator, "products:0:100",
		func(ctx context.Context) ([]testItem, error) {
			return nil, assert.AnError
		})
	assert.ErrorIs(t, err, assert.AnError)

	// Nothing was cached for the failed load.
	_, err = store.Get(context.Background(), "products:0:100")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestReadThrough_CacheOutageFallsBack(t *testing.T) {
	coordinator, _ := newTestCoordinator(&failingStore{}, nil)

	loaderCalls := 0
	value, err := ReadThrough(context.Background(), coordinator, "products:0:100",
		func(ctx context.Context) (testItem, error) {
			loaderCalls++
			return testItem{ID: 1, Name: "Phone", Price: 500}, nil
		})

	// A cache outage degrades performance, never correctness.
	require.NoError(t, err)
	assert.Equal(t, testItem{ID: 1, Name: "Phone", Price: 500}, value)
	assert.Equal(t, 1, loaderCalls)
}

func TestReadThrough_TTLBound(t *testing.T) {
	store := cache.NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	coordinator, _ := newTestCoordinator(store, nil)
	ctx := context.Background()

	loaderCalls := 0
	loader := func(ctx context.Context) (testItem, error) {
		loaderCalls++
		return testItem{ID: 1}, nil
	}

	_, err := ReadThrough(ctx, coordinator, "products:id:1", loader)
	require.NoError(t, err)
	require.Equal(t, 1, loaderCalls)

	// Within the TTL the entry is served.
	now = now.Add(30 * time.Second)
	_, err = ReadThrough(ctx, coordinator, "products:id:1", loader)
	require.NoError(t, err)
	assert.Equal(t, 1, loaderCalls)

	// Past the TTL the loader runs again even without invalidation.
	now = now.Add(31 * time.Second)
	_, err = ReadThrough(ctx, coordinator, "products:id:1", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, loaderCalls)
}

func TestWrite_CommitInvalidatesOwnerPrefix(t *testing.T) {
	store := cache.NewMemoryStore()
	recorder := &MockEventRecorder{}
	coordinator, txManager := newTestCoordinator(store, recorder)
	ctx := context.Background()

	// Seed cache entries for two owners under several filter combinations.
	require.NoError(t, store.Set(ctx, cache.OrderListKey(1, "", 0, 100), []byte("old"), time.Minute))
	require.NoError(t, store.Set(ctx, cache.OrderListKey(1, "pending", 20, 50), []byte("old"), time.Minute))
	require.NoError(t, store.Set(ctx, cache.OrderListKey(2, "", 0, 100), []byte("other"), time.Minute))

	recorder.On("Record", mock.Anything, "order_created", mock.Anything).Return(nil)

	event := &Event{Type: "order_created", Payload: map[string]any{"id": int64(10)}}
	err := coordinator.Write(ctx, event, []string{cache.OrderOwnerPattern(1)}, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, txManager.calls)
	recorder.AssertExpectations(t)

	// No filter combination survives for the written owner.
	_, err = store.Get(ctx, cache.OrderListKey(1, "", 0, 100))
	assert.ErrorIs(t, err, cache.ErrMiss)
	_, err = store.Get(ctx, cache.OrderListKey(1, "pending", 20, 50))
	assert.ErrorIs(t, err, cache.ErrMiss)

	// The other owner's entries are untouched.
	_, err = store.Get(ctx, cache.OrderListKey(2, "", 0, 100))
	assert.NoError(t, err)
}

func TestWrite_MutationFailureHasNoSideEffects(t *testing.T) {
	store := cache.NewMemoryStore()
	recorder := &MockEventRecorder{}
	coordinator, _ := newTestCoordinator(store, recorder)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, cache.ProductListKey(0, 100), []byte("cached"), time.Minute))

	event := &Event{Type: "order_created", Payload: map[string]any{}}
	err := coordinator.Write(ctx, event, []string{cache.ProductPattern()}, func(ctx context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	// The cache entry survives and no event was recorded.
	_, err = store.Get(ctx, cache.ProductListKey(0, 100))
	assert.NoError(t, err)
	recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestWrite_EventRecordFailureAbortsWrite(t *testing.T) {
	store := cache.NewMemoryStore()
	recorder := &MockEventRecorder{}
	coordinator, _ := newTestCoordinator(store, recorder)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, cache.ProductListKey(0, 100), []byte("cached"), time.Minute))

	recorder.On("Record", mock.Anything, "order_created", mock.Anything).Return(assert.AnError)

	event := &Event{Type: "order_created", Payload: map[string]any{}}
	err := coordinator.Write(ctx, event, []string{cache.ProductPattern()}, func(ctx context.Context) error {
		return nil
	})
	assert.Error(t, err)

	// The transaction rolled back, so the cache was not invalidated.
	_, err = store.Get(ctx, cache.ProductListKey(0, 100))
	assert.NoError(t, err)
}

func TestWrite_InvalidationFailureDoesNotFailWrite(t *testing.T) {
	recorder := &MockEventRecorder{}
	coordinator, _ := newTestCoordinator(&failingStore{}, recorder)

	err := coordinator.Write(context.Background(), nil, []string{cache.ProductPattern()},
		func(ctx context.Context) error { return nil })

	// The committed write succeeds even when the cache store is unreachable;
	// staleness is bounded by the TTL.
	assert.NoError(t, err)
}

func TestWrite_NoEvent(t *testing.T) {
	store := cache.NewMemoryStore()
	coordinator, _ := newTestCoordinator(store, nil)

	mutated := false
	err := coordinator.Write(context.Background(), nil, nil, func(ctx context.Context) error {
		mutated = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, mutated)
}

func TestWriteThenRead_NoStaleData(t *testing.T) {
	store := cache.NewMemoryStore()
	recorder := &MockEventRecorder{}
	coordinator, _ := newTestCoordinator(store, recorder)
	ctx := context.Background()

	price := 500.0
	loader := func(ctx context.Context) (testItem, error) {
		return testItem{ID: 1, Name: "Phone", Price: price}, nil
	}

	// Populate the cache, then commit a price change.
	value, err := ReadThrough(ctx, coordinator, cache.ProductKey(1), loader)
	require.NoError(t, err)
	assert.Equal(t, 500.0, value.Price)

	err = coordinator.Write(ctx, nil, []string{cache.ProductPattern()}, func(ctx context.Context) error {
		price = 450.0
		return nil
	})
	require.NoError(t, err)

	// A read after completed invalidation never returns pre-write data.
	value, err = ReadThrough(ctx, coordinator, cache.ProductKey(1), loader)
	require.NoError(t, err)
	assert.Equal(t, 450.0, value.Price)
}
