package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "key", []byte(`{"id":1}`), time.Minute))

	value, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), value)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "key", []byte("value"), 60*time.Second))

	// Just before expiry the entry is still served.
	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, "key")
	assert.NoError(t, err)

	// Past the TTL the entry must not be served, even without invalidation.
	now = now.Add(2 * time.Second)
	_, err = store.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_DeletePattern(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, OrderListKey(1, "", 0, 100), []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, OrderListKey(1, "pending", 0, 100), []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, OrderListKey(2, "", 0, 100), []byte("c"), time.Minute))

	require.NoError(t, store.DeletePattern(ctx, OrderOwnerPattern(1)))

	_, err := store.Get(ctx, OrderListKey(1, "", 0, 100))
	assert.ErrorIs(t, err, ErrMiss)
	_, err = store.Get(ctx, OrderListKey(1, "pending", 0, 100))
	assert.ErrorIs(t, err, ErrMiss)

	// Other owners' entries survive.
	_, err = store.Get(ctx, OrderListKey(2, "", 0, 100))
	assert.NoError(t, err)
}
