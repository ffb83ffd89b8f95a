package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// entry is a value plus its absolute expiry time.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store used for tests and dependency-free
// deployments. Expiry is checked lazily on read.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]entry
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]entry),
		now:   time.Now,
	}
}

// SetClock replaces the time source. Tests use this to verify TTL behavior.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Get returns the value stored under key, or ErrMiss if absent or expired.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.store[key]
	if !ok || s.now().After(e.expiresAt) {
		return nil, ErrMiss
	}
	return e.value, nil
}

// Set stores value under key with the given TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

// DeletePattern removes every key starting with prefix.
func (s *MemoryStore) DeletePattern(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}

// Ping always succeeds for the in-process store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close discards all entries.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.store = make(map[string]entry)
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*RedisStore)(nil)
