package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

// RedisStore implements Store on top of a redis server.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore from a redis URL
// (e.g. "redis://localhost:6379/0").
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse redis url")
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// Get returns the value stored under key, or ErrMiss if absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, apperrors.Wrap(err, "redis get failed")
	}
	return value, nil
}

// Set stores value under key with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "redis set failed")
	}
	return nil
}

// DeletePattern removes every key starting with prefix using SCAN+DEL.
// Linear in the number of keys; acceptable while the key space stays modest.
func (s *RedisStore) DeletePattern(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return apperrors.Wrap(err, "redis del failed")
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return apperrors.Wrap(err, "redis scan failed")
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return apperrors.Wrap(err, "redis del failed")
		}
	}
	return nil
}

// Ping verifies the redis server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
