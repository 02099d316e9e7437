package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/certtrack/certification-system/internal/api/metrics"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// Store is the Redis-backed KV store. Each key holds one JSON document,
// written whole with no TTL; a SET unconditionally replaces the previous
// value, which is exactly the last-write-wins contract of the port.
type Store struct {
	client *redis.Client
}

// NewStore creates a Store wrapping the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	defer s.observe("get", time.Now())

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	defer s.observe("set", time.Now())

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	defer s.observe("delete", time.Now())

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) observe(op string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(op, "redis").Observe(time.Since(start).Seconds())
}
