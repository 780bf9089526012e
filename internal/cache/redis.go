package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"product-needs/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. Keys are namespaced with prefix and
// expire after ttl.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	stats  *stats
}

// NewRedisClient creates a Redis client from configuration and checks it is reachable.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		stats:  &stats{},
	}
}

// Get decodes the value stored under key into dest.
func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.stats.misses.Add(1)
			return false, nil
		}
		s.stats.errors.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.stats.errors.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	s.stats.hits.Add(1)
	return true, nil
}

// Set stores value under key with the store's time to live.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.stats.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		s.stats.errors.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}

	s.stats.sets.Add(1)
	return nil
}

// Delete removes the given keys.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.prefix + key
	}

	deleted, err := s.client.Del(ctx, full...).Result()
	if err != nil {
		s.stats.errors.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}

	s.stats.deletes.Add(uint64(deleted))
	return nil
}

// Stats returns a snapshot of the store's counters. Entries is not tracked
// for Redis and is always zero.
func (s *RedisStore) Stats() StatsSnapshot {
	return s.stats.snapshot(0)
}

// Ping checks if the Redis connection is healthy.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
