// Package cache provides the entity cache used by the services: a
// get / put / invalidate contract with an expiring in-memory store and a
// Redis store behind it. Expiry and eviction belong to the backing library.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Store is a key/value cache holding JSON-encodable values.
type Store interface {
	// Get decodes the value stored under key into dest.
	// Returns false on a cache miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key with the store's time to live.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Stats returns a snapshot of the store's counters.
	Stats() StatsSnapshot
}

// ProductKey returns the cache key of a product.
func ProductKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// NeedKey returns the cache key of a need.
func NeedKey(id int64) string {
	return fmt.Sprintf("need:%d", id)
}

// stats tracks cache statistics.
type stats struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	sets      atomic.Uint64
	deletes   atomic.Uint64
	evictions atomic.Uint64
	errors    atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of the cache statistics.
type StatsSnapshot struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Sets      uint64  `json:"sets"`
	Deletes   uint64  `json:"deletes"`
	Evictions uint64  `json:"evictions"`
	Errors    uint64  `json:"errors"`
	Entries   int     `json:"entries"`
	HitRate   float64 `json:"hit_rate"`
}

func (s *stats) snapshot(entries int) StatsSnapshot {
	hits := s.hits.Load()
	misses := s.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return StatsSnapshot{
		Hits:      hits,
		Misses:    misses,
		Sets:      s.sets.Load(),
		Deletes:   s.deletes.Load(),
		Evictions: s.evictions.Load(),
		Errors:    s.errors.Load(),
		Entries:   entries,
		HitRate:   hitRate,
	}
}

// NopStore never holds anything. It is used when caching is disabled.
type NopStore struct{}

// Get always reports a miss.
func (NopStore) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set discards the value.
func (NopStore) Set(context.Context, string, any) error { return nil }

// Delete does nothing.
func (NopStore) Delete(context.Context, ...string) error { return nil }

// Stats returns zero counters.
func (NopStore) Stats() StatsSnapshot { return StatsSnapshot{} }
