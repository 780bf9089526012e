package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process Store bounded by entry count and time to live.
// Values are kept JSON-encoded so callers never share mutable state.
type MemoryStore struct {
	lru   *expirable.LRU[string, []byte]
	stats *stats
}

// The LRU reports explicit removals through the eviction callback as well;
// Stats subtracts deletes to leave expiry and capacity evictions only.

// NewMemoryStore creates a store holding at most maxEntries values for ttl each.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	s := &MemoryStore{stats: &stats{}}
	s.lru = expirable.NewLRU[string, []byte](maxEntries, func(string, []byte) {
		s.stats.evictions.Add(1)
	}, ttl)
	return s
}

// Get decodes the value stored under key into dest.
func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	data, ok := s.lru.Get(key)
	if !ok {
		s.stats.misses.Add(1)
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.stats.errors.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	s.stats.hits.Add(1)
	return true, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.stats.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	s.lru.Add(key, data)
	s.stats.sets.Add(1)
	return nil
}

// Delete removes the given keys.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if s.lru.Remove(key) {
			s.stats.deletes.Add(1)
		}
	}
	return nil
}

// Stats returns a snapshot of the store's counters.
func (s *MemoryStore) Stats() StatsSnapshot {
	snap := s.stats.snapshot(s.lru.Len())
	if snap.Evictions >= snap.Deletes {
		snap.Evictions -= snap.Deletes
	} else {
		snap.Evictions = 0
	}
	return snap
}
