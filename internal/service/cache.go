package service

import (
	"context"

	"product-needs/internal/cache"

	"github.com/rs/zerolog"
)

// entityCache wraps a cache.Store so that cache failures are logged and
// otherwise ignored: the database stays the source of truth.
type entityCache struct {
	store  cache.Store
	logger zerolog.Logger
}

func newEntityCache(store cache.Store, logger zerolog.Logger) entityCache {
	if store == nil {
		store = cache.NopStore{}
	}
	return entityCache{store: store, logger: logger}
}

func (c entityCache) get(ctx context.Context, key string, dest any) bool {
	found, err := c.store.Get(ctx, key, dest)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	return found
}

func (c entityCache) set(ctx context.Context, key string, value any) {
	if err := c.store.Set(ctx, key, value); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c entityCache) evict(ctx context.Context, keys ...string) {
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("cache eviction failed")
	}
}
