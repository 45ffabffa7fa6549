package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/local-guide/service-booking/internal/domain/listing"
)

// ListingCache is a Redis read-through cache for listings. The registry is
// read on every booking creation and mutated rarely, so entries live until the
// TTL or an explicit invalidation on listing update.
type ListingCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewListingCache creates a ListingCache with the given TTL.
func NewListingCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl, logger: logger}
}

func listingKey(id uuid.UUID) string {
	return "listing:" + id.String()
}

// Get returns the cached listing, or nil on a miss. Cache failures are
// logged and treated as misses.
func (c *ListingCache) Get(ctx context.Context, id uuid.UUID) *listing.Listing {
	raw, err := c.rdb.Get(ctx, listingKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("listing cache read failed", zap.Error(err))
		}
		return nil
	}

	var l listing.Listing
	if err := json.Unmarshal(raw, &l); err != nil {
		c.logger.Warn("listing cache entry corrupt, dropping", zap.Error(err))
		_ = c.rdb.Del(ctx, listingKey(id)).Err()
		return nil
	}
	return &l
}

// Set stores the listing. Failures are logged and ignored.
func (c *ListingCache) Set(ctx context.Context, l *listing.Listing) {
	raw, err := json.Marshal(l)
	if err != nil {
		c.logger.Warn("failed to marshal listing for cache", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, listingKey(l.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("listing cache write failed", zap.Error(err))
	}
}

// Invalidate removes the cached entry for the listing.
func (c *ListingCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, listingKey(id)).Err(); err != nil {
		c.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}
