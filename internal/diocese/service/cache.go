package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	platformredis "chancery/internal/platform/redis"
	"chancery/pkg/domain"
)

// Cache is the byte-level interface the aggregator caches through. A miss is
// reported as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// redisCache adapts the platform redis client to Cache.
type redisCache struct {
	client *platformredis.Client
}

// NewRedisCache wraps the shared redis client for use as an aggregation
// cache. Returns nil when the client is nil so callers can pass the result
// straight to WithCache.
func NewRedisCache(client *platformredis.Client) Cache {
	if client == nil {
		return nil
	}
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// listingCache is a read-through cache over the aggregated diocese listing.
// Misses and redis failures both fall through to a live fetch.
type listingCache struct {
	cache Cache
	ttl   time.Duration
}

func newListingCache(cache Cache, ttl time.Duration) *listingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &listingCache{cache: cache, ttl: ttl}
}

func cacheKey(dioceseID domain.DioceseID) string {
	return fmt.Sprintf("chancery:diocese:%s:decrees", dioceseID)
}

func (c *listingCache) get(ctx context.Context, dioceseID domain.DioceseID) ([]AggregatedDecree, bool) {
	raw, ok, err := c.cache.Get(ctx, cacheKey(dioceseID))
	if err != nil || !ok {
		return nil, false
	}
	var decrees []AggregatedDecree
	if err := json.Unmarshal(raw, &decrees); err != nil {
		return nil, false
	}
	return decrees, true
}

func (c *listingCache) put(ctx context.Context, dioceseID domain.DioceseID, decrees []AggregatedDecree) {
	raw, err := json.Marshal(decrees)
	if err != nil {
		return
	}
	// Best effort. The next read simply misses if the write failed.
	_ = c.cache.Set(ctx, cacheKey(dioceseID), raw, c.ttl)
}

// Invalidate drops the cached listing for a diocese. Decree mutations call it
// so the chancery view converges without waiting out the TTL.
func (a *Aggregator) Invalidate(ctx context.Context, dioceseID domain.DioceseID) {
	if a.cache == nil {
		return
	}
	if err := a.cache.cache.Del(ctx, cacheKey(dioceseID)); err != nil {
		a.logger.WarnContext(ctx, "failed to invalidate diocese listing cache",
			"diocese_id", dioceseID, "error", err)
	}
}
