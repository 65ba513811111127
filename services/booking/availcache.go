package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slotify/utils"

	"github.com/go-redis/redis/v8"
)

// AvailabilityCache holds short-lived availability results. Staleness is
// bounded by the TTL and is acceptable for browse traffic; the lock path
// re-checks capacity atomically regardless of what was cached.
type AvailabilityCache interface {
	Get(ctx context.Context, key string) (*AvailabilityResult, error)
	Set(ctx context.Context, key string, result AvailabilityResult, ttl time.Duration) error
}

// RedisAvailabilityCache implements AvailabilityCache on the generic cache DB.
type RedisAvailabilityCache struct {
	Client *redis.Client
}

// NewRedisAvailabilityCache returns a cache bound to the shared cache client.
func NewRedisAvailabilityCache() *RedisAvailabilityCache {
	return &RedisAvailabilityCache{Client: utils.GetCacheClient()}
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, key string) (*AvailabilityResult, error) {
	data, err := c.Client.Get(ctx, utils.AvailabilityCachePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cached availability: %w", err)
	}
	var result AvailabilityResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to parse cached availability: %w", err)
	}
	return &result, nil
}

func (c *RedisAvailabilityCache) Set(ctx context.Context, key string, result AvailabilityResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}
	if err := c.Client.Set(ctx, utils.AvailabilityCachePrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache availability: %w", err)
	}
	return nil
}
