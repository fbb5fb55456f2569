package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "operator-journal:feed:"

// FeedCache stores normalized provider responses for a bounded time.
//
// Get reports false on a miss. Implementations must treat an unreachable
// backend as an error, not as a miss, so callers can log it.
type FeedCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// RedisFeedCache keeps JSON-encoded values in Redis with a TTL.
type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFeedCache(client *redis.Client, ttl time.Duration) *RedisFeedCache {
	return &RedisFeedCache{client: client, ttl: ttl}
}

// CacheKey namespaces a feed name, e.g. "beehiiv" or "posts".
func CacheKey(name string) string {
	return keyPrefix + name
}

func (c *RedisFeedCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, CacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("feed cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("feed cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisFeedCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("feed cache encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, CacheKey(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("feed cache set %s: %w", key, err)
	}
	return nil
}

// NoopFeedCache never stores anything. It is used when caching is disabled
// or Redis is not configured.
type NoopFeedCache struct{}

func (NoopFeedCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (NoopFeedCache) Set(context.Context, string, any) error { return nil }
