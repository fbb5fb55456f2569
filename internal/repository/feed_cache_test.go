package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/operator-journal/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopFeedCache(t *testing.T) {
	cache := NoopFeedCache{}
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "kit", []model.FeedItem{{Title: "x"}}))

	var items []model.FeedItem
	hit, err := cache.Get(ctx, "kit", &items)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, items)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "operator-journal:feed:beehiiv", CacheKey("beehiiv"))
}

// TestRedisFeedCache runs against a real Redis when SITE_TEST_REDIS_ADDRESS
// is set.
func TestRedisFeedCache(t *testing.T) {
	addr := os.Getenv("SITE_TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("SITE_TEST_REDIS_ADDRESS not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	key := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { client.Del(ctx, CacheKey(key)) })

	cache := NewRedisFeedCache(client, time.Minute)

	var miss []model.FeedItem
	hit, err := cache.Get(ctx, key, &miss)
	require.NoError(t, err)
	assert.False(t, hit)

	want := []model.FeedItem{{Title: "First post", Link: "https://kit.example/posts/first", Slug: "first"}}
	require.NoError(t, cache.Set(ctx, key, want))

	var got []model.FeedItem
	hit, err = cache.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, CacheKey(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
