package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeedCache(t *testing.T) (*FeedCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewFeedCache(NewClientFromRedis(rdb)), mr
}

func TestFeedCacheRoundTrip(t *testing.T) {
	fc, _ := newTestFeedCache(t)
	ctx := context.Background()

	posts := []models.Post{
		{ID: 1, UserID: 7, Caption: "first"},
		{ID: 2, UserID: 8, Caption: "second"},
	}

	_, ok := fc.Get(ctx, 7, 0, 10)
	assert.False(t, ok, "empty cache must miss")

	fc.Set(ctx, 7, 0, 10, posts)

	got, ok := fc.Get(ctx, 7, 0, 10)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Caption)

	// Different page and different user are separate entries.
	_, ok = fc.Get(ctx, 7, 10, 10)
	assert.False(t, ok)
	_, ok = fc.Get(ctx, 8, 0, 10)
	assert.False(t, ok)
}

func TestFeedCacheExpiry(t *testing.T) {
	fc, mr := newTestFeedCache(t)
	ctx := context.Background()

	fc.Set(ctx, 7, 0, 10, []models.Post{{ID: 1}})
	mr.FastForward(feedTTL + 1)

	_, ok := fc.Get(ctx, 7, 0, 10)
	assert.False(t, ok, "entry must age out after the TTL")
}

func TestFeedCacheInvalidate(t *testing.T) {
	fc, _ := newTestFeedCache(t)
	ctx := context.Background()

	fc.Set(ctx, 7, 0, 10, []models.Post{{ID: 1}})
	fc.Set(ctx, 8, 0, 10, []models.Post{{ID: 2}})

	fc.Invalidate(ctx, 7)

	_, ok := fc.Get(ctx, 7, 0, 10)
	assert.False(t, ok)
	_, ok = fc.Get(ctx, 8, 0, 10)
	assert.True(t, ok, "other users' entries survive")
}

func TestFeedCacheDisabled(t *testing.T) {
	fc := NewFeedCache(nil)
	ctx := context.Background()

	fc.Set(ctx, 7, 0, 10, []models.Post{{ID: 1}})
	_, ok := fc.Get(ctx, 7, 0, 10)
	assert.False(t, ok, "a nil client always misses")
	fc.Invalidate(ctx, 7)
}
