package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mhasanr/linkup/backend/internal/models"
)

// feed pages are short-lived; stale counters are tolerated for this long
const feedTTL = 2 * time.Minute

// FeedCache caches serialized feed pages per user. Cache-aside: readers try
// the cache, fall back to the database, and store what they loaded. Writers
// invalidate rather than update.
type FeedCache struct {
	client *Client
}

// NewFeedCache creates a FeedCache. A nil client disables caching; every
// lookup misses and every store is a no-op.
func NewFeedCache(client *Client) *FeedCache {
	return &FeedCache{client: client}
}

func feedKey(userID uint, offset, limit int) string {
	return fmt.Sprintf("feed:%d:%d:%d", userID, offset, limit)
}

// Get returns the cached page for the user, or (nil, false) on a miss.
func (f *FeedCache) Get(ctx context.Context, userID uint, offset, limit int) ([]models.Post, bool) {
	if f.client == nil {
		return nil, false
	}
	raw, err := f.client.Get(ctx, feedKey(userID, offset, limit))
	if err != nil {
		// redis.Nil and a broken cache are both treated as a miss
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, false
	}
	return posts, true
}

// Set stores a feed page for the user. Errors are swallowed; the cache is
// an optimization, not a dependency.
func (f *FeedCache) Set(ctx context.Context, userID uint, offset, limit int, posts []models.Post) {
	if f.client == nil {
		return
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return
	}
	_ = f.client.Set(ctx, feedKey(userID, offset, limit), string(raw), feedTTL)
}

// Invalidate drops the first few cached pages for each user. Deeper pages
// age out on their own TTL.
func (f *FeedCache) Invalidate(ctx context.Context, userIDs ...uint) {
	if f.client == nil {
		return
	}
	keys := make([]string, 0, len(userIDs)*3)
	for _, id := range userIDs {
		for _, offset := range []int{0, 10, 20} {
			keys = append(keys, feedKey(id, offset, 10))
		}
	}
	_ = f.client.Delete(ctx, keys...)
}
