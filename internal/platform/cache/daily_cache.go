package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grindtrack/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// Entries only need to survive their own calendar day; 48h comfortably covers
// the day plus clock drift, and the TTL keeps total key count bounded.
const dailyEntryTTL = 48 * time.Hour

// RedisDailyCache stores one recommendation list per (owner, UTC day) as a
// JSON value. It satisfies the recommendation service's DailyCache interface.
type RedisDailyCache struct {
	client *redis.Client
}

func NewRedisDailyCache(client *redis.Client) *RedisDailyCache {
	return &RedisDailyCache{client: client}
}

func dailyKey(owner, day string) string {
	return fmt.Sprintf("rec:%s:%s", owner, day)
}

func (c *RedisDailyCache) Get(ctx context.Context, owner, day string) (*model.CacheEntry, bool, error) {
	val, err := c.client.Get(ctx, dailyKey(owner, day)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("RedisDailyCache.Get: %w", err)
	}

	entry := &model.CacheEntry{}
	if err := json.Unmarshal([]byte(val), entry); err != nil {
		// A corrupt entry is indistinguishable from a miss; recompute.
		return nil, false, nil
	}
	return entry, true, nil
}

func (c *RedisDailyCache) Put(ctx context.Context, entry *model.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("RedisDailyCache.Put marshal: %w", err)
	}
	if err := c.client.Set(ctx, dailyKey(entry.Owner, entry.Day), data, dailyEntryTTL).Err(); err != nil {
		return fmt.Errorf("RedisDailyCache.Put: %w", err)
	}
	return nil
}
