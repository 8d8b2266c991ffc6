package service

import (
	"context"
	"sync"

	"grindtrack/internal/domain/model"
)

// DailyCache memoizes one ranked list per (owner, UTC day). Put overwrites:
// the last write for a key wins. Implementations must be safe for concurrent
// use. Backends: MemoryDailyCache here, RedisDailyCache in platform/cache.
type DailyCache interface {
	Get(ctx context.Context, owner, day string) (*model.CacheEntry, bool, error)
	Put(ctx context.Context, entry *model.CacheEntry) error
}

// MemoryDailyCache is the default in-process backend. Entries for past days
// are never looked up again but are not evicted either; at one entry per user
// per day this stays small for the intended single-process deployment.
type MemoryDailyCache struct {
	mu      sync.RWMutex
	entries map[string]model.CacheEntry
}

func NewMemoryDailyCache() *MemoryDailyCache {
	return &MemoryDailyCache{entries: make(map[string]model.CacheEntry)}
}

func memoryKey(owner, day string) string {
	return owner + "|" + day
}

func (c *MemoryDailyCache) Get(_ context.Context, owner, day string) (*model.CacheEntry, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[memoryKey(owner, day)]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	// Copy the slice so callers stamping solved flags never touch the
	// stored entry.
	out := entry
	out.Recommended = append([]model.RecommendationCandidate(nil), entry.Recommended...)
	return &out, true, nil
}

func (c *MemoryDailyCache) Put(_ context.Context, entry *model.CacheEntry) error {
	stored := *entry
	stored.Recommended = append([]model.RecommendationCandidate(nil), entry.Recommended...)
	c.mu.Lock()
	c.entries[memoryKey(entry.Owner, entry.Day)] = stored
	c.mu.Unlock()
	return nil
}
