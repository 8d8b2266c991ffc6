package cache_test

import (
	"context"
	"testing"
	"time"

	"grindtrack/internal/domain/model"
	"grindtrack/internal/platform/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*cache.RedisDailyCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisDailyCache(client), mr
}

func sampleEntry(owner, day string) *model.CacheEntry {
	sub := "Two Pointers"
	return &model.CacheEntry{
		Owner: owner,
		Day:   day,
		Recommended: []model.RecommendationCandidate{
			{
				ProblemName: "THREE SUM",
				Topic:       "Arrays",
				Subtopic:    &sub,
				Difficulty:  model.DifficultyMedium,
				Link:        "https://leetcode.com/problems/3sum",
				SolvedAt:    time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC),
				Score:       1.4,
			},
			{
				ProblemName: "VALID PARENS",
				Topic:       "Strings",
				Difficulty:  model.DifficultyEasy,
				SolvedAt:    time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
				Score:       1.0,
			},
		},
	}
}

func TestRedisDailyCacheRoundtrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	entry := sampleEntry("alice", "2024-03-10")
	require.NoError(t, c.Put(ctx, entry))

	got, ok, err := c.Get(ctx, "alice", "2024-03-10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, got)
}

func TestRedisDailyCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	got, ok, err := c.Get(context.Background(), "alice", "2024-03-10")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisDailyCacheKeysAreScoped(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, sampleEntry("alice", "2024-03-10")))

	// different owner, different day: both miss
	_, ok, err := c.Get(ctx, "bob", "2024-03-10")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, "alice", "2024-03-11")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDailyCacheOverwrite(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	first := sampleEntry("alice", "2024-03-10")
	require.NoError(t, c.Put(ctx, first))

	second := sampleEntry("alice", "2024-03-10")
	second.Recommended = second.Recommended[:1]
	require.NoError(t, c.Put(ctx, second))

	got, ok, err := c.Get(ctx, "alice", "2024-03-10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Recommended, 1)
}

func TestRedisDailyCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, sampleEntry("alice", "2024-03-10")))
	mr.FastForward(49 * time.Hour)

	_, ok, err := c.Get(ctx, "alice", "2024-03-10")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDailyCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set("rec:alice:2024-03-10", "{not json"))

	got, ok, err := c.Get(context.Background(), "alice", "2024-03-10")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}
