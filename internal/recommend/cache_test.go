package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/config"
	"github.com/wonny/cinemood/pkg/logger"
	"github.com/wonny/cinemood/pkg/redis"
)

type countingRecommender struct {
	recommends int
	searches   int
}

func (c *countingRecommender) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	c.recommends++
	return &Recommendation{Mood: NormalizeMood(req.Mood), GenresFilter: []string{}, K: req.K, MinCount: req.MinCount, Items: []Item{}}, nil
}

func (c *countingRecommender) Search(ctx context.Context, query string, limit int) ([]contracts.MovieMeta, error) {
	c.searches++
	return []contracts.MovieMeta{}, nil
}

func (c *countingRecommender) Moods() *MoodTable {
	return DefaultMoodTable()
}

func TestCachedRecommender_DisabledPassThrough(t *testing.T) {
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)

	next := &countingRecommender{}
	cached := NewCachedRecommender(next, redis.NewCache(client, "test"), time.Minute, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec, err := cached.Recommend(ctx, Request{Mood: "Calm", K: 5})
		require.NoError(t, err)
		assert.Equal(t, "calm", rec.Mood)

		_, err = cached.Search(ctx, "toy", 5)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, next.recommends, "every call reaches the engine")
	assert.Equal(t, 3, next.searches)
	assert.Equal(t, DefaultMoodTable().Hash(), cached.Moods().Hash())
}

func TestCachedRecommender_Integration(t *testing.T) {
	cfg, err := config.LoadOptionalStore()
	require.NoError(t, err)
	if !cfg.Redis.Enabled {
		t.Skip("REDIS_ENABLED not set, skipping integration test")
	}

	client, err := redis.New(cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	cache := redis.NewCache(client, "cinemood-test-recommend")
	_, err = cache.BumpGeneration(ctx)
	require.NoError(t, err)

	next := &countingRecommender{}
	cached := NewCachedRecommender(next, cache, time.Minute, logger.NewNop())

	_, err = cached.Recommend(ctx, Request{Mood: "fun", K: 7})
	require.NoError(t, err)
	_, err = cached.Recommend(ctx, Request{Mood: " FUN", K: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, next.recommends, "normalized mood shares a cache entry")

	_, err = cache.BumpGeneration(ctx)
	require.NoError(t, err)
	_, err = cached.Recommend(ctx, Request{Mood: "fun", K: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, next.recommends, "a new generation misses")
}
