package recommend

import (
	"context"
	"time"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/pkg/logger"
	"github.com/wonny/cinemood/pkg/metrics"
	"github.com/wonny/cinemood/pkg/redis"
)

// CachedRecommender serves repeated requests from Redis.
// Keys carry the catalog generation, so a rebuild makes older answers unreachable.
// Redis disabled → pass-through.
type CachedRecommender struct {
	next   Recommender
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedRecommender wraps next with a Redis-backed cache
func NewCachedRecommender(next Recommender, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedRecommender {
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	return &CachedRecommender{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithComponent("recommend_cache"),
	}
}

// Moods returns the wrapped mood table
func (c *CachedRecommender) Moods() *MoodTable {
	return c.next.Moods()
}

// Recommend returns a cached recommendation or computes and stores one
func (c *CachedRecommender) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.next.Recommend(ctx, req)
	}

	key := redis.RecommendKey(gen, c.Moods().Hash(), NormalizeMood(req.Mood), req.K, req.MinCount)

	var cached Recommendation
	if found, err := c.cache.Get(ctx, key, &cached); err != nil {
		c.logger.WithError(err).Warn("Cache read failed")
	} else if found {
		metrics.RecordCache("recommend", true)
		return &cached, nil
	}
	metrics.RecordCache("recommend", false)

	rec, err := c.next.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, rec, c.ttl); err != nil {
		// Log but don't fail
		c.logger.WithError(err).Warn("Cache write failed")
	}
	return rec, nil
}

// Search returns cached title matches or queries and stores them
func (c *CachedRecommender) Search(ctx context.Context, query string, limit int) ([]contracts.MovieMeta, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.next.Search(ctx, query, limit)
	}

	key := redis.TitlesKey(gen, query, limit)

	var cached []contracts.MovieMeta
	if found, err := c.cache.Get(ctx, key, &cached); err != nil {
		c.logger.WithError(err).Warn("Cache read failed")
	} else if found {
		metrics.RecordCache("titles", true)
		return cached, nil
	}
	metrics.RecordCache("titles", false)

	movies, err := c.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, movies, redis.TTLShort); err != nil {
		c.logger.WithError(err).Warn("Cache write failed")
	}
	return movies, nil
}

// generation reports the current catalog generation; ok=false bypasses the cache
func (c *CachedRecommender) generation(ctx context.Context) (int64, bool) {
	if c.cache == nil || !c.cache.Enabled() {
		return 0, false
	}
	gen, err := c.cache.Generation(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Cache generation unavailable, bypassing cache")
		return 0, false
	}
	return gen, true
}
