package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Enabled reports whether cache calls reach Redis
func (c *Cache) Enabled() bool {
	return c.client.Enabled()
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

func (c *Cache) generationKey() string {
	return fmt.Sprintf("%s:generation", c.prefix)
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// Generation returns the current catalog generation (0 if never bumped)
// 카탈로그 교체 시마다 증가, 캐시 키에 포함되어 이전 결과를 무효화
func (c *Cache) Generation(ctx context.Context) (int64, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	gen, err := c.client.Redis().Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read generation: %w", err)
	}
	return gen, nil
}

// BumpGeneration increments the catalog generation after a successful rebuild
func (c *Cache) BumpGeneration(ctx context.Context) (int64, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	gen, err := c.client.Redis().Incr(ctx, c.generationKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("bump generation: %w", err)
	}
	return gen, nil
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // 제목 검색
	TTLMedium = 10 * time.Minute // 추천 결과
	TTLLong   = 1 * time.Hour    // 무드 테이블
)

// RecommendKey builds the cache key of one recommendation request.
// mood must already be normalized (trimmed, lower-cased); tableHash identifies the mood table.
func RecommendKey(generation int64, tableHash, mood string, k int, minCount int64) string {
	if len(tableHash) > 12 {
		tableHash = tableHash[:12]
	}
	return fmt.Sprintf("recommend:g%d:%s:%s:%d:%d", generation, tableHash, strconv.Quote(mood), k, minCount)
}

// TitlesKey builds the cache key of one title search
func TitlesKey(generation int64, query string, limit int) string {
	return fmt.Sprintf("titles:g%d:%s:%d", generation, strconv.Quote(strings.ToLower(query)), limit)
}
