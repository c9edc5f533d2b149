package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/cinemood/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")
	cfg := APIRateLimit("127.0.0.1", 120)

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, cfg.Limit, remaining)
	assert.False(t, limiter.Enabled())
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	gen, err = cache.BumpGeneration(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	assert.NoError(t, cache.Delete(ctx, "key"))
	assert.False(t, cache.Enabled())
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"RecommendKey", RecommendKey(3, "0123456789abcdef", "fun", 10, 50), `recommend:g3:0123456789ab:"fun":10:50`},
		{"TitlesKey lower-cases", TitlesKey(1, "Toy Story", 20), `titles:g1:"toy story":20`},
		{"APIRateLimit key", APIRateLimit("10.0.0.1", 60).Key, "api:10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestCache_Integration(t *testing.T) {
	cfg, err := config.LoadOptionalStore()
	require.NoError(t, err)
	if !cfg.Redis.Enabled {
		t.Skip("REDIS_ENABLED not set, skipping integration test")
	}

	client, err := New(cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	cache := NewCache(client, "cinemood-test")

	before, err := cache.Generation(ctx)
	require.NoError(t, err)
	after, err := cache.BumpGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	type payload struct {
		Mood  string `json:"mood"`
		Count int    `json:"count"`
	}
	require.NoError(t, cache.Set(ctx, "roundtrip", payload{"calm", 2}, time.Minute))

	var got payload
	found, err := cache.Get(ctx, "roundtrip", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{"calm", 2}, got)
}
