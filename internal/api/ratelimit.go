package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/cinemood/pkg/redis"
)

// ClientLimiter enforces a per-client request budget.
// Redis sliding window when Redis is enabled (shared across replicas),
// otherwise an in-process token bucket per client.
type ClientLimiter struct {
	perMinute int
	redis     *redis.RateLimiter

	mu        sync.Mutex
	buckets   map[string]*clientBucket
	lastSweep time.Time
	now       func() time.Time
}

// clientBucket is one client's token bucket and when it was last used
type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a limiter; perMinute <= 0 returns nil (disabled)
func NewClientLimiter(perMinute int, rl *redis.RateLimiter) *ClientLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &ClientLimiter{
		perMinute: perMinute,
		redis:     rl,
		buckets:   make(map[string]*clientBucket),
		now:       time.Now,
	}
}

// Window is the budget period
func (l *ClientLimiter) Window() time.Duration {
	return time.Minute
}

// Allow reports whether the client may make one more request
func (l *ClientLimiter) Allow(ctx context.Context, client string) (bool, error) {
	if l.redis != nil && l.redis.Enabled() {
		allowed, _, err := l.redis.Allow(ctx, redis.APIRateLimit(client, l.perMinute))
		return allowed, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[client]
	if !ok {
		// perMinute 토큰을 1분에 걸쳐 보충, 버스트 = perMinute
		b = &clientBucket{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute),
		}
		l.buckets[client] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// sweep drops buckets idle for longer than Window(), at most once per Window().
// An idle bucket has refilled to its burst, so a fresh one behaves identically.
// Caller holds l.mu.
func (l *ClientLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.Window() {
		return
	}
	l.lastSweep = now

	for client, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.Window() {
			delete(l.buckets, client)
		}
	}
}
