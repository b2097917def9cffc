package handlers

import (
	"github.com/sanctuary/backend/internal/cache"
	"github.com/sanctuary/backend/internal/middleware"
)

// RedisThrottle shares login attempt budgets across replicas.
type RedisThrottle struct {
	client *cache.RedisClient
	action string
	rate   int
	burst  int
}

func NewRedisThrottle(client *cache.RedisClient, action string, perSecond, burst int) *RedisThrottle {
	return &RedisThrottle{client: client, action: action, rate: perSecond, burst: burst}
}

func (t *RedisThrottle) Allow(subject string) (bool, error) {
	return t.client.AllowAction(subject, t.action, t.rate, t.burst)
}

// LocalThrottle is the single-process fallback used without Redis.
type LocalThrottle struct {
	limiter *middleware.RateLimiter
}

func NewLocalThrottle(perMinute, burst int) *LocalThrottle {
	return &LocalThrottle{limiter: middleware.NewRateLimiter(perMinute, burst)}
}

func (t *LocalThrottle) Allow(subject string) (bool, error) {
	return t.limiter.Allow(subject), nil
}

// Limiter exposes the underlying limiter so callers can prune it.
func (t *LocalThrottle) Limiter() *middleware.RateLimiter {
	return t.limiter
}
