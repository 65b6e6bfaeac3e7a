package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/refineryiq/server/pkg/logger"
)

// Limiter is a per-client token bucket. Insight queries fan out to an
// external model, so they get a tighter budget than plain reads.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &Limiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  requestsPerMinute,
		refillRate: time.Minute / time.Duration(requestsPerMinute),
	}
}

func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if !l.allow(key, time.Now()) {
			logger.Warn("rate limit exceeded",
				zap.String("ip", key),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded, try again later",
			})
		}
		return c.Next()
	}
}

func (l *Limiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.maxTokens, lastRefill: now}
		l.buckets[key] = b
	}

	refill := int(now.Sub(b.lastRefill) / l.refillRate)
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.maxTokens {
			b.tokens = l.maxTokens
		}
		b.lastRefill = now
	}

	// Stale buckets are reclaimed opportunistically while the map is held.
	if len(l.buckets) > 4096 {
		for k, old := range l.buckets {
			if now.Sub(old.lastRefill) > 10*time.Minute {
				delete(l.buckets, k)
			}
		}
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
