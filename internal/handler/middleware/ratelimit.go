package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"storefront-backend/internal/pkg/clock"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory token bucket keyed by client. Counters live in
// this process only, so limits are per instance, not global.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	limit   int
	window  time.Duration
	clock   clock.Clock
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration, clk clock.Clock) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		clock:   clk,
	}
}

// Allow consumes one token for key, refilling the bucket when the window has
// elapsed. It also drops buckets idle for two windows to bound memory.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	rl.evictStale(now)

	b, exists := rl.clients[key]
	if !exists {
		rl.clients[key] = &bucket{
			tokens:    rl.limit - 1,
			lastReset: now,
		}
		return true
	}

	if now.Sub(b.lastReset) >= rl.window {
		b.tokens = rl.limit - 1
		b.lastReset = now
		return true
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.clients[key]
	if !exists {
		return rl.limit
	}

	if rl.clock.Now().Sub(b.lastReset) >= rl.window {
		return rl.limit
	}

	return b.tokens
}

func (rl *RateLimiter) evictStale(now time.Time) {
	for key, b := range rl.clients {
		if now.Sub(b.lastReset) > rl.window*2 {
			delete(rl.clients, key)
		}
	}
}

// RateLimit rejects requests above the limit with 429 and advertises the
// budget through X-RateLimit headers.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", limiter.Remaining(key)))

		c.Next()
	}
}
