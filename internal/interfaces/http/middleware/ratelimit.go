package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window request counter keyed by caller identity.
// State lives in process memory, so limits apply per instance rather than
// across a fleet.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	limit    int
	window   time.Duration
}

type bucket struct {
	remaining   int
	windowStart time.Time
}

// NewRateLimiter allows up to limit requests per key within each window.
// A background sweep drops keys that have been idle for two windows.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*bucket),
		limit:    limit,
		window:   window,
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.window * 2)
		rl.mu.Lock()
		for key, b := range rl.visitors {
			if b.windowStart.Before(cutoff) {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow consumes one request from the key's budget and reports whether the
// request may proceed. The window resets lazily on the first request after
// it elapses.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.visitors[key]
	if !ok || now.Sub(b.windowStart) >= rl.window {
		rl.visitors[key] = &bucket{
			remaining:   rl.limit - 1,
			windowStart: now,
		}
		return true
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining reports how many requests the key has left in its current
// window without consuming any.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[key]
	if !ok || time.Since(b.windowStart) >= rl.window {
		return rl.limit
	}
	return b.remaining
}

// RateLimit limits requests per client IP, rejecting over-budget callers
// with 429 and advertising the budget via X-RateLimit headers.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests. Please try again later.",
				},
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}
