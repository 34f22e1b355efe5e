package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
)

// RateLimiter is a sliding-window limiter keyed by caller identity.
type RateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

// Allow records an attempt for key and reports whether it is within the
// window, along with the remaining budget.
func (rl *RateLimiter) Allow(key string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(now)

	tokens := rl.tokens[key]
	if len(tokens) >= rl.maxRequest {
		return false, 0
	}

	rl.tokens[key] = append(tokens, now)
	return true, rl.maxRequest - len(tokens) - 1
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for key, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[key] = valid
		} else {
			delete(rl.tokens, key)
		}
	}
}

// RateLimit limits requests per authenticated user, falling back to the
// client IP before authentication.
func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := ctxutil.GetUserID(c.Request.Context()); ok {
			key = "user:" + strconv.FormatUint(uint64(userID), 10)
		}
		now := time.Now()

		allowed, remaining := limiter.Allow(key, now)
		if !allowed {
			logger.WarnWithContext(c.Request.Context(), "Rate limit exceeded").
				String("key", key).
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Int("max_requests", maxRequest).
				Duration(duration).
				Log()

			c.Header("Retry-After", fmt.Sprintf("%d", int(duration.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":     "Rate limit exceeded",
				"retry_after": duration.Seconds(),
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(duration).Unix()))

		c.Next()
	}
}
