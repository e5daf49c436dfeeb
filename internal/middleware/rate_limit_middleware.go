package middleware

import (
	"fmt"
	"sync"
	"time"

	"gotours/internal/utils"
	"gotours/pkg/cache"
	"gotours/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter caps requests per client IP over a sliding window. With Redis
// available the window is shared across instances; otherwise a per-process
// token bucket approximates the same budget.
type RateLimiter struct {
	cache    *cache.RedisCache
	requests int
	window   time.Duration
	logger   *logger.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewRateLimiter(redisCache *cache.RedisCache, requests int, window time.Duration, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		cache:    redisCache,
		requests: requests,
		window:   window,
		logger:   log,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed := rl.allowRedis(c, ip)
		if allowed == nil {
			if !rl.allowLocal(ip) {
				AbortWithError(c, utils.RateLimitedError())
				return
			}
			c.Next()
			return
		}
		if !*allowed {
			AbortWithError(c, utils.RateLimitedError())
			return
		}
		c.Next()
	}
}

// allowRedis consults the shared sliding window. A nil result means Redis
// was unavailable and the local fallback should decide.
func (rl *RateLimiter) allowRedis(c *gin.Context, ip string) *bool {
	if rl.cache == nil {
		return nil
	}

	key := fmt.Sprintf("ratelimit:%s", ip)
	count, err := rl.cache.SlidingWindowCount(c.Request.Context(), key, rl.window)
	if err != nil {
		rl.logger.WithError(err).Warn("Rate limiter falling back to in-memory window")
		return nil
	}

	allowed := count <= int64(rl.requests)
	return &allowed
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[ip]
	if !ok {
		perSecond := rate.Limit(float64(rl.requests) / rl.window.Seconds())
		limiter = rate.NewLimiter(perSecond, rl.requests)
		rl.limiters[ip] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}
