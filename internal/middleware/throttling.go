package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/semaphore"

	"ticketpulse/internal/config"
	"ticketpulse/internal/models/dto"
	"ticketpulse/pkg/logger"
)

const (
	defaultMaxRequests = 120
	rateLimitWindow    = 60 * time.Second
	rateLimitPrefix    = "ratelimit:"
)

// counterStore is the part of the redis client the limiter needs
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter is a fixed window request counter per client IP
type RateLimiter struct {
	store       counterStore
	log         *logger.Logger
	maxRequests int
	window      time.Duration
}

// NewRateLimiter builds a limiter over store
func NewRateLimiter(store counterStore, log *logger.Logger, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:       store,
		log:         log,
		maxRequests: maxRequests,
		window:      window,
	}
}

// setupRedisDB installs the per-IP limit when redis is available
func setupRedisDB(engine *gin.Engine, cfg *config.App) {
	if cfg.Redis == nil {
		return
	}

	maxRequests := int(getEnvAsInt64("MAX_REQUEST_COUNT_BY_IP", defaultMaxRequests))

	rateLimiter := NewRateLimiter(cfg.Redis, cfg.Logger, maxRequests, rateLimitWindow)

	engine.Use(rateLimiter.Middleware())
}

// Middleware returns the gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		count, retryAfter, err := rl.hit(c.Request.Context(), c.ClientIP())
		if err != nil {
			// fail open
			if rl.log != nil {
				rl.log.Warn("rate limiter unavailable", map[string]interface{}{"error": err.Error()})
			}
			c.Next()
			return
		}

		remaining := rl.maxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > rl.maxRequests {
			rl.handleRateLimitExceeded(c, retryAfter)
			return
		}

		c.Next()
	}
}

// hit counts one request for ip and reports the count inside the current
// window. The window starts with the first request.
func (rl *RateLimiter) hit(ctx context.Context, ip string) (count int, retryAfter time.Duration, err error) {
	key := rateLimitPrefix + ip

	n, err := rl.store.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if n == 1 {
		if err := rl.store.Expire(ctx, key, rl.window).Err(); err != nil {
			return 0, 0, err
		}
	}

	if int(n) > rl.maxRequests {
		ttl, err := rl.store.TTL(ctx, key).Result()
		if err != nil {
			return 0, 0, err
		}
		// a key left without expiry would block the client forever
		if ttl < 0 {
			_ = rl.store.Expire(ctx, key, rl.window).Err()
			ttl = rl.window
		}
		return int(n), ttl, nil
	}

	return int(n), 0, nil
}

// handleRateLimitExceeded answers 429 with the time left in the window
func (rl *RateLimiter) handleRateLimitExceeded(c *gin.Context, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second) / time.Second)
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		dto.NewRateLimitErrorResponse(c, retryAfter.String(), rl.maxRequests, 0, time.Now().Add(retryAfter).UTC()))
}

// setupSemaphore caps the requests served at once; each dashboard request
// fans out into many upstream calls
func setupSemaphore(engine *gin.Engine) {
	engine.Use(Semaphore(getEnvAsInt64("MAX_REQUEST_COUNT_GLOBAL", int64(10))))
}

// Semaphore admits at most max concurrent requests; the rest wait until
// their context ends
func Semaphore(max int64) gin.HandlerFunc {
	sema := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sema.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(c, http.StatusTooManyRequests, "server_busy", "Too many requests", nil))
			return
		}
		defer sema.Release(1)
		c.Next()
	}
}
