package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"advanced-form/internal/delivery/http/response"
	"advanced-form/pkg/logger"
	"advanced-form/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Whether to reject requests when Redis errors
	FailClosed bool
	// Only requests with these methods count; empty means all
	Methods []string
	// OnLimit writes the rejection; nil sends the JSON envelope.
	OnLimit func(c *gin.Context, retryAfter int)
	// How often expired in-memory entries are dropped (default 5m)
	CleanupInterval time.Duration
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	removed bool
	mu      sync.Mutex
}

// memoryStore is the in-process fallback used when Redis is unavailable.
// Expired entries are swept periodically once startCleanup runs.
type memoryStore struct {
	entries  sync.Map
	stop     chan struct{}
	stopOnce sync.Once
}

func newMemoryStore() *memoryStore {
	return &memoryStore{stop: make(chan struct{})}
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// UploadRateLimitConfig limits avatar submissions per client IP. JSON
// requests get the API envelope; form posts get a plain page.
func UploadRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:upload:",
		FailClosed: false,
		Methods:    []string{http.MethodPost},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		OnLimit: func(c *gin.Context, retryAfter int) {
			if c.ContentType() == gin.MIMEJSON {
				response.Error(c, http.StatusTooManyRequests, "Upload rate limit exceeded. Please try again later.",
					map[string]int{"retry_after": retryAfter})
				return
			}
			c.String(http.StatusTooManyRequests,
				"Muitos envios em pouco tempo. Tente novamente em %d segundos.", retryAfter)
		},
	}
}

// RateLimiter counts hits per key in Redis, or in process when Redis is
// absent or failing and the config allows it.
type RateLimiter struct {
	config  RateLimitConfig
	store   *memoryStore
	onLimit func(c *gin.Context, retryAfter int)
}

// errLimiterUnavailable is returned by hit when Redis fails and FailClosed is set.
var errLimiterUnavailable = errors.New("rate limiter unavailable")

// NewRateLimiter starts the in-memory cleanup loop; Close stops it.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	onLimit := config.OnLimit
	if onLimit == nil {
		onLimit = func(c *gin.Context, _ int) {
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
		}
	}

	l := &RateLimiter{config: config, store: newMemoryStore(), onLimit: onLimit}
	l.store.startCleanup(config.CleanupInterval)
	return l
}

// Close stops the cleanup loop. It is safe to call more than once.
func (l *RateLimiter) Close() {
	l.store.close()
}

func (l *RateLimiter) hit(ctx context.Context, key string, now time.Time) (int, time.Time, error) {
	redisClient := redis.Client()
	if redisClient == nil {
		count, resetAt := l.store.hit(key, l.config.Window, now)
		return count, resetAt, nil
	}

	count, resetAt, err := checkRateLimitRedis(ctx, redisClient, key, l.config)
	if err == nil {
		return count, resetAt, nil
	}
	logger.Log.Warn("Rate limit check failed", "key", key, "error", err)
	if l.config.FailClosed {
		return 0, time.Time{}, errLimiterUnavailable
	}
	count, resetAt = l.store.hit(key, l.config.Window, now)
	return count, resetAt, nil
}

// Handler returns the gin middleware.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	config := l.config

	return func(c *gin.Context) {
		if !methodCounts(config.Methods, c.Request.Method) {
			c.Next()
			return
		}

		fullKey := config.KeyPrefix + config.KeyFunc(c)
		count, resetAt, err := l.hit(c.Request.Context(), fullKey, time.Now())
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := max(int(time.Until(resetAt).Seconds()), 1)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.Info("Rate limit exceeded", "ip", c.ClientIP(), "path", c.FullPath())

			l.onLimit(c, retryAfter)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(config.Limit-count, 0)))
		c.Next()
	}
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Uses Redis when available, falls back to in-memory when not. The limiter
// lives as long as the process.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return NewRateLimiter(config).Handler()
}

func methodCounts(methods []string, method string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

// checkRateLimitRedis checks rate limit using Redis with atomic Lua script
func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, errors.New("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

// hit counts one request for key and returns the count in the current window.
func (s *memoryStore) hit(key string, window time.Duration, now time.Time) (int, time.Time) {
	for {
		entryI, _ := s.entries.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
		entry := entryI.(*rateLimitEntry)

		entry.mu.Lock()
		if entry.removed {
			// swept between load and lock, retry with a fresh entry
			entry.mu.Unlock()
			continue
		}
		if now.After(entry.resetAt) {
			entry.count = 0
			entry.resetAt = now.Add(window)
		}
		entry.count++
		count, resetAt := entry.count, entry.resetAt
		entry.mu.Unlock()

		return count, resetAt
	}
}

// sweep drops the entries whose window ended before now and returns how many
// were dropped.
func (s *memoryStore) sweep(now time.Time) int {
	removed := 0
	s.entries.Range(func(key, value any) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) && s.entries.CompareAndDelete(key, entry) {
			entry.removed = true
			removed++
		}
		entry.mu.Unlock()
		return true
	})
	return removed
}

func (s *memoryStore) startCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				if n := s.sweep(now); n > 0 {
					logger.Log.Debug("Rate limit entries expired", "count", n)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *memoryStore) close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// size reports the number of tracked keys.
func (s *memoryStore) size() int {
	n := 0
	s.entries.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
