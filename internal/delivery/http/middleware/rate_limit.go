package middleware

import (
	"strconv"
	"sync"
	"time"

	"trial-intake-api/pkg/apperror"
	"trial-intake-api/pkg/metrics"
	"trial-intake-api/pkg/redis"
	"trial-intake-api/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window; 0 disables the limiter
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Returns the Redis client to use, nil means in-memory (default: redis.Client)
	Store func() *goredis.Client
	// Receives rate_limit_triggered events (default: security.DefaultLogger())
	Events *security.SecurityLogger
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

type memoryStore struct {
	entries sync.Map
}

func (s *memoryStore) incr(key string, window time.Duration, now time.Time) (int, time.Time) {
	entryI, _ := s.entries.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

// sweep drops expired entries
func (s *memoryStore) sweep(now time.Time) {
	s.entries.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			s.entries.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

// TrialRateLimitConfig limits free-trial submissions per client IP
func TrialRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:trial:",
	}
}

// RateLimitMiddleware counts requests per key in Redis, falling back to an
// in-memory counter when Redis is absent or failing. It fails open.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.Limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.Store == nil {
		config.Store = redis.Client
	}
	if config.Events == nil {
		config.Events = security.DefaultLogger()
	}

	store := &memoryStore{}
	var lastSweep time.Time
	var sweepMu sync.Mutex

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time

		if client := config.Store(); client != nil {
			n, ttl, err := redis.IncrWindow(c.Request.Context(), client, fullKey, config.Window)
			if err == nil {
				count, resetAt = n, now.Add(ttl)
			} else {
				count, resetAt = store.incr(fullKey, config.Window, now)
			}
		} else {
			count, resetAt = store.incr(fullKey, config.Window, now)
		}

		sweepMu.Lock()
		if now.Sub(lastSweep) > 5*time.Minute {
			lastSweep = now
			go store.sweep(now)
		}
		sweepMu.Unlock()

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			meta := security.MetaFromContext(c.Request.Context())
			config.Events.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), meta.UserAgent, meta.RequestID, c.FullPath())
			metrics.TrialSubmissions.WithLabelValues(metrics.OutcomeRateLimited).Inc()

			_ = c.Error(apperror.TooManyRequests())
			c.Abort()
			return
		}

		c.Next()
	}
}
