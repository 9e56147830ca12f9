package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/marketing-survey/internal/errors"
	"github.com/ikkim/marketing-survey/internal/metrics"
	"github.com/ikkim/marketing-survey/pkg/redis"
	"github.com/patrickmn/go-cache"
)

// RateLimiter counts requests per key within a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Window() time.Duration
}

// RedisRateLimiter shares counters across instances.
type RedisRateLimiter struct {
	counter *redis.WindowCounter
	limit   int
	window  time.Duration
}

func NewRedisRateLimiter(counter *redis.WindowCounter, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{counter: counter, limit: limit, window: window}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.counter.Increment(ctx, key, l.window)
	if err != nil {
		return true, err
	}
	return n <= int64(l.limit), nil
}

func (l *RedisRateLimiter) Window() time.Duration { return l.window }

// MemoryRateLimiter 단일 인스턴스용 (Redis 미설정 시)
type MemoryRateLimiter struct {
	cache  *cache.Cache
	limit  int
	window time.Duration
	mu     sync.Mutex
}

func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		cache:  cache.New(window, window),
		limit:  limit,
		window: window,
	}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.cache.IncrementInt(key, 1)
	if err != nil {
		// 첫 요청 또는 윈도우 만료
		l.cache.Set(key, 1, l.window)
		n = 1
	}
	return n <= l.limit, nil
}

func (l *MemoryRateLimiter) Window() time.Duration { return l.window }

// RateLimit rejects clients over the limit. Counter failures let the request through.
// onLimited renders the rejection; nil responds with JSON.
func RateLimit(limiter RateLimiter, m *metrics.SurveyMetrics, onLimited gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		allowed, err := limiter.Allow(c.Request.Context(), "submit:"+c.ClientIP())
		if err != nil {
			log.Warn("Rate limit check failed, allowing request", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if allowed {
			c.Next()
			return
		}

		m.RecordSubmission(metrics.ResultRateLimited)
		log.Warn("Submission rate limit exceeded", nil)

		c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
		if onLimited != nil {
			onLimited(c)
		} else {
			apperrors.TooManyRequests(c, "")
		}
		c.Abort()
	}
}
