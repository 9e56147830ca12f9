package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/marketing-survey/config"
	"github.com/ikkim/marketing-survey/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// WindowCounter 고정 윈도우 카운터 (제출 횟수 제한용)
type WindowCounter struct {
	client *redis.Client
	prefix string
}

func NewWindowCounter(c *redis.Client, prefix string) *WindowCounter {
	return &WindowCounter{client: c, prefix: prefix}
}

// Increment bumps the counter for key and returns the new value.
// The expiry is set only when the key is created so the window does not slide.
func (w *WindowCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := fmt.Sprintf("%s:%s", w.prefix, key)

	pipe := w.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to increment rate limit counter", err, map[string]interface{}{
			"key": fullKey,
		})
		return 0, err
	}

	return incr.Val(), nil
}
