package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

// rateCounter is the slice of Redis the limiter needs.
type rateCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type redisCounter struct {
	client *redis.Client
}

func (c redisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func (c redisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// RateLimit enforces a fixed-window per-client limit backed by Redis. When
// Redis is unreachable the request is allowed through; throttling is a
// protection, not a correctness requirement.
func RateLimit(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) fiber.Handler {
	if client == nil || limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return rateLimit(redisCounter{client: client}, limit, window, time.Now, logger)
}

func rateLimit(counter rateCounter, limit int, window time.Duration, now func() time.Time, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		windowStart := now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%s:%d", c.IP(), c.Path(), windowStart)

		count, err := counter.Incr(c.Context(), key)
		if err != nil {
			logger.Warn("rate limit counter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := counter.Expire(c.Context(), key, window); err != nil {
				logger.Warn("rate limit expiry failed", zap.Error(err))
			}
		}

		if count > int64(limit) {
			return apperrors.NewRateLimited("rate limit exceeded, try again later")
		}
		return c.Next()
	}
}
