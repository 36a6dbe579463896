package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/contacts-service/internal/domain"
)

// PrincipalCache shadows user lookups by username for a bounded TTL. It only
// saves a store round-trip; it never makes an authorization decision. Entries
// are invalidated whenever the user record mutates (confirmation, password
// reset, avatar change) so staleness stays within one TTL window.
type PrincipalCache interface {
	Get(ctx context.Context, username string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, username string)
}

type redisPrincipalCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisPrincipalCache builds a Redis-backed cache. A non-positive ttl
// disables caching entirely.
func NewRedisPrincipalCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) PrincipalCache {
	if client == nil || ttl <= 0 {
		return noopPrincipalCache{}
	}
	return &redisPrincipalCache{client: client, ttl: ttl, logger: logger}
}

func principalKey(username string) string {
	return "principal:" + username
}

func (c *redisPrincipalCache) Get(ctx context.Context, username string) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, principalKey(username)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("principal cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (c *redisPrincipalCache) Set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, principalKey(user.Username), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("principal cache write failed", zap.Error(err))
	}
}

func (c *redisPrincipalCache) Invalidate(ctx context.Context, username string) {
	if err := c.client.Del(ctx, principalKey(username)).Err(); err != nil {
		c.logger.Warn("principal cache invalidation failed", zap.Error(err))
	}
}

type noopPrincipalCache struct{}

func (noopPrincipalCache) Get(context.Context, string) (*domain.User, bool) { return nil, false }
func (noopPrincipalCache) Set(context.Context, *domain.User)               {}
func (noopPrincipalCache) Invalidate(context.Context, string)              {}
