package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache is a PermissionCache backed by Redis, for deployments running
// several replicas that must see role changes without waiting out each
// replica's local TTL. Entries expire server-side.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache creates a Redis-backed permission cache. Redis failures are
// reported as cache misses so the engine falls back to recomputing; they
// are logged when a logger is provided.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) PermissionCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &redisCache{client: client, ttl: ttl, logger: logger}
}

func permKey(userID, orgID string) string {
	return fmt.Sprintf("authz:perms:%s:%s", userID, orgID)
}

func (c *redisCache) Get(ctx context.Context, userID, orgID string) ([]string, bool) {
	raw, err := c.client.Get(ctx, permKey(userID, orgID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.Warn("permission cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		if c.logger != nil {
			c.logger.Warn("permission cache entry corrupt", slog.String("key", permKey(userID, orgID)))
		}
		return nil, false
	}
	return perms, true
}

func (c *redisCache) Set(ctx context.Context, userID, orgID string, perms []string) {
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, permKey(userID, orgID), raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("permission cache write failed", slog.String("error", err.Error()))
	}
}

func (c *redisCache) Invalidate(ctx context.Context, userID, orgID string) {
	if err := c.client.Del(ctx, permKey(userID, orgID)).Err(); err != nil && c.logger != nil {
		c.logger.Warn("permission cache invalidation failed", slog.String("error", err.Error()))
	}
}
