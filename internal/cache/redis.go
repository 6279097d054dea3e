package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"github.com/Lampx83/AI-Portal-sub002/internal/app"
)

// TokenCache keeps share-token resolutions in redis so the hot path of a
// shared-article upgrade skips the database. Entries are short-lived; a
// revoked token stops resolving after at most the TTL.
type TokenCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// NewTokenCache connects to redis and verifies connectivity
func NewTokenCache(ctx context.Context, cfg app.Config, log *slog.Logger) (*TokenCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &TokenCache{rdb: rdb, ttl: cfg.ShareCacheTTL, log: log}, nil
}

// Get returns the cached article id for a share token, if present
func (c *TokenCache) Get(ctx context.Context, token string) (string, bool) {
	v, err := c.rdb.Get(ctx, key(token)).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

// Set caches a resolved share token
func (c *TokenCache) Set(ctx context.Context, token, articleID string) {
	if err := c.rdb.Set(ctx, key(token), articleID, c.ttl).Err(); err != nil {
		c.log.Debug("cache.set", "err", err)
	}
}

// Close shuts down the redis connection
func (c *TokenCache) Close() { _ = c.rdb.Close() }

// key namespacing for share-token entries
func key(token string) string { return "share:" + token }
