// Package cache provides the Redis client, the public listing cache and
// session revocation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"story-cms/observability"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const generationKey = "posts:gen"

// NewRedisClient connects to addr (host:port or redis:// URL). An empty addr or
// an unreachable server yields a nil client, which disables caching.
func NewRedisClient(ctx context.Context, addr string, log *zap.Logger) *redis.Client {
	if addr == "" {
		log.Info("redis not configured, continuing without cache")
		return nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Warn("invalid REDIS_URL, continuing without cache", zap.Error(err))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, continuing without cache", zap.Error(err))
		_ = client.Close()
		return nil
	}

	log.Info("redis connected")
	return client
}

// PostCache is a cache-aside store for public post reads. Keys embed a
// generation number; bumping it invalidates every cached listing at once.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewPostCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *PostCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PostCache{client: client, ttl: ttl, log: log}
}

// Enabled reports whether a Redis client is attached.
func (c *PostCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *PostCache) generation(ctx context.Context) int64 {
	raw, err := c.client.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		c.log.Warn("cache generation read failed", zap.Error(err))
		return 0
	}
	gen, _ := strconv.ParseInt(raw, 10, 64)
	return gen
}

// Key builds a generation-scoped key from parts.
func (c *PostCache) Key(ctx context.Context, parts ...string) string {
	return fmt.Sprintf("posts:v%d:%s", c.generation(ctx), strings.Join(parts, ":"))
}

// Get loads key into dst. It reports false on a miss or any error.
func (c *PostCache) Get(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		observability.CacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		observability.CacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	observability.CacheRequests.WithLabelValues("hit").Inc()
	return true
}

// Set stores value under key. Failures are logged and otherwise ignored.
func (c *PostCache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate bumps the generation so every previously cached entry is skipped.
func (c *PostCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Warn("cache invalidation failed", zap.Error(err))
	}
}
