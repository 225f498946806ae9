package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atokurn/mplace-sub001/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares cached pages across processes. The per-kind version
// counter lives in Redis too (listing:ver:<kind>); Invalidate is a
// single INCR, and entries of older versions expire via their TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, kind, key string) (*PageResult, bool) {
	if key == "" {
		return nil, false
	}
	ver, ok := c.version(ctx, kind)
	if !ok {
		return nil, false
	}
	data, err := c.client.Get(ctx, pageKey(kind, ver, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("cache_get_failed", map[string]any{
				"kind":  kind,
				"error": err.Error(),
			})
		}
		return nil, false
	}
	var res PageResult
	if err := json.Unmarshal(data, &res); err != nil {
		logger.Warn("cache_decode_failed", map[string]any{
			"kind":  kind,
			"error": err.Error(),
		})
		return nil, false
	}
	return &res, true
}

func (c *RedisCache) Set(ctx context.Context, kind, key string, value *PageResult, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}
	ver, ok := c.version(ctx, kind)
	if !ok {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, pageKey(kind, ver, key), data, ttl).Err(); err != nil {
		logger.Warn("cache_set_failed", map[string]any{
			"kind":  kind,
			"error": err.Error(),
		})
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, kind string) {
	if err := c.client.Incr(ctx, versionKey(kind)).Err(); err != nil {
		logger.Warn("cache_invalidate_failed", map[string]any{
			"kind":  kind,
			"error": err.Error(),
		})
	}
}

func (c *RedisCache) version(ctx context.Context, kind string) (int64, bool) {
	ver, err := c.client.Get(ctx, versionKey(kind)).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		logger.Warn("cache_version_failed", map[string]any{
			"kind":  kind,
			"error": err.Error(),
		})
		return 0, false
	}
	return ver, true
}

func versionKey(kind string) string {
	return "listing:ver:" + kind
}

func pageKey(kind string, ver int64, key string) string {
	return fmt.Sprintf("listing:page:%s:v%d:%s", kind, ver, key)
}
