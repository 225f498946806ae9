package db

import (
	"context"

	"github.com/atokurn/mplace-sub001/internal/logger"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// InitRedis connects the shared client. An empty addr leaves RDB nil,
// which downgrades the page cache to the in-process implementation.
func InitRedis(addr string) {
	if addr == "" {
		logger.Warn("redis_not_configured", nil)
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func PingRedis(ctx context.Context) error {
	if RDB == nil {
		return nil
	}
	return RDB.Ping(ctx).Err()
}
