package redis

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// InitRedis connects the shared client using REDIS_ADDR. A nil Client leaves
// the slot cache in pass-through mode; an unreachable server is fatal.
func InitRedis(logger *zap.Logger) {
	addr := os.Getenv("REDIS_ADDR")
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if err := Client.Ping(Ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.String("addr", addr), zap.Error(err))
	}
	logger.Info("redis connection established", zap.String("addr", addr))
}
