// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"ceygo/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SessionCacheClient is the Redis client holding admin sessions.
var SessionCacheClient *redis.Client

// InitSessionCache connects the session client (REDIS_SESSION_DB). It returns nil when Redis
// is not configured or unreachable so callers can fall back to an in-process store.
func InitSessionCache() *redis.Client {
	if config.AppConfig.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Redis (sessions) unreachable; sessions will not survive restarts", zap.Error(err))
		_ = client.Close()
		return nil
	}
	SessionCacheClient = client
	return client
}
