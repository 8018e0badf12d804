package cache

import (
	"context"

	"scriptgo/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to Redis. A failed ping returns the error together with a nil client,
// so callers can keep running without a cache.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).WithField("addr", addr).Warn("Redis not reachable - caching disabled")
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
