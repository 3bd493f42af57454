package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/logosreach/pathway-engine/pkg/config"
)

// NewRedisClient creates a new Redis client with the given configuration.
// Returns nil if Redis is not configured (host is empty); the cache layer
// then serves everything from its in-process fallback.
//
// Connection failures are not fatal here: the client is returned anyway and
// the cache layer probes availability per operation.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// PingRedis checks Redis liveness.
func PingRedis(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("redis is not configured")
	}
	return client.Ping(ctx).Err()
}
