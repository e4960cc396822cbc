package database

import (
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis connects to the Redis instance backing the mail queue and
// rate limits.
func ConnectRedis(ctx context.Context, redisURI string, logger *logging.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	applyPoolOptions(opt)

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("connected to Redis", "addr", opt.Addr, "db", opt.DB)
	return client, nil
}

func applyPoolOptions(opt *redis.Options) {
	opt.PoolSize = 10
	opt.MinIdleConns = 5
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
}
