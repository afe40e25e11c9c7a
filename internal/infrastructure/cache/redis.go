package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mashfooq/be-news-aggregator/internal/config"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

// Redis persists cache entries across ingestion runs, which is what makes the
// classification cache effective: identical content seen on the next run skips
// the model call entirely.
type Redis struct {
	client *redis.Client
}

var _ ports.Cache = (*Redis)(nil)

// NewRedis connects a go-redis client from configuration.
func NewRedis(cfg config.RedisConfig) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Get returns the cached value; a missing key is not an error.
func (c *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with the given expiry.
func (c *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
