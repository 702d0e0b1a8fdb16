package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/lapis-malang/storefront/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 3 * time.Second

// Client holds the Redis connection backing the shared rate limiter
type Client struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NewConnection dials Redis and pings it once, failing fast when the server
// is unreachable
func NewConnection(cfg *config.Config, logger logrus.FieldLogger) (*Client, error) {
	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolTimeout:  timeout,
	})

	client := &Client{rdb: rdb, timeout: timeout}
	if err := client.Health(context.Background()); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"addr":      cfg.GetRedisAddr(),
		"db":        cfg.Redis.DB,
		"pool_size": cfg.Redis.PoolSize,
		"timeout":   timeout,
	}).Info("Redis connection established")

	return client, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetClient returns the underlying go-redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Health pings Redis within the configured timeout
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}
