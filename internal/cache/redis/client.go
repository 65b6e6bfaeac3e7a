package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/refineryiq/server/pkg/config"
	"github.com/refineryiq/server/pkg/logger"
)

// Client caches insight prose answers. Everything here is best-effort: a
// failing cache logs and moves on.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := time.Duration(cfg.TTLSec) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	logger.Info("redis cache initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Duration("ttl", ttl),
	)

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) GetResponse(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, "insight:"+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.Warn("cache read failed", zap.Error(err))
		return "", false
	}
	logger.Debug("insight cache hit", zap.String("key", key))
	return val, true
}

func (c *Client) SetResponse(ctx context.Context, key, response string) {
	if err := c.client.Set(ctx, "insight:"+key, response, c.ttl).Err(); err != nil {
		logger.Warn("cache write failed", zap.Error(err))
	}
}
