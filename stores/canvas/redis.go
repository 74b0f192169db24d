package canvas

import (
	"context"
	"errors"
	"fmt"

	"pixelchaos/core"

	"github.com/redis/go-redis/v9"
)

// redisCache adapts a go-redis client to the Cache interface. All pixels
// live in one hash so a full-canvas read is a single HGETALL.
type redisCache struct {
	client *redis.Client
	key    string
}

// NewRedisCache wraps a Redis client as the canvas backing cache. key names
// the hash holding the field-per-coordinate map.
func NewRedisCache(client *redis.Client, key string) Cache {
	return &redisCache{client: client, key: key}
}

func (c *redisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *redisCache) SetField(ctx context.Context, field, value string) error {
	return c.client.HSet(ctx, c.key, field, value).Err()
}

func (c *redisCache) GetField(ctx context.Context, field string) (string, error) {
	value, err := c.client.HGet(ctx, c.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (c *redisCache) GetAllFields(ctx context.Context) (map[string]string, error) {
	return c.client.HGetAll(ctx, c.key).Result()
}
