package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"appsamples/internal/config"
)

// incrIfExists keeps INCRBY from creating the key, matching memcache increment semantics.
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return redis.call("INCRBY", KEYS[1], ARGV[1])
end
return nil
`)

// redisCache implements Cache on top of go-redis. It is safe for concurrent use.
type redisCache struct {
	rdb *redis.Client
}

var _ Cache = (*redisCache)(nil)

// NewRedis connects to Redis and verifies the connection with a short ping.
func NewRedis(cfg config.RedisConfig) (Cache, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &redisCache{rdb: rdb}, rdb, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (c *redisCache) Add(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %q: %w", key, err)
	}
	return ok, nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (c *redisCache) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := incrIfExists.Run(ctx, c.rdb, []string{key}, delta).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("redis incr %q: %w", key, err)
	}
	return n, nil
}
