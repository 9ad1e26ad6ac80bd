package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/clarkhq/clark-server/internal/config"
	"github.com/redis/go-redis/v9"
)

// activityTTL bounds how long a stale counter can live; the activity poller
// refreshes it every cycle anyway.
const activityTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForActivity generates the Redis key for a conversation's message count.
// Keyed by pair, not viewer: both sides observe the same counter.
func (c *RedisCache) KeyForActivity(pairKey string) string {
	return fmt.Sprintf("activity:count:%s", pairKey)
}

// UpdateActivityCount stores the advisory message count for a conversation.
func (c *RedisCache) UpdateActivityCount(ctx context.Context, pairKey string, count int64) error {
	// Always refresh TTL when updating
	return c.Client.Set(ctx, c.KeyForActivity(pairKey), count, activityTTL).Err()
}

// GetActivityCount returns the cached message count for a conversation.
// The second return value reports whether the counter was present.
func (c *RedisCache) GetActivityCount(ctx context.Context, pairKey string) (int64, bool, error) {
	key := c.KeyForActivity(pairKey)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, activityTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	return n, true, nil
}
