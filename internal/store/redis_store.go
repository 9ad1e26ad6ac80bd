package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/clarkhq/clark-server/internal/config"
)

// redisNamespace prefixes every document key so the store can share an
// instance with the counter cache.
const redisNamespace = "clark:doc:"

// RedisStore keeps documents as plain redis string values. This is the
// shared-deployment backend: two server processes pointed at one redis see
// each other's writes on their next poll.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore initializes a redis-backed document store from config.
func NewRedisStore(cfg *config.Config) *RedisStore {
	opts := &redis.Options{Addr: cfg.Redis.Addr}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisStore{client: redis.NewClient(opts)}
}

// NewRedisStoreWithClient wraps an existing client (tests, shared pools).
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := s.client.Get(ctx, redisNamespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("document %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", key, err)
	}
	return body, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, body []byte) error {
	// No TTL: documents live until deleted.
	if err := s.client.Set(ctx, redisNamespace+key, body, 0).Err(); err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisNamespace+key).Err(); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}
