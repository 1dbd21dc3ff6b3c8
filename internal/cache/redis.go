package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cache with a shared Redis instance so that several engine
// replicas can reuse each other's source fetches.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed cache. prefix namespaces keys so the
// engine can share an instance with other tenants.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "signalscan:"
	}
	return &Redis{client: client, prefix: prefix}
}

// Get returns the cached value for key if present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value under key for ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Delete removes key if present.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
