package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Expire sets a key expiration time
func (r *RedisInternal) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return r.Redis.Expire(ctx, key, expiration)
}

// TTL returns the time to live of a key
func (r *RedisInternal) TTL(ctx context.Context, key string) *redis.DurationCmd {
	return r.Redis.TTL(ctx, key)
}

// Incr increments a key
func (r *RedisInternal) Incr(ctx context.Context, key string) *redis.IntCmd {
	return r.Redis.Incr(ctx, key)
}

// GetBytes reads a cached body. ok is false on a miss.
func (r *RedisInternal) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// SetBytes caches a body for ttl
func (r *RedisInternal) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Redis.Set(ctx, key, value, ttl).Err()
}
