package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisInternal wraps the redis client used for rate limiting and the
// upstream response cache
type RedisInternal struct {
	Redis *redis.Client
}

// NewRedisInternal connects to REDIS_ADDR, falling back to the compose host
// and then to localhost
func NewRedisInternal(ctx context.Context) (*RedisInternal, error) {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	password := os.Getenv("REDIS_PASSWORD")

	addrs := []string{"redis:6379", "localhost:6379"}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		addrs = []string{addr}
	}

	var lastErr error
	for _, addr := range addrs {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			lastErr = err
			continue
		}
		return &RedisInternal{Redis: rdb}, nil
	}

	return nil, fmt.Errorf("connecting to Redis: %w", lastErr)
}

// NewFromClient wraps an existing client
func NewFromClient(rdb *redis.Client) *RedisInternal {
	return &RedisInternal{Redis: rdb}
}

// Ping checks the connection
func (r *RedisInternal) Ping(ctx context.Context) error {
	return r.Redis.Ping(ctx).Err()
}
