package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "weekly-menu:idempotency:"

// RedisIdempotency reserves submission keys with SETNX so concurrent retries of the same
// checkout are refused before they reach the database.
type RedisIdempotency struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisIdempotency(addr string, ttl time.Duration) *RedisIdempotency {
	return &RedisIdempotency{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		TTL:    ttl,
	}
}

func (r *RedisIdempotency) Reserve(ctx context.Context, key string) (bool, error) {
	return r.Client.SetNX(ctx, idempotencyPrefix+key, time.Now().Unix(), r.TTL).Result()
}

func (r *RedisIdempotency) Release(ctx context.Context, key string) error {
	return r.Client.Del(ctx, idempotencyPrefix+key).Err()
}

func (r *RedisIdempotency) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *RedisIdempotency) Close() error {
	return r.Client.Close()
}
