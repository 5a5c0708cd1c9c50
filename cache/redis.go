package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/commonfund/loan-engine/lifecycle"
)

// Redis backs the status cache with a Redis instance. Entries expire so
// a missed invalidation can only serve stale status briefly.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ lifecycle.Cache = (*Redis)(nil)

// NewRedis connects to the given address (host:port).
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil and transport errors alike are cache misses.
		return "", false
	}
	return value, true
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
