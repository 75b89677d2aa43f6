package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"taskmanager/internal/core/port"
)

// RedisStore shares counters between instances. A key's window starts with
// its first INCR and ends when the key expires.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ port.CounterStore = (*RedisStore)(nil)

func NewRedisStore(ctx context.Context, url string, prefix string) (*RedisStore, error) {
	options, err := redis.ParseURL(url)

	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	key = r.prefix + key

	count, err := r.client.Incr(ctx, key).Result()

	if err != nil {
		return 0, time.Time{}, err
	}

	if count == 1 {
		if err := r.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
	}

	ttl, err := r.client.PTTL(ctx, key).Result()

	if err != nil {
		return 0, time.Time{}, err
	}

	// a key left without expiry by a failed PEXPIRE would block forever
	if ttl < 0 {
		ttl = window
		r.client.PExpire(ctx, key, window)
	}

	return int(count), time.Now().Add(ttl), nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
