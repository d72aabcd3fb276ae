package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each client's values in one hash, "<prefix>:<clientID>".
// The hash expires after ttl without writes.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "console:storage"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(clientID string) string { return r.prefix + ":" + clientID }

func (r *RedisStore) Get(ctx context.Context, clientID, key string) (string, error) {
	v, err := r.rdb.HGet(ctx, r.key(clientID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *RedisStore) Set(ctx context.Context, clientID, key, value string) error {
	k := r.key(clientID)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, k, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Remove(ctx context.Context, clientID, key string) error {
	return r.rdb.HDel(ctx, r.key(clientID), key).Err()
}
