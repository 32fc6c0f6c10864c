package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps each browser session in a hash at storefront:session:<id>.
// The hash expires TTL after its last write.
type RedisBackend struct {
	Conn *redis.Client
	TTL  time.Duration
}

func NewRedisBackend(conn *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{Conn: conn, TTL: ttl}
}

func redisKey(sessionID string) string {
	return "storefront:session:" + sessionID
}

func (r *RedisBackend) Get(ctx context.Context, sessionID, key string) (string, error) {
	v, err := r.Conn.HGet(ctx, redisKey(sessionID), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "load %s", key)
	}
	return v, nil
}

func (r *RedisBackend) Set(ctx context.Context, sessionID, key, value string) error {
	k := redisKey(sessionID)
	pipe := r.Conn.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	if r.TTL > 0 {
		pipe.Expire(ctx, k, r.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "store %s", key)
	}
	return nil
}

func (r *RedisBackend) Remove(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.Conn.HDel(ctx, redisKey(sessionID), keys...).Err(); err != nil {
		return errors.Wrap(err, "remove session keys")
	}
	return nil
}
