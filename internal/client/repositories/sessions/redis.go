package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ums:session:"

// RedisRepository keeps each namespace in one hash. Expiry is left to the key
// TTL, refreshed on every write; Purge only extends the TTL of kept keys.
type RedisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func OpenRedis(ctx context.Context, addr, password string, ttl time.Duration) (*RedisRepository, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisRepository(rdb, ttl), nil
}

func NewRedisRepository(rdb *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl}
}

func redisKey(namespace string) string {
	return redisKeyPrefix + namespace
}

func (r *RedisRepository) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	v, err := r.rdb.HGet(ctx, redisKey(namespace), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s/%s]: %w", namespace, key, err)
	}
	return v, nil
}

func (r *RedisRepository) Set(ctx context.Context, namespace, key string, value []byte) error {
	k := redisKey(namespace)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, k, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set session[%s/%s]: %w", namespace, key, err)
	}
	return nil
}

func (r *RedisRepository) SetAll(ctx context.Context, namespace string, values map[string][]byte) error {
	k := redisKey(namespace)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, k)
	if len(values) > 0 {
		fields := make([]any, 0, len(values)*2)
		for _, key := range sortedKeys(values) {
			fields = append(fields, key, values[key])
		}
		pipe.HSet(ctx, k, fields...)
		if r.ttl > 0 {
			pipe.Expire(ctx, k, r.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", namespace, err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	m, err := r.rdb.HGetAll(ctx, redisKey(namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list session[%s]: %w", namespace, err)
	}
	result := make(map[string][]byte, len(m))
	for k, v := range m {
		result[k] = []byte(v)
	}
	return result, nil
}

func (r *RedisRepository) Clear(ctx context.Context, namespace string) error {
	if err := r.rdb.Del(ctx, redisKey(namespace)).Err(); err != nil {
		return fmt.Errorf("failed to clear session[%s]: %w", namespace, err)
	}
	return nil
}

func (r *RedisRepository) Purge(ctx context.Context, _ time.Time, keep ...string) (int64, error) {
	if r.ttl <= 0 || len(keep) == 0 {
		return 0, nil
	}
	pipe := r.rdb.Pipeline()
	for _, ns := range keep {
		pipe.Expire(ctx, redisKey(ns), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to extend sessions: %w", err)
	}
	return 0, nil
}

func (r *RedisRepository) Close() error {
	return r.rdb.Close()
}
