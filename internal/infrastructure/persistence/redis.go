package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"price_tracker/pkg/logx"
)

const defaultRedisPrefix = "price_tracker:"

// RedisBlobs keeps each blob under one string key.
type RedisBlobs struct {
	client *redis.Client
	prefix string
}

func NewRedisBlobs(client *redis.Client, prefix string) *RedisBlobs {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	return &RedisBlobs{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Get: %w", err)
	}

	return data, nil
}

func (r *RedisBlobs) Put(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	logger(ctx).Debug("blob written",
		slog.String(logx.FieldBackend, BackendRedis),
		slog.String(logx.FieldKey, r.prefix+key),
	)

	return nil
}
