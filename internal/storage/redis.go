package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const redisKeyPrefix = "storefront:"

// Redis is a durable store backed by a redis instance. Values carry an
// optional TTL so abandoned visitor carts eventually age out.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedis creates a redis-backed durable store. A zero ttl disables expiry.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if client == nil {
		panic("storage: redis client cannot be nil")
	}
	return &Redis{
		client: client,
		ttl:    ttl,
		tracer: otel.Tracer("storefront.internal.storage.redis"),
	}
}

// Get retrieves a value by key.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "storage.redis.get")
	defer span.End()

	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		span.RecordError(err)
		return "", fmt.Errorf("storage: redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value, refreshing the TTL.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	ctx, span := r.tracer.Start(ctx, "storage.redis.set")
	defer span.End()

	if err := r.client.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("storage: redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, span := r.tracer.Start(ctx, "storage.redis.delete")
	defer span.End()

	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("storage: redis delete %s: %w", key, err)
	}
	return nil
}

var _ Durable = (*Redis)(nil)
