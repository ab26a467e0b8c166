package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyRepository records checkout idempotency keys in Redis so a
// retried checkout returns the original order instead of creating a second
// one.
type IdempotencyRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyRepository(client *redis.Client, ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{client: client, ttl: ttl}
}

func (r *IdempotencyRepository) key(userID, key string) string {
	return "idem:checkout:" + userID + ":" + key
}

// Get returns the order ID previously recorded for the key, or "" when unseen.
func (r *IdempotencyRepository) Get(ctx context.Context, userID, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set records the order ID for the key with the configured TTL.
func (r *IdempotencyRepository) Set(ctx context.Context, userID, key, orderID string) error {
	return r.client.Set(ctx, r.key(userID, key), orderID, r.ttl).Err()
}
