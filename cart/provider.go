package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"order-service/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Provider supplies the user's current cart at order-creation time and clears
// it once the order transaction has committed.
type Provider interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// RedisProvider reads carts the cart service stores as JSON blobs in Redis.
type RedisProvider struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProvider(client *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisProvider) getKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

// GetCart returns the user's cart, or nil if they have none.
func (r *RedisProvider) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.getKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart removes the user's cart.
func (r *RedisProvider) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, r.getKey(userID)).Err()
}
