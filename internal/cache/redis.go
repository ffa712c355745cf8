package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 15 * time.Minute

// RedisCache keys entries by a boot id fixed at construction, so a restarted
// process starts with an empty view of the cache.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
	bootID  string
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{
		client:  client,
		baseTTL: ttl,
		bootID:  uuid.NewString(),
	}
}

func (r *RedisCache) Get(ctx context.Context, number int64) (*domain.Order, error) {
	data, err := r.client.Get(ctx, r.key(number)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", err)
	}
	return &order, nil
}

func (r *RedisCache) Set(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	// Spread expiry so entries written together do not expire together.
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL/5) + 1))
	if err := r.client.Set(ctx, r.key(order.Number), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) key(number int64) string {
	return fmt.Sprintf("order:%s:%d", r.bootID, number)
}
