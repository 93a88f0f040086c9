package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func NewRedisCache(client *redis.Client) *RedisCache {
	// The breaker keeps a dead redis from slowing every cart read; while
	// open, callers fall through to the repository.
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name: "cart-cache",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		Timeout: 30 * time.Second,
	})

	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
		cb:      cb,
	}
}

func (r *RedisCache) Get(ctx context.Context, customerID int64) ([]*domain.CartLine, error) {
	key := cacheKey(customerID)

	data, err := r.cb.Execute(func() ([]byte, error) {
		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// A miss is a valid answer, not a redis failure.
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	if data == nil {
		return nil, ErrCacheMiss
	}

	var lines []*domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cached cart failed: %w", err)
	}
	return lines, nil
}

func (r *RedisCache) Set(ctx context.Context, customerID int64, lines []*domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	_, err = r.cb.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, cacheKey(customerID), data, r.jitteredTTL()).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, customerID int64) error {
	_, err := r.cb.Execute(func() ([]byte, error) {
		return nil, r.client.Del(ctx, cacheKey(customerID)).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// jitteredTTL spreads expirations so a burst of carts cached together
// does not expire together.
func (r *RedisCache) jitteredTTL() time.Duration {
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL / 10)))
	return r.baseTTL + jitter
}

func cacheKey(customerID int64) string {
	return fmt.Sprintf("cart:%d", customerID)
}
