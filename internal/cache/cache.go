package cache

import (
	"context"
	"errors"

	"github.com/BryleCahapay/petstore/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// CartCache is a read-through cache for a customer's cart lines. The
// database stays the source of truth; a cache failure is never fatal.
type CartCache interface {
	Get(ctx context.Context, customerID int64) ([]*domain.CartLine, error)
	Set(ctx context.Context, customerID int64, lines []*domain.CartLine) error
	Delete(ctx context.Context, customerID int64) error
}
