package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/stock"
)

// verifyStock runs the advisory availability check over every selected
// line and returns the names that cannot be satisfied. Unknown items are
// failing too: a cart line whose catalog row vanished can never commit.
func (s *CheckoutService) verifyStock(ctx context.Context, lines []*domain.CartLine) ([]string, error) {
	var failing []string
	for _, line := range lines {
		avail, err := s.ledger.CheckAvailability(ctx, line.ItemName, line.Quantity)
		if errors.Is(err, stock.ErrItemNotFound) {
			failing = append(failing, line.ItemName)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stock verification failed for %q: %w", line.ItemName, err)
		}
		if !avail.Available {
			failing = append(failing, line.ItemName)
		}
	}
	return failing, nil
}
