package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
)

// commit executes the all-or-nothing unit: the conditional decrement for
// every line, the receipt with its outbox event and the cart cleanup run
// in one database transaction, so a failure at any point leaves no trace.
func (s *CheckoutService) commit(ctx context.Context, status domain.CheckoutStatus, order *Order, lines []*domain.CartLine) (*domain.Receipt, error) {
	if !domain.CanTransitionTo(status, domain.CheckoutStatusCommitted) {
		return nil, ErrIllegalTransition
	}

	receipt := buildReceipt(order, lines)

	if _, err := s.checkout.CommitOrder(ctx, receipt, order.CustomerID); err != nil {
		var stockErr *repository.ItemStockError
		if errors.As(err, &stockErr) {
			// The advisory check passed but another customer got there
			// first; the conditional decrement is the authority.
			s.logger.Infow("checkout rejected at reservation",
				"customer_id", order.CustomerID, "item", stockErr.Item)
			return nil, &InsufficientStockError{Items: []string{stockErr.Item}}
		}
		return nil, fmt.Errorf("order commit failed: %w", err)
	}

	return receipt, nil
}
