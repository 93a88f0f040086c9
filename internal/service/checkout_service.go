package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BryleCahapay/petstore/internal/cache"
	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
	"github.com/BryleCahapay/petstore/internal/stock"
)

// Order is one checkout attempt. SelectedItems filters the customer's
// cart to the lines being committed; empty means the whole cart.
type Order struct {
	CustomerID    int64
	Email         string
	SelectedItems []string
	PaymentMethod domain.PaymentMethod
	Address       string
	ContactNumber string
}

// CheckoutService runs the order commit protocol:
//
//	DRAFT -> STOCK_VERIFIED -> COMMITTED
//	               \-> REJECTED
//
// The commit unit (reserve + receipt + cart cleanup) executes in one
// database transaction, so readers never observe a decrement without
// its receipt or a receipt without its decrement, even across a crash.
type CheckoutService struct {
	cart     repository.CartRepository
	checkout repository.CheckoutRepository
	ledger   stock.Ledger
	cache    cache.CartCache
	logger   *zap.SugaredLogger
}

func NewCheckoutService(
	cart repository.CartRepository,
	checkout repository.CheckoutRepository,
	ledger stock.Ledger,
	cartCache cache.CartCache,
	logger *zap.SugaredLogger,
) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		checkout: checkout,
		ledger:   ledger,
		cache:    cartCache,
		logger:   logger,
	}
}

func (s *CheckoutService) Commit(ctx context.Context, order *Order) (*domain.Receipt, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	lines, err := s.selectLines(ctx, order)
	if err != nil {
		return nil, err
	}

	status := domain.CheckoutStatusDraft

	// Pre-flight, advisory only. Stock can still move between here and
	// the reservations below.
	failing, err := s.verifyStock(ctx, lines)
	if err != nil {
		return nil, err
	}
	if len(failing) > 0 {
		s.logger.Infow("checkout rejected at stock verification",
			"customer_id", order.CustomerID, "items", failing)
		return nil, &InsufficientStockError{Items: failing}
	}

	if !domain.CanTransitionTo(status, domain.CheckoutStatusStockVerified) {
		return nil, ErrIllegalTransition
	}
	status = domain.CheckoutStatusStockVerified

	receipt, err := s.commit(ctx, status, order, lines)
	if err != nil {
		return nil, err
	}

	s.invalidateCartCache(order.CustomerID)
	s.logger.Infow("order committed",
		"customer_id", order.CustomerID,
		"receipt_id", receipt.ID,
		"total", receipt.TotalAmount,
		"payment_method", receipt.PaymentMethod)

	return receipt, nil
}

// selectLines loads the customer's cart and narrows it to the selected
// items with a positive quantity.
func (s *CheckoutService) selectLines(ctx context.Context, order *Order) ([]*domain.CartLine, error) {
	all, err := s.cart.ListByCustomer(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []*domain.CartLine
	if len(order.SelectedItems) == 0 {
		lines = all
	} else {
		byName := make(map[string]*domain.CartLine, len(all))
		for _, line := range all {
			byName[line.ItemName] = line
		}
		// A repeated selection counts once; the cart line already carries
		// the full quantity.
		seen := make(map[string]bool, len(order.SelectedItems))
		for _, name := range order.SelectedItems {
			if seen[name] {
				continue
			}
			seen[name] = true
			line, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", repository.ErrCartLineNotFound, name)
			}
			lines = append(lines, line)
		}
	}

	selected := lines[:0]
	for _, line := range lines {
		if line.Quantity > 0 {
			selected = append(selected, line)
		}
	}
	if len(selected) == 0 {
		return nil, ErrEmptyCart
	}
	return selected, nil
}

// buildReceipt snapshots the committed lines. Unit prices come from the
// cart lines, so a later catalog edit cannot rewrite history.
func buildReceipt(order *Order, lines []*domain.CartLine) *domain.Receipt {
	items := make([]domain.ReceiptItem, len(lines))
	total := decimal.Zero
	for i, line := range lines {
		subtotal := line.Subtotal()
		items[i] = domain.ReceiptItem{
			Name:      line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
	}

	return &domain.Receipt{
		PaymentMethod: order.PaymentMethod,
		Items:         items,
		TotalAmount:   total,
		Address:       order.Address,
		ContactNumber: order.ContactNumber,
		OrderDate:     time.Now().UTC(),
		Email:         order.Email,
		Status:        domain.ReceiptStatusPending,
	}
}

func validateOrder(order *Order) error {
	if order.Email == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if !order.PaymentMethod.IsValid() {
		return &ValidationError{Field: "paymentMethod", Reason: "must be COD or GCASH"}
	}
	return nil
}

func (s *CheckoutService) invalidateCartCache(customerID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, customerID); err != nil {
		s.logger.Warnw("cart cache invalidation failed", "customer_id", customerID, "error", err)
	}
}
