package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BryleCahapay/petstore/internal/cache"
	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
	"github.com/BryleCahapay/petstore/internal/stock"
)

type CartService struct {
	repo    repository.CartRepository
	catalog repository.CatalogRepository
	ledger  stock.Ledger
	cache   cache.CartCache
	logger  *zap.SugaredLogger
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(
	repo repository.CartRepository,
	catalog repository.CatalogRepository,
	ledger stock.Ledger,
	cartCache cache.CartCache,
	logger *zap.SugaredLogger,
) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		ledger:  ledger,
		cache:   cartCache,
		logger:  logger,
	}
}

// ListCart returns the customer's cart lines, cache first.
func (s *CartService) ListCart(ctx context.Context, customerID int64) ([]*domain.CartLine, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(strconv.FormatInt(customerID, 10), func() (interface{}, error) {
		lines, err := s.cache.Get(ctx, customerID)
		if err == nil {
			return lines, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warnw("cart cache get failed", "customer_id", customerID, "error", err)
		}

		lines, errList := s.repo.ListByCustomer(ctx, customerID)
		if errList != nil {
			return nil, errList
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(setCtx, customerID, lines); errSet != nil {
				s.logger.Warnw("cart cache set failed", "customer_id", customerID, "error", errSet)
			}
		}()

		return lines, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*domain.CartLine), nil
}

// AddItem puts quantity units of itemName into the customer's cart,
// merging into an existing line when there is one. Availability is
// checked against the combined quantity before any mutation.
func (s *CartService) AddItem(ctx context.Context, customer domain.Customer, itemName string, quantity int) (*domain.CartLine, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if itemName == "" {
		return nil, &ValidationError{Field: "itemName", Reason: "is required"}
	}

	food, err := s.catalog.GetPetFoodByName(ctx, itemName)
	if err != nil {
		return nil, err
	}

	existing := 0
	line, err := s.repo.GetLine(ctx, customer.ID, itemName)
	if err != nil && !errors.Is(err, repository.ErrCartLineNotFound) {
		return nil, err
	}
	if line != nil {
		existing = line.Quantity
	}

	avail, err := s.ledger.CheckAvailability(ctx, itemName, existing+quantity)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, &InsufficientStockError{Items: []string{itemName}}
	}

	newLine := &domain.CartLine{
		CustomerID: customer.ID,
		ItemName:   itemName,
		Quantity:   quantity,
		Price:      food.Price,
		Email:      customer.Email,
	}
	if err := s.repo.AddItem(ctx, newLine); err != nil {
		return nil, err
	}

	s.invalidateCache(customer.ID)

	// Re-read so the caller sees the merged quantity, not just the delta.
	merged, err := s.repo.GetLine(ctx, customer.ID, itemName)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// UpdateQuantity sets the line's quantity, clamped to a minimum of 1,
// re-checking availability when the quantity grows.
func (s *CartService) UpdateQuantity(ctx context.Context, customerID int64, itemName string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	line, err := s.repo.GetLine(ctx, customerID, itemName)
	if err != nil {
		return err
	}

	if quantity > line.Quantity {
		avail, err := s.ledger.CheckAvailability(ctx, itemName, quantity)
		if err != nil {
			return err
		}
		if !avail.Available {
			return &InsufficientStockError{Items: []string{itemName}}
		}
	}

	if err := s.repo.UpdateQuantity(ctx, customerID, itemName, quantity); err != nil {
		return err
	}

	s.invalidateCache(customerID)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, lineID int64) error {
	if err := s.repo.Remove(ctx, lineID); err != nil {
		return err
	}

	s.invalidateCache(customerID)
	return nil
}

func (s *CartService) invalidateCache(customerID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, customerID); err != nil {
		s.logger.Warnw("cart cache invalidation failed", "customer_id", customerID, "error", err)
	}
}
