package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
	"github.com/BryleCahapay/petstore/internal/stock"
)

type CatalogService struct {
	repo   repository.CatalogRepository
	ledger stock.Ledger
	logger *zap.SugaredLogger
}

func NewCatalogService(repo repository.CatalogRepository, ledger stock.Ledger, logger *zap.SugaredLogger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		ledger: ledger,
		logger: logger,
	}
}

func (s *CatalogService) ListPetFoods(ctx context.Context) ([]*domain.PetFood, error) {
	return s.repo.ListPetFoods(ctx)
}

func (s *CatalogService) GetPetFood(ctx context.Context, id int64) (*domain.PetFood, error) {
	return s.repo.GetPetFood(ctx, id)
}

// UpdatePetFood is the admin edit: name, price and on_hand in one go.
func (s *CatalogService) UpdatePetFood(ctx context.Context, id int64, name string, price decimal.Decimal, onHand int) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if onHand < 0 {
		return &ValidationError{Field: "onHand", Reason: "must not be negative"}
	}

	if err := s.repo.UpdatePetFood(ctx, id, name, price, onHand); err != nil {
		return err
	}

	s.logger.Infow("pet food updated", "id", id, "name", name, "on_hand", onHand)
	return nil
}

// CheckStock is the advisory availability read backing the storefront's
// pre-checkout check. The commit path never trusts it.
func (s *CatalogService) CheckStock(ctx context.Context, itemName string, quantity int) (stock.Availability, error) {
	if itemName == "" {
		return stock.Availability{}, &ValidationError{Field: "itemName", Reason: "is required"}
	}
	if quantity < 1 {
		return stock.Availability{}, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	return s.ledger.CheckAvailability(ctx, itemName, quantity)
}
