package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
)

type ReceiptService struct {
	repo   repository.ReceiptRepository
	logger *zap.SugaredLogger
}

func NewReceiptService(repo repository.ReceiptRepository, logger *zap.SugaredLogger) *ReceiptService {
	return &ReceiptService{
		repo:   repo,
		logger: logger,
	}
}

// History returns a customer's receipts, newest first.
func (s *ReceiptService) History(ctx context.Context, email string) ([]*domain.Receipt, error) {
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	return s.repo.ListByEmail(ctx, email)
}

// AdminList returns the order-list projection of every receipt.
func (s *ReceiptService) AdminList(ctx context.Context) ([]*repository.ReceiptSummary, error) {
	return s.repo.ListAll(ctx)
}

// FulfilledOrders returns receipts already moved past pending.
func (s *ReceiptService) FulfilledOrders(ctx context.Context) ([]*domain.Receipt, error) {
	return s.repo.ListFulfilled(ctx)
}

// UpdateStatus flips fulfillment status. Both directions are allowed so
// an admin can undo a mistaken mark.
func (s *ReceiptService) UpdateStatus(ctx context.Context, receiptID int64, status domain.ReceiptStatus) error {
	if !status.IsValid() {
		return &ValidationError{Field: "status", Reason: "must be pending or completed"}
	}

	if err := s.repo.UpdateStatus(ctx, receiptID, status); err != nil {
		return err
	}

	s.logger.Infow("receipt status updated", "receipt_id", receiptID, "status", status)
	return nil
}

// Delete hard-deletes an erroneous order. Admin only.
func (s *ReceiptService) Delete(ctx context.Context, receiptID int64) error {
	if err := s.repo.Delete(ctx, receiptID); err != nil {
		return err
	}

	s.logger.Infow("receipt deleted", "receipt_id", receiptID)
	return nil
}
