package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
)

type ReceiptService interface {
	History(ctx context.Context, email string) ([]*domain.Receipt, error)
	AdminList(ctx context.Context) ([]*repository.ReceiptSummary, error)
	FulfilledOrders(ctx context.Context) ([]*domain.Receipt, error)
	UpdateStatus(ctx context.Context, receiptID int64, status domain.ReceiptStatus) error
	Delete(ctx context.Context, receiptID int64) error
}

type ReceiptHandler struct {
	svc     ReceiptService
	timeout time.Duration
}

func NewReceiptHandler(svc ReceiptService, timeout time.Duration) *ReceiptHandler {
	return &ReceiptHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// HistoryItemDTO keeps the customer history response shape the
// storefront already consumes: cartItems is the flat name list.
type HistoryItemDTO struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	CartItems     []string             `json:"cartItems"`
	TotalAmount   string               `json:"totalAmount"`
	Address       string               `json:"address"`
	ContactNumber string               `json:"contactNumber"`
	OrderDate     time.Time            `json:"orderDate"`
	Email         string               `json:"email"`
	Status        domain.ReceiptStatus `json:"status"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *ReceiptHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customer, ok := customerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	receipts, err := h.svc.History(ctx, customer.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	history := make([]HistoryItemDTO, len(receipts))
	for i, rec := range receipts {
		history[i] = HistoryItemDTO{
			PaymentMethod: rec.PaymentMethod,
			CartItems:     rec.ItemNames(),
			TotalAmount:   rec.TotalAmount.StringFixed(2),
			Address:       rec.Address,
			ContactNumber: rec.ContactNumber,
			OrderDate:     rec.OrderDate,
			Email:         rec.Email,
			Status:        rec.Status,
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cartItems": history})
}

func (h *ReceiptHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summaries, err := h.svc.AdminList(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if summaries == nil {
		summaries = []*repository.ReceiptSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"receipts": summaries})
}

func (h *ReceiptHandler) Fulfilled(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receipts, err := h.svc.FulfilledOrders(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if receipts == nil {
		receipts = []*domain.Receipt{}
	}

	respondJSON(w, http.StatusOK, receipts)
}

func (h *ReceiptHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receiptID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || receiptID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.svc.UpdateStatus(ctx, receiptID, domain.ReceiptStatus(req.Status)); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "order status updated successfully"})
}

func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receiptID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || receiptID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	if err := h.svc.Delete(ctx, receiptID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "order deleted successfully"})
}
