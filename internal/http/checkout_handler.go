package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/service"
)

type CheckoutService interface {
	Commit(ctx context.Context, order *service.Order) (*domain.Receipt, error)
}

type CheckoutHandler struct {
	svc     CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(svc CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		timeout: timeout,
	}
}

type CheckoutRequestDTO struct {
	Items         []string `json:"items"` // empty means the whole cart
	PaymentMethod string   `json:"paymentMethod"`
	Address       string   `json:"address"`
	ContactNumber string   `json:"contactNumber"`
}

type CheckoutResponseDTO struct {
	ReceiptID   int64           `json:"receiptId"`
	TotalAmount string          `json:"totalAmount"`
	Receipt     *domain.Receipt `json:"receipt"`
}

func (h *CheckoutHandler) Commit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customer, ok := customerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order := &service.Order{
		CustomerID:    customer.ID,
		Email:         customer.Email,
		SelectedItems: req.Items,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	}

	receipt, err := h.svc.Commit(ctx, order)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		ReceiptID:   receipt.ID,
		TotalAmount: receipt.TotalAmount.StringFixed(2),
		Receipt:     receipt,
	})
}
