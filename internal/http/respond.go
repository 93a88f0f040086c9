package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/BryleCahapay/petstore/internal/repository"
	"github.com/BryleCahapay/petstore/internal/service"
	"github.com/BryleCahapay/petstore/internal/stock"
)

type ErrorResponse struct {
	Error string   `json:"error"`
	Code  string   `json:"code,omitempty"`
	Items []string `json:"items,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service and repository errors onto HTTP. The
// caller never learns a half-applied commit happened: storage failures
// arrive here only after the service has compensated.
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, "invalid_request", validationErr.Error())
		return
	}

	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error: stockErr.Error(),
			Code:  "insufficient_stock",
			Items: stockErr.Items,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, repository.ErrPetFoodNotFound),
		errors.Is(err, repository.ErrCartLineNotFound),
		errors.Is(err, repository.ErrReceiptNotFound),
		errors.Is(err, stock.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
