package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/stock"
)

type CatalogService interface {
	ListPetFoods(ctx context.Context) ([]*domain.PetFood, error)
	GetPetFood(ctx context.Context, id int64) (*domain.PetFood, error)
	UpdatePetFood(ctx context.Context, id int64, name string, price decimal.Decimal, onHand int) error
	CheckStock(ctx context.Context, itemName string, quantity int) (stock.Availability, error)
}

type CatalogHandler struct {
	svc     CatalogService
	timeout time.Duration
}

func NewCatalogHandler(svc CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		svc:     svc,
		timeout: timeout,
	}
}

type UpdatePetFoodRequestDTO struct {
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	OnHand int             `json:"onHand"`
}

type CheckStockRequestDTO struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	foods, err := h.svc.ListPetFoods(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if foods == nil {
		foods = []*domain.PetFood{}
	}

	respondJSON(w, http.StatusOK, foods)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	food, err := h.svc.GetPetFood(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, food)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	var req UpdatePetFoodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.svc.UpdatePetFood(ctx, id, req.Name, req.Price, req.OnHand); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "pet food updated successfully"})
}

func (h *CatalogHandler) CheckStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckStockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	avail, err := h.svc.CheckStock(ctx, req.ItemName, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, avail)
}
