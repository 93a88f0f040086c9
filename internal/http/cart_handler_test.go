package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
	"github.com/BryleCahapay/petstore/internal/service"
)

type CartServiceMock struct {
	lines     []*domain.CartLine
	line      *domain.CartLine
	err       error
	removedID int64
}

func (m *CartServiceMock) ListCart(_ context.Context, _ int64) ([]*domain.CartLine, error) {
	return m.lines, m.err
}

func (m *CartServiceMock) AddItem(_ context.Context, _ domain.Customer, _ string, _ int) (*domain.CartLine, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.line, nil
}

func (m *CartServiceMock) UpdateQuantity(_ context.Context, _ int64, _ string, _ int) error {
	return m.err
}

func (m *CartServiceMock) RemoveItem(_ context.Context, _ int64, lineID int64) error {
	m.removedID = lineID
	return m.err
}

func TestCartGet_ReturnsLines(t *testing.T) {
	mock := &CartServiceMock{
		lines: []*domain.CartLine{
			{ID: 1, CustomerID: 7, ItemName: "Whooppy", Quantity: 2, Price: decimal.NewFromInt(250)},
		},
	}
	handler := NewCartHandler(mock, 5*time.Second)

	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	request = withCustomer(request, domain.Customer{ID: 7, Email: "cus@mail.com"})
	recorder := httptest.NewRecorder()

	handler.Get(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	body := recorder.Body.String()

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(body), &lines); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(lines) != 1 || lines[0].ItemName != "Whooppy" {
		t.Errorf("unexpected cart lines: %+v", lines)
	}

	// The storefront client depends on this exact field name.
	if !strings.Contains(body, `"item_name":"Whooppy"`) {
		t.Errorf("expected item_name field in response, got %s", body)
	}
}

func TestCartGet_EmptyCartIsEmptyArray(t *testing.T) {
	handler := NewCartHandler(&CartServiceMock{}, 5*time.Second)

	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	request = withCustomer(request, domain.Customer{ID: 7})
	recorder := httptest.NewRecorder()

	handler.Get(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}
}

func TestCartGet_Unauthorized(t *testing.T) {
	handler := NewCartHandler(&CartServiceMock{}, 5*time.Second)

	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", recorder.Code)
	}
}

func TestCartAddItem_Success(t *testing.T) {
	mock := &CartServiceMock{
		line: &domain.CartLine{ID: 3, CustomerID: 7, ItemName: "Whooppy", Quantity: 2, Price: decimal.NewFromInt(250)},
	}
	handler := NewCartHandler(mock, 5*time.Second)

	body := `{"item_name":"Whooppy","quantity":2}`
	request := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body))
	request = withCustomer(request, domain.Customer{ID: 7, Email: "cus@mail.com"})
	recorder := httptest.NewRecorder()

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", recorder.Code)
	}
}

func TestCartAddItem_RejectsBadQuantity(t *testing.T) {
	handler := NewCartHandler(&CartServiceMock{}, 5*time.Second)

	for _, body := range []string{
		`{"item_name":"Whooppy","quantity":0}`,
		`{"item_name":"Whooppy","quantity":-2}`,
		`{"item_name":"Whooppy","quantity":100}`,
		`{"quantity":2}`,
	} {
		request := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body))
		request = withCustomer(request, domain.Customer{ID: 7})
		recorder := httptest.NewRecorder()

		handler.AddItem(recorder, request)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status 400, got %d", body, recorder.Code)
		}
	}
}

func TestCartAddItem_InsufficientStock(t *testing.T) {
	mock := &CartServiceMock{err: &service.InsufficientStockError{Items: []string{"Whooppy"}}}
	handler := NewCartHandler(mock, 5*time.Second)

	body := `{"item_name":"Whooppy","quantity":50}`
	request := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body))
	request = withCustomer(request, domain.Customer{ID: 7})
	recorder := httptest.NewRecorder()

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", recorder.Code)
	}
}

func TestCartAddItem_UnknownItem(t *testing.T) {
	mock := &CartServiceMock{err: repository.ErrPetFoodNotFound}
	handler := NewCartHandler(mock, 5*time.Second)

	body := `{"item_name":"Nonexistent","quantity":1}`
	request := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body))
	request = withCustomer(request, domain.Customer{ID: 7})
	recorder := httptest.NewRecorder()

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", recorder.Code)
	}
}

func TestCartRemoveItem_ParsesLineID(t *testing.T) {
	mock := &CartServiceMock{}
	handler := NewCartHandler(mock, 5*time.Second)

	request := httptest.NewRequest("DELETE", "/api/v1/cart/items/12", nil)
	request = withCustomer(request, domain.Customer{ID: 7})

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "12")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.RemoveItem(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if mock.removedID != 12 {
		t.Errorf("expected line id 12, got %d", mock.removedID)
	}
}

func TestCartRemoveItem_InvalidID(t *testing.T) {
	handler := NewCartHandler(&CartServiceMock{}, 5*time.Second)

	request := httptest.NewRequest("DELETE", "/api/v1/cart/items/abc", nil)
	request = withCustomer(request, domain.Customer{ID: 7})

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "abc")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	handler.RemoveItem(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
}
