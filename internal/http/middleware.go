package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/BryleCahapay/petstore/internal/domain"
)

type contextKey string

const (
	customerContextKey  contextKey = "customer"
	requestIDContextKey contextKey = "request_id"
)

// HeaderAuthMiddleware installs the identity the external auth layer
// forwards in headers. This service never manages sessions itself.
func HeaderAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get("X-User-Id"), 10, 64)
		if err != nil || id <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		customer := domain.Customer{
			ID:    id,
			Email: r.Header.Get("X-User-Email"),
			Role:  domain.Role(r.Header.Get("X-User-Role")),
		}
		if customer.Role == "" {
			customer.Role = domain.RoleCustomer
		}

		ctx := context.WithValue(r.Context(), customerContextKey, customer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly rejects requests whose identity is missing or not an admin.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customer, ok := customerFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
			return
		}
		if customer.Role != domain.RoleAdmin {
			respondError(w, http.StatusForbidden, "permission_denied", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func customerFromContext(ctx context.Context) (domain.Customer, bool) {
	customer, ok := ctx.Value(customerContextKey).(domain.Customer)
	return customer, ok
}
