package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the full request surface. Admin routes sit behind the
// AdminOnly guard; everything else only needs a forwarded identity.
func NewRouter(
	catalog *CatalogHandler,
	cart *CartHandler,
	checkout *CheckoutHandler,
	receipts *ReceiptHandler,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(HeaderAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/petfoods", catalog.List)
		r.Get("/petfoods/{id}", catalog.Get)
		r.Post("/stock/check", catalog.CheckStock)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.Get)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{item}", cart.UpdateQuantity)
			r.Delete("/items/{id}", cart.RemoveItem)
		})

		r.Post("/checkout", checkout.Commit)
		r.Get("/receipts", receipts.History)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminOnly)
			r.Put("/petfoods/{id}", catalog.Update)
			r.Get("/orders", receipts.AdminList)
			r.Get("/orders/fulfilled", receipts.Fulfilled)
			r.Put("/orders/{id}/status", receipts.UpdateStatus)
			r.Delete("/orders/{id}", receipts.Delete)
		})
	})

	return r
}
