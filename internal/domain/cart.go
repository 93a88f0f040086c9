package domain

import "github.com/shopspring/decimal"

// CartLine is one customer's pending quantity of one pet food.
// There is at most one line per (customer, item) pair; adding the same
// item again merges into the existing line.
type CartLine struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customerId"`
	// item_name breaks the camelCase convention on purpose: it is the
	// field name the storefront client already sends and renders.
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Email    string          `json:"email"`
}

// Subtotal is the line price captured at add-to-cart time times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
