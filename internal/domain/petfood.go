package domain

import "github.com/shopspring/decimal"

// PetFood is one purchasable catalog item. OnHand is the authoritative
// stock counter and is only ever decremented through the stock ledger.
type PetFood struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	OnHand   int             `json:"onHand"`
}
