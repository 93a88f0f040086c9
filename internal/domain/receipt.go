package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "COD"
	PaymentGCash          PaymentMethod = "GCASH"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCashOnDelivery || m == PaymentGCash
}

type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "pending"
	ReceiptStatusCompleted ReceiptStatus = "completed"
)

func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptStatusPending || s == ReceiptStatusCompleted
}

// ReceiptItem is a snapshot of one committed cart line. Prices are copied
// at commit time so later catalog edits never change historical receipts.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Receipt is the immutable record of a completed order. Status is the
// only field an admin may change after the fact.
type Receipt struct {
	ID            int64           `json:"id"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Items         []ReceiptItem   `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Address       string          `json:"address"`
	ContactNumber string          `json:"contactNumber"`
	OrderDate     time.Time       `json:"orderDate"`
	Email         string          `json:"email"`
	Status        ReceiptStatus   `json:"status"`
}

// ItemNames returns the flat list of ordered item names, the shape the
// customer-facing history endpoint exposes.
func (r Receipt) ItemNames() []string {
	names := make([]string, len(r.Items))
	for i, item := range r.Items {
		names[i] = item.Name
	}
	return names
}
