package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// InsufficientStockError rejects a checkout or cart mutation and names
// every item that could not be satisfied.
type InsufficientStockError struct {
	Items []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for: %s", strings.Join(e.Items, ", "))
}

// ValidationError reports a missing or malformed request field. No state
// has changed when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
