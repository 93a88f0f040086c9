package stock

import (
	"context"
	"errors"
)

// Common errors returned by the ledger
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Availability is the advisory result of a stock check. OnHand is the
// counter value at read time and may be stale by commit time.
type Availability struct {
	Available bool `json:"available"`
	OnHand    int  `json:"onHand"`
}

// Ledger is the authoritative inventory counter per pet food.
//
// CheckAvailability is a pure read and advisory only: time passes between
// check and commit, so callers must still go through Reserve. Reserve is
// the sole authoritative check, implemented as a single conditional
// decrement so that concurrent commits against the same item are
// serialized by the storage engine, not by read-then-write in Go.
type Ledger interface {
	// CheckAvailability reports whether on_hand covers quantity right now.
	CheckAvailability(ctx context.Context, itemName string, quantity int) (Availability, error)

	// Reserve atomically decrements on_hand by quantity if and only if
	// on_hand >= quantity. Returns ErrInsufficientStock otherwise.
	Reserve(ctx context.Context, itemName string, quantity int) error

	// Release re-increments on_hand by quantity, compensating a Reserve
	// from a commit attempt that could not complete.
	Release(ctx context.Context, itemName string, quantity int) error
}
