package stock

import (
	"context"
	"sync"
)

// MemoryLedger implements Ledger with in-memory counters. It mirrors the
// conditional-decrement semantics of PostgresLedger under a mutex and is
// used in tests and local development without a database.
type MemoryLedger struct {
	mu     sync.RWMutex
	onHand map[string]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{onHand: make(map[string]int)}
}

// SetStock sets the counter for an item (used for initialization).
func (l *MemoryLedger) SetStock(itemName string, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onHand[itemName] = quantity
}

func (l *MemoryLedger) CheckAvailability(_ context.Context, itemName string, quantity int) (Availability, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	onHand, exists := l.onHand[itemName]
	if !exists {
		return Availability{}, ErrItemNotFound
	}
	return Availability{Available: onHand >= quantity, OnHand: onHand}, nil
}

func (l *MemoryLedger) Reserve(_ context.Context, itemName string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	onHand, exists := l.onHand[itemName]
	if !exists {
		return ErrItemNotFound
	}
	if onHand < quantity {
		return ErrInsufficientStock
	}

	l.onHand[itemName] = onHand - quantity
	return nil
}

func (l *MemoryLedger) Release(_ context.Context, itemName string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.onHand[itemName]; !exists {
		return ErrItemNotFound
	}

	l.onHand[itemName] += quantity
	return nil
}
