package stock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedger_CheckAvailability(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock("Whooppy", 5)

	avail, err := ledger.CheckAvailability(context.Background(), "Whooppy", 3)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 5, avail.OnHand)

	avail, err = ledger.CheckAvailability(context.Background(), "Whooppy", 6)
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, 5, avail.OnHand)

	_, err = ledger.CheckAvailability(context.Background(), "Unknown", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryLedger_Reserve_DecrementsOnHand(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock("Whooppy", 5)

	require.NoError(t, ledger.Reserve(context.Background(), "Whooppy", 3))

	avail, err := ledger.CheckAvailability(context.Background(), "Whooppy", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, avail.OnHand)
}

func TestMemoryLedger_Reserve_InsufficientStock(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock("Whooppy", 2)

	err := ledger.Reserve(context.Background(), "Whooppy", 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// A failed reserve must not change the counter.
	avail, err := ledger.CheckAvailability(context.Background(), "Whooppy", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, avail.OnHand)
}

func TestMemoryLedger_Reserve_UnknownItem(t *testing.T) {
	ledger := NewMemoryLedger()

	err := ledger.Reserve(context.Background(), "Unknown", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryLedger_Release_RestoresOnHand(t *testing.T) {
	ledger := NewMemoryLedger()
	ledger.SetStock("Whooppy", 5)

	require.NoError(t, ledger.Reserve(context.Background(), "Whooppy", 4))
	require.NoError(t, ledger.Release(context.Background(), "Whooppy", 4))

	avail, err := ledger.CheckAvailability(context.Background(), "Whooppy", 5)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 5, avail.OnHand)
}

// Concurrent reservations whose combined quantity exceeds on_hand must
// succeed exactly as many times as fit, and on_hand must never go negative.
func TestMemoryLedger_Reserve_Concurrent(t *testing.T) {
	const (
		onHand     = 10
		attempts   = 50
		perAttempt = 1
	)

	ledger := NewMemoryLedger()
	ledger.SetStock("Whooppy", onHand)

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Reserve(context.Background(), "Whooppy", perAttempt)
		}()
	}
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrInsufficientStock)
			failures++
		}
	}

	assert.Equal(t, onHand, successes)
	assert.Equal(t, attempts-onHand, failures)

	avail, err := ledger.CheckAvailability(context.Background(), "Whooppy", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, avail.OnHand)
}
