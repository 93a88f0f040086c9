package stock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresLedger keeps the on_hand counter in the pet_foods table.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) CheckAvailability(ctx context.Context, itemName string, quantity int) (Availability, error) {
	var onHand int
	query := `SELECT on_hand FROM pet_foods WHERE name = $1`

	err := l.db.QueryRowContext(ctx, query, itemName).Scan(&onHand)
	if errors.Is(err, sql.ErrNoRows) {
		return Availability{}, ErrItemNotFound
	}
	if err != nil {
		return Availability{}, fmt.Errorf("query on_hand for %q: %w", itemName, err)
	}

	return Availability{Available: onHand >= quantity, OnHand: onHand}, nil
}

// Reserve relies on the row lock taken by UPDATE: two commits racing for
// the last units are applied one after the other and the loser matches
// zero rows.
func (l *PostgresLedger) Reserve(ctx context.Context, itemName string, quantity int) error {
	query := `UPDATE pet_foods
	          SET on_hand = on_hand - $2
	          WHERE name = $1 AND on_hand >= $2`

	result, err := l.db.ExecContext(ctx, query, itemName, quantity)
	if err != nil {
		return fmt.Errorf("reserve %d of %q: %w", quantity, itemName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows means either the item does not exist or on_hand was short.
	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM pet_foods WHERE name = $1)`
	if err := l.db.QueryRowContext(ctx, checkQuery, itemName).Scan(&exists); err != nil {
		return fmt.Errorf("check item %q exists: %w", itemName, err)
	}
	if !exists {
		return ErrItemNotFound
	}
	return ErrInsufficientStock
}

func (l *PostgresLedger) Release(ctx context.Context, itemName string, quantity int) error {
	query := `UPDATE pet_foods SET on_hand = on_hand + $2 WHERE name = $1`

	result, err := l.db.ExecContext(ctx, query, itemName, quantity)
	if err != nil {
		return fmt.Errorf("release %d of %q: %w", quantity, itemName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("release rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}
