package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/stock"
)

// ItemStockError aborts a commit transaction: reserving Item failed.
// Err is stock.ErrInsufficientStock or stock.ErrItemNotFound.
type ItemStockError struct {
	Item string
	Err  error
}

func (e *ItemStockError) Error() string {
	return fmt.Sprintf("stock reservation for %q failed: %v", e.Item, e.Err)
}

func (e *ItemStockError) Unwrap() error {
	return e.Err
}

// CheckoutRepository applies the order commit unit.
type CheckoutRepository interface {
	// CommitOrder runs the whole commit in one transaction: the
	// conditional decrement for every receipt item, the receipt insert
	// with its outbox event, and the cart cleanup. Either all of it
	// lands or none of it does; no reader ever observes a decrement
	// without its receipt, and a crash mid-commit loses nothing.
	CommitOrder(ctx context.Context, receipt *domain.Receipt, customerID int64) (int64, error)
}

func (r *PostgresReceiptRepository) CommitOrder(ctx context.Context, receipt *domain.Receipt, customerID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin commit tx: %w", err)
	}
	defer tx.Rollback()

	names := make([]string, len(receipt.Items))
	for i, item := range receipt.Items {
		if err := reserveTx(ctx, tx, item.Name, item.Quantity); err != nil {
			return 0, err
		}
		names[i] = item.Name
	}

	id, err := insertReceiptTx(ctx, tx, receipt)
	if err != nil {
		return 0, err
	}

	deleteQuery := `DELETE FROM cart WHERE customer_id = $1 AND item_name = ANY($2)`
	if _, err := tx.ExecContext(ctx, deleteQuery, customerID, pq.Array(names)); err != nil {
		return 0, fmt.Errorf("delete committed cart lines: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit order tx: %w", err)
	}

	receipt.ID = id
	return id, nil
}

// reserveTx is the authoritative stock check. The conditional decrement
// matches zero rows when on_hand is short, and the row lock it takes
// serializes concurrent commits against the same item until the
// transaction resolves.
func reserveTx(ctx context.Context, tx *sql.Tx, itemName string, quantity int) error {
	query := `UPDATE pet_foods
	          SET on_hand = on_hand - $2
	          WHERE name = $1 AND on_hand >= $2`

	result, err := tx.ExecContext(ctx, query, itemName, quantity)
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

	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM pet_foods WHERE name = $1)`
	if err := tx.QueryRowContext(ctx, checkQuery, itemName).Scan(&exists); err != nil {
		return fmt.Errorf("check item %q exists: %w", itemName, err)
	}

	cause := stock.ErrInsufficientStock
	if !exists {
		cause = stock.ErrItemNotFound
	}
	return &ItemStockError{Item: itemName, Err: cause}
}
