package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var ErrCartLineNotFound = errors.New("cart line not found")

type CartRepository interface {
	// AddItem inserts a new line or, if the customer already has this
	// item, merges the quantity into the existing line.
	AddItem(ctx context.Context, line *domain.CartLine) error
	GetLine(ctx context.Context, customerID int64, itemName string) (*domain.CartLine, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, customerID int64, itemName string, quantity int) error
	Remove(ctx context.Context, lineID int64) error
	// DeleteLines removes the given items from a customer's cart after a
	// successful commit.
	DeleteLines(ctx context.Context, customerID int64, itemNames []string) error
}

type PostgresCartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

func (r *PostgresCartRepository) AddItem(ctx context.Context, line *domain.CartLine) error {
	// The UNIQUE (customer_id, item_name) constraint turns a duplicate
	// add into a quantity merge instead of a second row.
	query := `
		INSERT INTO cart (customer_id, item_name, quantity, price, email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, item_name)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		line.CustomerID,
		line.ItemName,
		line.Quantity,
		line.Price.StringFixed(2),
		line.Email,
	).Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *PostgresCartRepository) GetLine(ctx context.Context, customerID int64, itemName string) (*domain.CartLine, error) {
	query := `
		SELECT id, customer_id, item_name, quantity, price, email
		FROM cart
		WHERE customer_id = $1 AND item_name = $2
	`
	return scanCartLine(r.db.QueryRowContext(ctx, query, customerID, itemName))
}

func (r *PostgresCartRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.CartLine, error) {
	query := `
		SELECT id, customer_id, item_name, quantity, price, email
		FROM cart
		WHERE customer_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var lines []*domain.CartLine
	for rows.Next() {
		line := &domain.CartLine{}
		var price string
		if err := rows.Scan(&line.ID, &line.CustomerID, &line.ItemName, &line.Quantity, &price, &line.Email); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		line.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cart price: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}

func (r *PostgresCartRepository) UpdateQuantity(ctx context.Context, customerID int64, itemName string, quantity int) error {
	query := `UPDATE cart SET quantity = $3 WHERE customer_id = $1 AND item_name = $2`

	result, err := r.db.ExecContext(ctx, query, customerID, itemName, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (r *PostgresCartRepository) Remove(ctx context.Context, lineID int64) error {
	query := `DELETE FROM cart WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (r *PostgresCartRepository) DeleteLines(ctx context.Context, customerID int64, itemNames []string) error {
	if len(itemNames) == 0 {
		return nil
	}

	query := `DELETE FROM cart WHERE customer_id = $1 AND item_name = ANY($2)`

	if _, err := r.db.ExecContext(ctx, query, customerID, pq.Array(itemNames)); err != nil {
		return fmt.Errorf("failed to delete committed cart lines: %w", err)
	}
	return nil
}

func scanCartLine(row *sql.Row) (*domain.CartLine, error) {
	line := &domain.CartLine{}
	var price string
	err := row.Scan(&line.ID, &line.CustomerID, &line.ItemName, &line.Quantity, &price, &line.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cart line: %w", err)
	}
	line.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cart price: %w", err)
	}
	return line, nil
}
