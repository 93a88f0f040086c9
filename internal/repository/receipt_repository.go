package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrReceiptNotFound = errors.New("receipt not found")

// OutboxEvent is one pending order event written in the same transaction
// as its receipt and published later by the outbox poller.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
}

// ReceiptSummary is the admin order-list projection.
type ReceiptSummary struct {
	ID          int64                `json:"id"`
	Email       string               `json:"email"`
	TotalAmount decimal.Decimal      `json:"totalAmount"`
	OrderDate   time.Time            `json:"orderDate"`
	Status      domain.ReceiptStatus `json:"status"`
}

type ReceiptRepository interface {
	// Append inserts the receipt and its outbox event as one transaction
	// and returns the generated receipt id.
	Append(ctx context.Context, receipt *domain.Receipt) (int64, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Receipt, error)
	ListAll(ctx context.Context) ([]*ReceiptSummary, error)
	// ListFulfilled returns receipts whose status is set and not pending.
	ListFulfilled(ctx context.Context) ([]*domain.Receipt, error)
	UpdateStatus(ctx context.Context, receiptID int64, status domain.ReceiptStatus) error
	Delete(ctx context.Context, receiptID int64) error

	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, eventID int64) error
}

type PostgresReceiptRepository struct {
	db *sql.DB
}

func NewReceiptRepository(db *sql.DB) *PostgresReceiptRepository {
	return &PostgresReceiptRepository{db: db}
}

func (r *PostgresReceiptRepository) Append(ctx context.Context, receipt *domain.Receipt) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin receipt tx: %w", err)
	}
	defer tx.Rollback()

	id, err := insertReceiptTx(ctx, tx, receipt)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit receipt tx: %w", err)
	}

	receipt.ID = id
	return id, nil
}

// insertReceiptTx writes the receipt row and its outbox event inside the
// caller's transaction.
func insertReceiptTx(ctx context.Context, tx *sql.Tx, receipt *domain.Receipt) (int64, error) {
	itemsJSON, err := json.Marshal(receipt.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal receipt items: %w", err)
	}

	query := `
		INSERT INTO receipts (payment_method, cart_items, total_amount, address, contact_number, order_date, email, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err = tx.QueryRowContext(ctx, query,
		receipt.PaymentMethod,
		itemsJSON,
		receipt.TotalAmount.StringFixed(2),
		receipt.Address,
		receipt.ContactNumber,
		receipt.OrderDate,
		receipt.Email,
		receipt.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert receipt: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"receipt_id":   id,
		"email":        receipt.Email,
		"items":        receipt.Items,
		"total_amount": receipt.TotalAmount,
		"ordered_at":   receipt.OrderDate,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal order event: %w", err)
	}

	outboxQuery := `
		INSERT INTO order_outbox (aggregate_id, event_type, payload)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, outboxQuery, fmt.Sprint(id), "order.placed", payload); err != nil {
		return 0, fmt.Errorf("insert order outbox event: %w", err)
	}

	return id, nil
}

func (r *PostgresReceiptRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Receipt, error) {
	query := `
		SELECT id, payment_method, cart_items, total_amount, address, contact_number, order_date, email, status
		FROM receipts
		WHERE email = $1
		ORDER BY order_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("query receipts by email: %w", err)
	}
	defer rows.Close()

	return scanReceipts(rows)
}

func (r *PostgresReceiptRepository) ListAll(ctx context.Context) ([]*ReceiptSummary, error) {
	query := `
		SELECT id, email, total_amount, order_date, status
		FROM receipts
		ORDER BY order_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var summaries []*ReceiptSummary
	for rows.Next() {
		s := &ReceiptSummary{}
		var total string
		if err := rows.Scan(&s.ID, &s.Email, &total, &s.OrderDate, &s.Status); err != nil {
			return nil, fmt.Errorf("scan receipt summary: %w", err)
		}
		s.TotalAmount, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse receipt total: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return summaries, nil
}

func (r *PostgresReceiptRepository) ListFulfilled(ctx context.Context) ([]*domain.Receipt, error) {
	query := `
		SELECT id, payment_method, cart_items, total_amount, address, contact_number, order_date, email, status
		FROM receipts
		WHERE status IS NOT NULL AND status != 'pending'
		ORDER BY order_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query fulfilled receipts: %w", err)
	}
	defer rows.Close()

	return scanReceipts(rows)
}

func (r *PostgresReceiptRepository) UpdateStatus(ctx context.Context, receiptID int64, status domain.ReceiptStatus) error {
	query := `UPDATE receipts SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, receiptID)
	if err != nil {
		return fmt.Errorf("update receipt status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status rows affected: %w", err)
	}
	if affected == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

func (r *PostgresReceiptRepository) Delete(ctx context.Context, receiptID int64) error {
	query := `DELETE FROM receipts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, receiptID)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if affected == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

func (r *PostgresReceiptRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `
		SELECT id, aggregate_id, event_type, payload
		FROM order_outbox
		WHERE processed_at IS NULL
		ORDER BY id
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		ev := &OutboxEvent{}
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (r *PostgresReceiptRepository) MarkEventProcessed(ctx context.Context, eventID int64) error {
	query := `UPDATE order_outbox SET processed_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}

func scanReceipts(rows *sql.Rows) ([]*domain.Receipt, error) {
	var receipts []*domain.Receipt
	for rows.Next() {
		rec := &domain.Receipt{}
		var itemsJSON []byte
		var total string
		err := rows.Scan(
			&rec.ID,
			&rec.PaymentMethod,
			&itemsJSON,
			&total,
			&rec.Address,
			&rec.ContactNumber,
			&rec.OrderDate,
			&rec.Email,
			&rec.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan receipt row: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &rec.Items); err != nil {
			return nil, fmt.Errorf("unmarshal receipt items: %w", err)
		}
		rec.TotalAmount, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse receipt total: %w", err)
		}
		receipts = append(receipts, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return receipts, nil
}
