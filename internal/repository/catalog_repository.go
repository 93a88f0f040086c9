package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrPetFoodNotFound = errors.New("pet food not found")

type CatalogRepository interface {
	ListPetFoods(ctx context.Context) ([]*domain.PetFood, error)
	GetPetFood(ctx context.Context, id int64) (*domain.PetFood, error)
	GetPetFoodByName(ctx context.Context, name string) (*domain.PetFood, error)
	UpdatePetFood(ctx context.Context, id int64, name string, price decimal.Decimal, onHand int) error
}

type PostgresCatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) ListPetFoods(ctx context.Context) ([]*domain.PetFood, error) {
	query := `
		SELECT id, name, price, image_url, on_hand
		FROM pet_foods
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pet foods: %w", err)
	}
	defer rows.Close()

	var foods []*domain.PetFood
	for rows.Next() {
		f := &domain.PetFood{}
		var price string
		if err := rows.Scan(&f.ID, &f.Name, &price, &f.ImageURL, &f.OnHand); err != nil {
			return nil, fmt.Errorf("failed to scan pet food: %w", err)
		}
		f.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		foods = append(foods, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return foods, nil
}

func (r *PostgresCatalogRepository) GetPetFood(ctx context.Context, id int64) (*domain.PetFood, error) {
	query := `
		SELECT id, name, price, image_url, on_hand
		FROM pet_foods
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresCatalogRepository) GetPetFoodByName(ctx context.Context, name string) (*domain.PetFood, error) {
	query := `
		SELECT id, name, price, image_url, on_hand
		FROM pet_foods
		WHERE name = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *PostgresCatalogRepository) scanOne(row *sql.Row) (*domain.PetFood, error) {
	f := &domain.PetFood{}
	var price string
	err := row.Scan(&f.ID, &f.Name, &price, &f.ImageURL, &f.OnHand)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPetFoodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan pet food: %w", err)
	}
	f.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	return f, nil
}

func (r *PostgresCatalogRepository) UpdatePetFood(ctx context.Context, id int64, name string, price decimal.Decimal, onHand int) error {
	query := `
		UPDATE pet_foods
		SET name = $1, price = $2, on_hand = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, name, price.StringFixed(2), onHand, id)
	if err != nil {
		return fmt.Errorf("failed to update pet food: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPetFoodNotFound
	}
	return nil
}
