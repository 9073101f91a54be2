package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coffee-wifi/models"

	"github.com/jmoiron/sqlx"
)

// SQLStoreRepository is the sqlx-backed StoreRepository.
type SQLStoreRepository struct {
	db *sqlx.DB
}

func NewSQLStoreRepository(db *sqlx.DB) *SQLStoreRepository {
	return &SQLStoreRepository{db: db}
}

const storeColumns = "id, name, maps_url, seating, wifi_rating, power_rating, date_added, user_id"

func (r *SQLStoreRepository) FindByName(ctx context.Context, name string) (*models.Store, error) {
	var store models.Store
	err := r.db.GetContext(ctx, &store, "SELECT "+storeColumns+" FROM stores WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	return &store, nil
}

// ListByOwner returns the stores of userID, oldest first.
func (r *SQLStoreRepository) ListByOwner(ctx context.Context, userID int) ([]models.Store, error) {
	stores := []models.Store{}
	err := r.db.SelectContext(ctx, &stores,
		"SELECT "+storeColumns+" FROM stores WHERE user_id = ? ORDER BY date_added, id", userID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// Insert stores s and sets its ID. A taken name yields ErrDuplicate.
func (r *SQLStoreRepository) Insert(ctx context.Context, s *models.Store) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO stores (name, maps_url, seating, wifi_rating, power_rating, date_added, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.Name, s.MapsURL, s.Seating, s.WifiRating, s.PowerRating, s.DateAdded, s.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert store: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	s.ID = int(id)
	return nil
}
