package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coffee-wifi/models"

	"github.com/jmoiron/sqlx"
)

// SQLUserRepository is the sqlx-backed UserRepository.
type SQLUserRepository struct {
	db *sqlx.DB
}

func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return r.findOne(ctx, "SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?", id)
}

func (r *SQLUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", email)
}

func (r *SQLUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// Insert stores user and sets its ID. A taken email yields ErrDuplicate.
func (r *SQLUserRepository) Insert(ctx context.Context, user *models.User) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = int(id)
	return nil
}

// ListSummaries returns every user with the number of stores they own.
func (r *SQLUserRepository) ListSummaries(ctx context.Context) ([]models.UserSummary, error) {
	summaries := []models.UserSummary{}
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT u.id, u.name, u.email, COUNT(s.id) AS store_count
		FROM users u
		LEFT JOIN stores s ON s.user_id = u.id
		GROUP BY u.id, u.name, u.email
		ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return summaries, nil
}
