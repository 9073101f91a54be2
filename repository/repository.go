// Package repository is the persistence gateway for users and stores.
// Entities are plain structs from package models; SQL lives here.
package repository

import (
	"context"
	"errors"

	"coffee-wifi/models"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("already exists")
)

// UserRepository reads and writes users.
type UserRepository interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	ListSummaries(ctx context.Context) ([]models.UserSummary, error)
}

// StoreRepository reads and writes stores.
type StoreRepository interface {
	FindByName(ctx context.Context, name string) (*models.Store, error)
	ListByOwner(ctx context.Context, userID int) ([]models.Store, error)
	Insert(ctx context.Context, store *models.Store) error
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
