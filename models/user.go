package models

import "time"

// User represents a registered account.
// PasswordHash holds the salted hash only; never rendered or serialised.
type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminUserID is the id of the first registered user, who owns the admin view.
const AdminUserID = 1

// IsAdmin reports whether u is the first registered user.
func (u *User) IsAdmin() bool {
	return u != nil && u.ID == AdminUserID
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Name     string `schema:"name" validate:"required"`
	Email    string `schema:"email" validate:"required,email"`
	Password string `schema:"password" validate:"required"` // plaintext; hashed before storing
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `schema:"email" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

// UserSummary is a row of the admin overview.
type UserSummary struct {
	ID         int    `db:"id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	StoreCount int    `db:"store_count"`
}
