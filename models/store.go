package models

import (
	"database/sql"
	"time"
)

// Store is a cafe registered by a user. UserID never changes after insert.
type Store struct {
	ID          int            `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	MapsURL     sql.NullString `json:"maps_url" db:"maps_url"`
	Seating     int            `json:"seating" db:"seating"`
	WifiRating  int            `json:"wifi_rating" db:"wifi_rating"`
	PowerRating int            `json:"power_rating" db:"power_rating"`
	DateAdded   time.Time      `json:"date_added" db:"date_added"`
	UserID      int            `json:"user_id" db:"user_id"`
}

// NewStoreRequest is the add-store form payload. Integer fields are pointers
// so a missing value is distinguishable from zero.
type NewStoreRequest struct {
	Name        string `schema:"name" validate:"required,max=150"`
	MapsURL     string `schema:"maps_url" validate:"omitempty,url,max=200"`
	Seating     *int   `schema:"seating" validate:"required,min=0"`
	WifiRating  *int   `schema:"wifi_rating" validate:"required,min=1,max=5"`
	PowerRating *int   `schema:"power_rating" validate:"required,min=1,max=5"`
}

// ToStore builds the entity owned by userID. Call only after validation.
func (r NewStoreRequest) ToStore(userID int, now time.Time) Store {
	s := Store{
		Name:        r.Name,
		Seating:     *r.Seating,
		WifiRating:  *r.WifiRating,
		PowerRating: *r.PowerRating,
		DateAdded:   now.UTC(),
		UserID:      userID,
	}
	if r.MapsURL != "" {
		s.MapsURL = sql.NullString{String: r.MapsURL, Valid: true}
	}
	return s
}
