package domain

import "time"

type Stay struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location"`
	PricePerNight int       `json:"price_per_night"`
	ImageURL      string    `json:"image_url,omitempty"`
	Images        []string  `json:"images"`
	Facilities    []string  `json:"facilities"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StayDetails is a stay joined with the owner fields needed for display
// and for the bookable check.
type StayDetails struct {
	Stay
	Owner OwnerSummary `json:"owner"`
}

// Bookable reports whether the stay may be shown to travelers: the stay is
// active and its owner is verified.
func (s StayDetails) Bookable() bool {
	return s.IsActive && s.Owner.IsVerified
}

type StaySummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	ImageURL      string `json:"image_url,omitempty"`
	PricePerNight int    `json:"price_per_night"`
}
