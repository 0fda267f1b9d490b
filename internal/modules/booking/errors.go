package booking

import "errors"

var (
	ErrNotFound         = errors.New("not_found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
	ErrInvalidGuests    = errors.New("guests must be at least 1")
	ErrDatesUnavailable = errors.New("dates unavailable")
	ErrInvalidAction    = errors.New("invalid action")
)
