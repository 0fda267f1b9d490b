package domain

import "time"

type BookingStatus string

const (
	BookingRequested BookingStatus = "REQUESTED"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingRejected  BookingStatus = "REJECTED"
	// BookingCancelled is terminal and has no transition leading to it yet.
	BookingCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Terminal() bool {
	return s == BookingAccepted || s == BookingRejected || s == BookingCancelled
}

type Booking struct {
	ID        int64         `json:"id"`
	StayID    int64         `json:"stay_id"`
	UserID    int64         `json:"user_id"`
	CheckIn   time.Time     `json:"check_in"`
	CheckOut  time.Time     `json:"check_out"`
	Guests    int           `json:"guests"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (b Booking) Range() DateRange {
	return DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// BookingDetails is a booking with its stay and requester resolved by an
// explicit join.
type BookingDetails struct {
	Booking
	Stay StaySummary
	User UserSummary
}
