package booking

import (
	"time"

	"localstay/internal/domain"
)

type CreateBookingRequest struct {
	StayID   int64  `json:"stay_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Guests   int    `json:"guests" binding:"required,min=1"`
}

type DecideRequest struct {
	Action string `json:"action" binding:"required"`
}

type BookingResponse struct {
	ID        int64                `json:"id"`
	StayID    int64                `json:"stay_id"`
	UserID    int64                `json:"user_id"`
	CheckIn   string               `json:"check_in"`
	CheckOut  string               `json:"check_out"`
	Guests    int                  `json:"guests"`
	Status    domain.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Stay      domain.StaySummary   `json:"stay"`
	User      domain.UserSummary   `json:"user"`
}

func ToResponse(d *domain.BookingDetails) BookingResponse {
	return BookingResponse{
		ID:        d.ID,
		StayID:    d.StayID,
		UserID:    d.UserID,
		CheckIn:   d.CheckIn.Format(domain.DateLayout),
		CheckOut:  d.CheckOut.Format(domain.DateLayout),
		Guests:    d.Guests,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		Stay:      d.Stay,
		User:      d.User,
	}
}

func ToResponses(list []domain.BookingDetails) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, ToResponse(&list[i]))
	}
	return out
}

// Event is pushed to the realtime feed after a ledger change.
type Event struct {
	Type    string          `json:"type"`
	Booking BookingResponse `json:"booking"`
}

const (
	EventRequested = "booking.requested"
	EventDecided   = "booking.decided"
)
