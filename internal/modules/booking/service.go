package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"localstay/internal/domain"
)

type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// ParseAction matches action tokens case-insensitively.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionAccept:
		return ActionAccept, nil
	case ActionReject:
		return ActionReject, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

type CreateInput struct {
	StayID   int64
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

type Service struct {
	ledger Ledger
	events EventPublisher
}

func NewService(ledger Ledger, events EventPublisher) *Service {
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{ledger: ledger, events: events}
}

// CreateBooking records a REQUESTED booking for the caller. The conflict
// check and the insert share one transaction holding the stay lock.
func (s *Service) CreateBooking(ctx context.Context, caller domain.Identity, in CreateInput) (*domain.BookingDetails, error) {
	if !caller.Can(domain.CapRequestBooking) {
		return nil, ErrUnauthorized
	}

	r := domain.NewDateRange(in.CheckIn, in.CheckOut)
	if !r.Valid() {
		return nil, ErrInvalidDateRange
	}
	if in.Guests < 1 {
		return nil, ErrInvalidGuests
	}

	var (
		out     *domain.BookingDetails
		ownerID int64
	)
	err := s.ledger.InTx(ctx, func(tx LedgerTx) error {
		stay, err := tx.LockStay(in.StayID)
		if err != nil {
			return mapRepoErr(err)
		}
		ownerID = stay.OwnerID

		conflict, err := FindConflict(tx, stay.ID, r, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return fmt.Errorf("%w: %s overlaps accepted booking %d", ErrDatesUnavailable, r, conflict.ID)
		}

		b := &domain.Booking{
			StayID:   stay.ID,
			UserID:   caller.ID,
			CheckIn:  r.CheckIn,
			CheckOut: r.CheckOut,
			Guests:   in.Guests,
			Status:   domain.BookingRequested,
		}
		if err := tx.Create(b); err != nil {
			return mapRepoErr(err)
		}

		out, err = tx.GetDetails(b.ID)
		return mapRepoErr(err)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking requested",
		"booking_id", out.ID, "stay_id", out.StayID, "user_id", out.UserID, "range", r.String())
	s.events.Publish(domain.Identity{ID: ownerID, Role: domain.RoleOwner}, Event{
		Type:    EventRequested,
		Booking: ToResponse(out),
	})
	return out, nil
}

func (s *Service) ListForRequester(ctx context.Context, caller domain.Identity) ([]domain.BookingDetails, error) {
	if !caller.Can(domain.CapRequestBooking) {
		return nil, ErrUnauthorized
	}
	return s.ledger.ListByUser(ctx, caller.ID)
}

func (s *Service) ListForOwner(ctx context.Context, caller domain.Identity) ([]domain.BookingDetails, error) {
	if !caller.Can(domain.CapDecideBooking) {
		return nil, ErrUnauthorized
	}
	return s.ledger.ListForOwner(ctx, caller.ID)
}

// DecideBooking moves a REQUESTED booking to ACCEPTED or REJECTED. Only the
// owner of the booking's stay may decide. Accepting re-runs the conflict
// check under the stay lock so two overlapping requests cannot both win.
func (s *Service) DecideBooking(ctx context.Context, caller domain.Identity, bookingID int64, action string) (*domain.BookingDetails, error) {
	if !caller.Can(domain.CapDecideBooking) {
		return nil, ErrUnauthorized
	}

	var out *domain.BookingDetails
	err := s.ledger.InTx(ctx, func(tx LedgerTx) error {
		b, err := tx.GetByID(bookingID)
		if err != nil {
			return mapRepoErr(err)
		}
		stay, err := tx.LockStay(b.StayID)
		if err != nil {
			return mapRepoErr(err)
		}
		if stay.OwnerID != caller.ID {
			return ErrUnauthorized
		}

		act, err := ParseAction(action)
		if err != nil {
			return err
		}

		// Another writer may have decided it while we waited for the lock.
		b, err = tx.GetByID(bookingID)
		if err != nil {
			return mapRepoErr(err)
		}
		if b.Status != domain.BookingRequested {
			return fmt.Errorf("%w: booking %d is %s", ErrInvalidAction, b.ID, b.Status)
		}

		next := domain.BookingRejected
		if act == ActionAccept {
			conflict, err := FindConflict(tx, b.StayID, b.Range(), b.ID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return fmt.Errorf("%w: %s overlaps accepted booking %d", ErrDatesUnavailable, b.Range(), conflict.ID)
			}
			next = domain.BookingAccepted
		}

		if err := tx.UpdateStatus(b.ID, next); err != nil {
			return mapRepoErr(err)
		}
		out, err = tx.GetDetails(b.ID)
		return mapRepoErr(err)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking decided",
		"booking_id", out.ID, "stay_id", out.StayID, "status", out.Status, "owner_id", caller.ID)
	s.events.Publish(domain.Identity{ID: out.UserID, Role: domain.RoleUser}, Event{
		Type:    EventDecided,
		Booking: ToResponse(out),
	})
	return out, nil
}
