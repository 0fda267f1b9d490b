package booking

import (
	"context"

	"localstay/internal/domain"
)

// LedgerTx is the booking ledger inside one transaction.
type LedgerTx interface {
	LockStay(stayID int64) (*domain.Stay, error)
	AcceptedOnStay(stayID, excludeID int64) ([]domain.Booking, error)
	Create(b *domain.Booking) error
	GetByID(id int64) (*domain.Booking, error)
	UpdateStatus(id int64, status domain.BookingStatus) error
	GetDetails(id int64) (*domain.BookingDetails, error)
}

type Ledger interface {
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetails, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]domain.BookingDetails, error)
}

// EventPublisher delivers booking events to a connected identity. Delivery is
// best-effort.
type EventPublisher interface {
	Publish(to domain.Identity, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.Identity, any) {}
