package admin

import (
	"context"

	"localstay/internal/domain"
)

type OwnerRepository interface {
	List(ctx context.Context, unverifiedOnly bool) ([]domain.Owner, error)
	SetVerified(ctx context.Context, id int64, verified bool) (*domain.Owner, error)
	ToggleVerified(ctx context.Context, id int64) (*domain.Owner, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
}

// StayCache is told when an owner's verification changes, since that flips
// whether their stays are bookable.
type StayCache interface {
	InvalidateOwner(ctx context.Context, ownerID int64) error
}
