package stay

import (
	"context"

	"localstay/internal/domain"
	"localstay/internal/repository"
)

type StayRepository interface {
	Create(ctx context.Context, s *domain.Stay) error
	GetByID(ctx context.Context, id int64) (*domain.Stay, error)
	GetDetails(ctx context.Context, id int64) (*domain.StayDetails, error)
	ListPublic(ctx context.Context, f repository.StayFilters) ([]domain.StayDetails, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Stay, error)
	IDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	Update(ctx context.Context, s *domain.Stay) error
	DeleteWithBookings(ctx context.Context, stayID int64, authorize func(*domain.Stay) error) error
}

type OwnerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Owner, error)
}

// DetailsCache holds rendered stay details keyed by stay id.
type DetailsCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Delete(ctx context.Context, keys ...string)
}
