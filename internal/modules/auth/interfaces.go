package auth

import (
	"context"

	"localstay/internal/domain"
)

// UserRepository is the subset of the user store the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type OwnerRepository interface {
	Create(ctx context.Context, o *domain.Owner) error
	GetByEmail(ctx context.Context, email string) (*domain.Owner, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *domain.Admin) error
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type TokenIssuer interface {
	GenerateToken(id domain.Identity) (string, error)
}
