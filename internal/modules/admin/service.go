package admin

import (
	"context"
	"errors"
	"log/slog"

	"localstay/internal/domain"
	"localstay/internal/repository"
)

var (
	ErrNotFound     = errors.New("owner not found")
	ErrUnauthorized = errors.New("unauthorized")
)

type Service struct {
	owners OwnerRepository
	users  UserRepository
	stays  StayCache
}

func NewService(owners OwnerRepository, users UserRepository, stays StayCache) *Service {
	return &Service{owners: owners, users: users, stays: stays}
}

func (s *Service) ListOwners(ctx context.Context, caller domain.Identity, unverifiedOnly bool) ([]OwnerResponse, error) {
	if !caller.Can(domain.CapVerifyOwners) {
		return nil, ErrUnauthorized
	}
	list, err := s.owners.List(ctx, unverifiedOnly)
	if err != nil {
		return nil, err
	}
	return toOwnerResponses(list), nil
}

// VerifyOwner marks the owner verified. Verifying twice is a no-op.
func (s *Service) VerifyOwner(ctx context.Context, caller domain.Identity, ownerID int64) (*OwnerResponse, error) {
	if !caller.Can(domain.CapVerifyOwners) {
		return nil, ErrUnauthorized
	}
	owner, err := s.owners.SetVerified(ctx, ownerID, true)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.afterVerificationChange(ctx, caller, owner)

	resp := toOwnerResponse(*owner)
	return &resp, nil
}

// ToggleOwnerStatus flips verification. An unverified owner's stays leave
// the public feed and cannot be listed anew.
func (s *Service) ToggleOwnerStatus(ctx context.Context, caller domain.Identity, ownerID int64) (*OwnerResponse, error) {
	if !caller.Can(domain.CapVerifyOwners) {
		return nil, ErrUnauthorized
	}
	owner, err := s.owners.ToggleVerified(ctx, ownerID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.afterVerificationChange(ctx, caller, owner)

	resp := toOwnerResponse(*owner)
	return &resp, nil
}

func (s *Service) ListUsers(ctx context.Context, caller domain.Identity) ([]UserResponse, error) {
	if !caller.Can(domain.CapVerifyOwners) {
		return nil, ErrUnauthorized
	}
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(list), nil
}

func (s *Service) afterVerificationChange(ctx context.Context, caller domain.Identity, owner *domain.Owner) {
	slog.InfoContext(ctx, "owner verification changed",
		"owner_id", owner.ID, "is_verified", owner.IsVerified, "admin_id", caller.ID)

	if s.stays == nil {
		return
	}
	if err := s.stays.InvalidateOwner(ctx, owner.ID); err != nil {
		slog.WarnContext(ctx, "stay cache invalidation failed", "owner_id", owner.ID, "error", err)
	}
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
