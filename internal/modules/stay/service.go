package stay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"localstay/internal/domain"
	"localstay/internal/repository"
)

type Service struct {
	stays  StayRepository
	owners OwnerRepository
	cache  DetailsCache
}

func NewService(stays StayRepository, owners OwnerRepository, cache DetailsCache) *Service {
	return &Service{stays: stays, owners: owners, cache: cache}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("stay:%d", id)
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Create lists a new active stay. Only verified owners may list.
func (s *Service) Create(ctx context.Context, caller domain.Identity, req CreateStayRequest) (*StayResponse, error) {
	if !caller.Can(domain.CapManageStays) {
		return nil, ErrUnauthorized
	}
	owner, err := s.owners.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if !owner.IsVerified {
		return nil, ErrOwnerNotVerified
	}

	st := &domain.Stay{
		OwnerID:       owner.ID,
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		ImageURL:      req.ImageURL,
		Images:        req.Images,
		Facilities:    req.Facilities,
		IsActive:      true,
	}
	if err := s.stays.Create(ctx, st); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "stay created", "stay_id", st.ID, "owner_id", owner.ID)
	resp := fromStay(st)
	resp.Bookable = true
	return &resp, nil
}

// List returns the public feed: active stays of verified owners.
func (s *Service) List(ctx context.Context, f repository.StayFilters) ([]StayResponse, error) {
	list, err := s.stays.ListPublic(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]StayResponse, 0, len(list))
	for i := range list {
		out = append(out, fromDetails(&list[i]))
	}
	return out, nil
}

// Get returns one stay with its owner summary, whether or not it is bookable.
func (s *Service) Get(ctx context.Context, id int64) (*StayResponse, error) {
	var cached StayResponse
	if s.cache != nil && s.cache.Get(ctx, cacheKey(id), &cached) {
		return &cached, nil
	}

	d, err := s.stays.GetDetails(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	resp := fromDetails(d)
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey(id), resp)
	}
	return &resp, nil
}

func (s *Service) ListMine(ctx context.Context, caller domain.Identity) ([]StayResponse, error) {
	if !caller.Can(domain.CapManageStays) {
		return nil, ErrUnauthorized
	}
	owner, err := s.owners.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	list, err := s.stays.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	out := make([]StayResponse, 0, len(list))
	for i := range list {
		resp := fromStay(&list[i])
		resp.Bookable = list[i].IsActive && owner.IsVerified
		resp.Owner = &OwnerResponse{Name: owner.Name, PhoneNumber: owner.PhoneNumber}
		out = append(out, resp)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, caller domain.Identity, id int64, req UpdateStayRequest) (*StayResponse, error) {
	if !caller.Can(domain.CapManageStays) {
		return nil, ErrUnauthorized
	}
	st, err := s.stays.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if st.OwnerID != caller.ID {
		return nil, ErrUnauthorized
	}

	req.apply(st)
	if err := s.stays.Update(ctx, st); err != nil {
		return nil, mapRepoErr(err)
	}
	s.invalidate(ctx, id)

	return s.Get(ctx, id)
}

// Delete removes the stay and all of its bookings atomically.
func (s *Service) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	if !caller.Can(domain.CapManageStays) {
		return ErrUnauthorized
	}
	err := s.stays.DeleteWithBookings(ctx, id, func(st *domain.Stay) error {
		if st.OwnerID != caller.ID {
			return ErrUnauthorized
		}
		return nil
	})
	if err != nil {
		return mapRepoErr(err)
	}
	s.invalidate(ctx, id)
	slog.InfoContext(ctx, "stay deleted", "stay_id", id, "owner_id", caller.ID)
	return nil
}

// InvalidateOwner drops cached details of every stay of the owner. Called
// when the owner's verification changes.
func (s *Service) InvalidateOwner(ctx context.Context, ownerID int64) error {
	if s.cache == nil {
		return nil
	}
	ids, err := s.stays.IDsByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cacheKey(id))
	}
	s.cache.Delete(ctx, keys...)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		s.cache.Delete(ctx, cacheKey(id))
	}
}
