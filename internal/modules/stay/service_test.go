package stay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"localstay/internal/cache"
	"localstay/internal/domain"
	"localstay/internal/modules/booking"
	"localstay/internal/repository"
	"localstay/internal/testutil"
)

type fixture struct {
	db     *gorm.DB
	svc    *Service
	owners *repository.OwnerRepository
	cache  *cache.Cache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	c := cache.New(nil, time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	owners := repository.NewOwnerRepository(db)
	return &fixture{
		db:     db,
		svc:    NewService(repository.NewStayRepository(db), owners, c),
		owners: owners,
		cache:  c,
	}
}

func ownerIdentity(o *domain.Owner) domain.Identity {
	return domain.Identity{ID: o.ID, Role: domain.RoleOwner}
}

func TestCreate_RequiresVerifiedOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := CreateStayRequest{Name: "Cabin", Location: "Tahoe", PricePerNight: 80, Facilities: []string{"wifi"}}

	pending := testutil.CreateOwner(t, f.db, false)
	_, err := f.svc.Create(ctx, ownerIdentity(pending), req)
	assert.ErrorIs(t, err, ErrOwnerNotVerified)

	verified := testutil.CreateOwner(t, f.db, true)
	st, err := f.svc.Create(ctx, ownerIdentity(verified), req)
	require.NoError(t, err)
	assert.True(t, st.IsActive)
	assert.True(t, st.Bookable)
	assert.Equal(t, verified.ID, st.OwnerID)
	assert.Equal(t, []string{"wifi"}, st.Facilities)
	assert.Equal(t, []string{}, st.Images)

	user := testutil.CreateUser(t, f.db)
	_, err = f.svc.Create(ctx, domain.Identity{ID: user.ID, Role: domain.RoleUser}, req)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGet_ReportsBookable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := testutil.CreateOwner(t, f.db, false)
	st := testutil.CreateStay(t, f.db, pending.ID)

	got, err := f.svc.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, got.Bookable)
	require.NotNil(t, got.Owner)
	assert.Equal(t, pending.Name, got.Owner.Name)

	_, err = f.svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidateOwner_RefreshesCachedDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := testutil.CreateOwner(t, f.db, false)
	st := testutil.CreateStay(t, f.db, pending.ID)

	got, err := f.svc.Get(ctx, st.ID)
	require.NoError(t, err)
	require.False(t, got.Bookable)

	_, err = f.owners.SetVerified(ctx, pending.ID, true)
	require.NoError(t, err)

	got, err = f.svc.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, got.Bookable, "served from cache until invalidated")

	require.NoError(t, f.svc.InvalidateOwner(ctx, pending.ID))
	got, err = f.svc.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, got.Bookable)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := testutil.CreateOwner(t, f.db, true)
	other := testutil.CreateOwner(t, f.db, true)
	st := testutil.CreateStay(t, f.db, owner.ID)

	_, err := f.svc.Get(ctx, st.ID)
	require.NoError(t, err)

	price := 200
	inactive := false
	updated, err := f.svc.Update(ctx, ownerIdentity(owner), st.ID, UpdateStayRequest{
		PricePerNight: &price,
		IsActive:      &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, updated.PricePerNight)
	assert.Equal(t, st.Name, updated.Name, "unset fields are kept")
	assert.False(t, updated.IsActive)
	assert.False(t, updated.Bookable)

	feed, err := f.svc.List(ctx, repository.StayFilters{})
	require.NoError(t, err)
	assert.Empty(t, feed, "inactive stays leave the public feed")

	_, err = f.svc.Update(ctx, ownerIdentity(other), st.ID, UpdateStayRequest{PricePerNight: &price})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Update(ctx, ownerIdentity(owner), 999, UpdateStayRequest{PricePerNight: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := testutil.CreateOwner(t, f.db, true)
	other := testutil.CreateOwner(t, f.db, true)
	testutil.CreateStay(t, f.db, owner.ID)
	testutil.CreateStay(t, f.db, owner.ID)
	testutil.CreateStay(t, f.db, other.ID)

	mine, err := f.svc.ListMine(ctx, ownerIdentity(owner))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, s := range mine {
		assert.Equal(t, owner.ID, s.OwnerID)
		assert.True(t, s.Bookable)
	}
}

func TestDelete_CascadesBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := testutil.CreateOwner(t, f.db, true)
	other := testutil.CreateOwner(t, f.db, true)
	user := testutil.CreateUser(t, f.db)
	st := testutil.CreateStay(t, f.db, owner.ID)

	bookings := booking.NewService(booking.NewGormLedger(repository.NewBookingRepository(f.db)), nil)
	traveler := domain.Identity{ID: user.ID, Role: domain.RoleUser}
	start, err := domain.ParseDate("2026-07-01")
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		in := start.AddDate(0, 0, i*3)
		_, err := bookings.CreateBooking(ctx, traveler, booking.CreateInput{
			StayID: st.ID, CheckIn: in, CheckOut: in.AddDate(0, 0, 2), Guests: 1,
		})
		require.NoError(t, err)
	}

	err = f.svc.Delete(ctx, ownerIdentity(other), st.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var count int64
	require.NoError(t, f.db.Table("bookings").Where("stay_id = ?", st.ID).Count(&count).Error)
	assert.Equal(t, int64(n), count)

	require.NoError(t, f.svc.Delete(ctx, ownerIdentity(owner), st.ID))

	require.NoError(t, f.db.Table("bookings").Where("stay_id = ?", st.ID).Count(&count).Error)
	assert.Zero(t, count)
	_, err = f.svc.Get(ctx, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.svc.Delete(ctx, ownerIdentity(owner), st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
