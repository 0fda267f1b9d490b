package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"localstay/internal/domain"
	"localstay/internal/repository"
	"localstay/internal/testutil"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(to domain.Identity, payload any) {
	m.Called(to, payload)
}

// countingLedger records how often the conflict detector reads the ledger.
type countingLedger struct {
	Ledger
	scans atomic.Int64
}

func (l *countingLedger) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return l.Ledger.InTx(ctx, func(tx LedgerTx) error {
		return fn(countingTx{LedgerTx: tx, scans: &l.scans})
	})
}

type countingTx struct {
	LedgerTx
	scans *atomic.Int64
}

func (t countingTx) AcceptedOnStay(stayID, excludeID int64) ([]domain.Booking, error) {
	t.scans.Add(1)
	return t.LedgerTx.AcceptedOnStay(stayID, excludeID)
}

type fixture struct {
	db     *gorm.DB
	svc    *Service
	ledger *countingLedger
	events *MockPublisher
	owner  domain.Identity
	user   domain.Identity
	stay   *domain.Stay
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	owner := testutil.CreateOwner(t, db, true)
	user := testutil.CreateUser(t, db)
	stay := testutil.CreateStay(t, db, owner.ID)

	events := &MockPublisher{}
	events.On("Publish", mock.Anything, mock.Anything).Return()

	ledger := &countingLedger{Ledger: NewGormLedger(repository.NewBookingRepository(db))}

	return &fixture{
		db:     db,
		svc:    NewService(ledger, events),
		ledger: ledger,
		events: events,
		owner:  domain.Identity{ID: owner.ID, Role: domain.RoleOwner},
		user:   domain.Identity{ID: user.ID, Role: domain.RoleUser},
		stay:   stay,
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func (f *fixture) request(t *testing.T, in, out string) (*domain.BookingDetails, error) {
	t.Helper()
	return f.svc.CreateBooking(context.Background(), f.user, CreateInput{
		StayID:   f.stay.ID,
		CheckIn:  date(t, in),
		CheckOut: date(t, out),
		Guests:   2,
	})
}

func (f *fixture) mustRequest(t *testing.T, in, out string) *domain.BookingDetails {
	t.Helper()
	b, err := f.request(t, in, out)
	require.NoError(t, err)
	return b
}

func (f *fixture) decide(id int64, action string) (*domain.BookingDetails, error) {
	return f.svc.DecideBooking(context.Background(), f.owner, id, action)
}

func (f *fixture) status(t *testing.T, id int64) domain.BookingStatus {
	t.Helper()
	var s string
	require.NoError(t, f.db.Table("bookings").Select("status").Where("id = ?", id).Scan(&s).Error)
	return domain.BookingStatus(s)
}

func TestCreateBooking_Requested(t *testing.T) {
	f := newFixture(t)

	b := f.mustRequest(t, "2026-01-01", "2026-01-04")

	assert.Equal(t, domain.BookingRequested, b.Status)
	assert.Equal(t, f.user.ID, b.UserID)
	assert.Equal(t, f.stay.Name, b.Stay.Name)
	assert.NotEmpty(t, b.User.Email)
	assert.Equal(t, "2026-01-01", b.CheckIn.Format(domain.DateLayout))
	assert.Equal(t, 3, b.Range().Nights())

	f.events.AssertCalled(t, "Publish", f.owner, mock.MatchedBy(func(e Event) bool {
		return e.Type == EventRequested && e.Booking.ID == b.ID
	}))
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	f := newFixture(t)

	for _, r := range [][2]string{
		{"2026-01-05", "2026-01-05"},
		{"2026-01-05", "2026-01-04"},
	} {
		_, err := f.request(t, r[0], r[1])
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	}

	// The range check comes before the stay lookup.
	_, err := f.svc.CreateBooking(context.Background(), f.user, CreateInput{
		StayID:   999,
		CheckIn:  date(t, "2026-01-05"),
		CheckOut: date(t, "2026-01-01"),
		Guests:   1,
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Zero(t, f.ledger.scans.Load())
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateBooking_UnknownStay(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.user, CreateInput{
		StayID:   999,
		CheckIn:  date(t, "2026-01-01"),
		CheckOut: date(t, "2026-01-02"),
		Guests:   1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBooking_RequiresTravelerCapability(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.owner, CreateInput{
		StayID:   f.stay.ID,
		CheckIn:  date(t, "2026-01-01"),
		CheckOut: date(t, "2026-01-02"),
		Guests:   1,
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.CreateBooking(context.Background(), f.user, CreateInput{
		StayID:   f.stay.ID,
		CheckIn:  date(t, "2026-01-01"),
		CheckOut: date(t, "2026-01-02"),
		Guests:   0,
	})
	assert.ErrorIs(t, err, ErrInvalidGuests)
}

func TestCreateBooking_IgnoresListingVisibility(t *testing.T) {
	f := newFixture(t)

	stays := repository.NewStayRepository(f.db)
	f.stay.IsActive = false
	require.NoError(t, stays.Update(context.Background(), f.stay))

	b, err := f.request(t, "2026-01-01", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingRequested, b.Status)
}

func TestScenario_AcceptedBlocksOverlapButNotTurnover(t *testing.T) {
	f := newFixture(t)

	x := f.mustRequest(t, "2026-01-01", "2026-01-10")
	_, err := f.decide(x.ID, "accept")
	require.NoError(t, err)

	_, err = f.request(t, "2026-01-05", "2026-01-07")
	assert.ErrorIs(t, err, ErrDatesUnavailable)

	z, err := f.request(t, "2026-01-10", "2026-01-15")
	require.NoError(t, err)

	_, err = f.decide(z.ID, "accept")
	require.NoError(t, err, "same-day turnover must be acceptable")
	assert.Equal(t, domain.BookingAccepted, f.status(t, x.ID))
	assert.Equal(t, domain.BookingAccepted, f.status(t, z.ID))
}

func TestScenario_OverlappingRequestsOnlyOneAccepted(t *testing.T) {
	f := newFixture(t)

	y := f.mustRequest(t, "2026-02-01", "2026-02-05")
	z := f.mustRequest(t, "2026-02-03", "2026-02-08")

	accepted, err := f.decide(y.ID, "Accept")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, accepted.Status)

	_, err = f.decide(z.ID, "ACCEPT")
	assert.ErrorIs(t, err, ErrDatesUnavailable)

	assert.Equal(t, domain.BookingAccepted, f.status(t, y.ID))
	assert.Equal(t, domain.BookingRequested, f.status(t, z.ID))
}

func TestDecideBooking_RejectSkipsConflictCheck(t *testing.T) {
	f := newFixture(t)

	y := f.mustRequest(t, "2026-02-01", "2026-02-05")
	z := f.mustRequest(t, "2026-02-03", "2026-02-08")
	_, err := f.decide(y.ID, "accept")
	require.NoError(t, err)

	before := f.ledger.scans.Load()
	rejected, err := f.decide(z.ID, "reject")
	require.NoError(t, err)

	assert.Equal(t, domain.BookingRejected, rejected.Status)
	assert.Equal(t, before, f.ledger.scans.Load(), "reject must not read accepted bookings")
	f.events.AssertCalled(t, "Publish", f.user, mock.MatchedBy(func(e Event) bool {
		return e.Type == EventDecided && e.Booking.Status == domain.BookingRejected
	}))
}

func TestDecideBooking_Errors(t *testing.T) {
	f := newFixture(t)
	b := f.mustRequest(t, "2026-03-01", "2026-03-02")

	otherOwner := testutil.CreateOwner(t, f.db, true)
	stranger := domain.Identity{ID: otherOwner.ID, Role: domain.RoleOwner}

	_, err := f.decide(999, "accept")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.DecideBooking(context.Background(), stranger, b.ID, "accept")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.DecideBooking(context.Background(), f.user, b.ID, "accept")
	assert.ErrorIs(t, err, ErrUnauthorized, "travelers cannot decide")

	_, err = f.decide(b.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, domain.BookingRequested, f.status(t, b.ID))

	_, err = f.decide(b.ID, "reject")
	require.NoError(t, err)

	for _, action := range []string{"accept", "reject"} {
		_, err = f.decide(b.ID, action)
		assert.ErrorIs(t, err, ErrInvalidAction, "terminal states do not move")
	}
	assert.Equal(t, domain.BookingRejected, f.status(t, b.ID))
}

func TestDecideBooking_ConcurrentAccepts(t *testing.T) {
	f := newFixture(t)

	const n = 8
	ids := make([]int64, n)
	for i := range ids {
		// Every request overlaps every other on 2026-04-05.
		in := fmt.Sprintf("2026-04-%02d", 1+i%4)
		out := fmt.Sprintf("2026-04-%02d", 6+i%3)
		ids[i] = f.mustRequest(t, in, out).ID
	}

	var (
		wg       sync.WaitGroup
		accepted atomic.Int64
		refused  atomic.Int64
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := f.decide(id, "accept")
			if err == nil {
				accepted.Add(1)
				return
			}
			if errors.Is(err, ErrDatesUnavailable) {
				refused.Add(1)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, int64(1), accepted.Load())
	assert.Equal(t, int64(n-1), refused.Load())
}

// Random requests and random accept/reject decisions must never leave two
// overlapping ACCEPTED bookings on one stay.
func TestLedger_NoAcceptedOverlapUnderRandomDecisions(t *testing.T) {
	f := newFixture(t)
	r := rand.New(rand.NewSource(20260101))
	start := date(t, "2026-06-01")

	var requested []*domain.BookingDetails
	for i := 0; i < 60; i++ {
		in := start.AddDate(0, 0, r.Intn(60))
		out := in.AddDate(0, 0, 1+r.Intn(7))
		b, err := f.svc.CreateBooking(context.Background(), f.user, CreateInput{
			StayID: f.stay.ID, CheckIn: in, CheckOut: out, Guests: 1,
		})
		if err != nil {
			require.ErrorIs(t, err, ErrDatesUnavailable)
			continue
		}
		requested = append(requested, b)

		// Interleave decisions with creation.
		if r.Intn(3) == 0 && len(requested) > 0 {
			pick := requested[r.Intn(len(requested))]
			action := "accept"
			if r.Intn(4) == 0 {
				action = "reject"
			}
			_, err := f.decide(pick.ID, action)
			if err != nil {
				require.True(t, assertAnyOf(err, ErrDatesUnavailable, ErrInvalidAction), err)
			}
		}
	}

	r.Shuffle(len(requested), func(i, j int) { requested[i], requested[j] = requested[j], requested[i] })
	for _, b := range requested {
		_, err := f.decide(b.ID, "accept")
		if err != nil {
			require.True(t, assertAnyOf(err, ErrDatesUnavailable, ErrInvalidAction), err)
		}
	}

	all, err := f.svc.ListForOwner(context.Background(), f.owner)
	require.NoError(t, err)

	var accepted []domain.BookingDetails
	for _, b := range all {
		if b.Status == domain.BookingAccepted {
			accepted = append(accepted, b)
		}
	}
	require.NotEmpty(t, accepted)

	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i], accepted[j]
			assert.False(t, a.Range().Overlaps(b.Range()),
				"accepted %d %s overlaps accepted %d %s", a.ID, a.Range(), b.ID, b.Range())
		}
	}
}

func assertAnyOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func TestListings(t *testing.T) {
	f := newFixture(t)

	first := f.mustRequest(t, "2026-01-01", "2026-01-03")
	second := f.mustRequest(t, "2026-05-01", "2026-05-03")

	mine, err := f.svc.ListForRequester(context.Background(), f.user)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "latest check-in first")

	incoming, err := f.svc.ListForOwner(context.Background(), f.owner)
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, second.ID, incoming[0].ID)
	assert.Equal(t, first.ID, incoming[1].ID)
	assert.NotEmpty(t, incoming[0].User.Name)

	_, err = f.svc.ListForOwner(context.Background(), f.user)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.svc.ListForRequester(context.Background(), f.owner)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
