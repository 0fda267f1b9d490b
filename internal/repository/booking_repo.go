package repository

import (
	"context"
	"time"

	"localstay/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID        int64          `gorm:"column:id;primaryKey"`
	StayID    int64          `gorm:"column:stay_id;index:idx_bookings_stay_status;not null"`
	UserID    int64          `gorm:"column:user_id;index;not null"`
	CheckIn   datatypes.Date `gorm:"column:check_in;not null"`
	CheckOut  datatypes.Date `gorm:"column:check_out;not null"`
	Guests    int            `gorm:"column:guests;not null"`
	Status    string         `gorm:"column:status;index:idx_bookings_stay_status;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:        m.ID,
		StayID:    m.StayID,
		UserID:    m.UserID,
		CheckIn:   domain.Day(time.Time(m.CheckIn)),
		CheckOut:  domain.Day(time.Time(m.CheckOut)),
		Guests:    m.Guests,
		Status:    domain.BookingStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:        b.ID,
		StayID:    b.StayID,
		UserID:    b.UserID,
		CheckIn:   datatypes.Date(domain.Day(b.CheckIn)),
		CheckOut:  datatypes.Date(domain.Day(b.CheckOut)),
		Guests:    b.Guests,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

// bookingRow is the flat result of the booking/stay/user join.
type bookingRow struct {
	ID        int64          `gorm:"column:id"`
	StayID    int64          `gorm:"column:stay_id"`
	UserID    int64          `gorm:"column:user_id"`
	CheckIn   datatypes.Date `gorm:"column:check_in"`
	CheckOut  datatypes.Date `gorm:"column:check_out"`
	Guests    int            `gorm:"column:guests"`
	Status    string         `gorm:"column:status"`
	CreatedAt time.Time      `gorm:"column:created_at"`

	StayName     string  `gorm:"column:stay_name"`
	StayLocation string  `gorm:"column:stay_location"`
	StayImageURL *string `gorm:"column:stay_image_url"`
	StayPrice    int     `gorm:"column:stay_price"`
	UserName     string  `gorm:"column:user_name"`
	UserEmail    string  `gorm:"column:user_email"`
	UserPhone    *string `gorm:"column:user_phone"`
}

func (r bookingRow) toDomain() domain.BookingDetails {
	return domain.BookingDetails{
		Booking: *toDomainBooking(bookingModel{
			ID:        r.ID,
			StayID:    r.StayID,
			UserID:    r.UserID,
			CheckIn:   r.CheckIn,
			CheckOut:  r.CheckOut,
			Guests:    r.Guests,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}),
		Stay: domain.StaySummary{
			ID:            r.StayID,
			Name:          r.StayName,
			Location:      r.StayLocation,
			ImageURL:      deref(r.StayImageURL),
			PricePerNight: r.StayPrice,
		},
		User: domain.UserSummary{
			Name:        r.UserName,
			Email:       r.UserEmail,
			PhoneNumber: deref(r.UserPhone),
		},
	}
}

const bookingDetailsSelect = `
SELECT
  b.id,
  b.stay_id,
  b.user_id,
  b.check_in,
  b.check_out,
  b.guests,
  b.status,
  b.created_at,
  s.name            AS stay_name,
  s.location        AS stay_location,
  s.image_url       AS stay_image_url,
  s.price_per_night AS stay_price,
  u.name            AS user_name,
  u.email           AS user_email,
  u.phone_number    AS user_phone
FROM bookings b
JOIN stays s ON s.id = b.stay_id
JOIN users u ON u.id = b.user_id
`

func listDetails(db *gorm.DB, where string, args ...any) ([]domain.BookingDetails, error) {
	var rows []bookingRow
	if err := db.Raw(bookingDetailsSelect+where, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BookingDetails, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func getDetails(db *gorm.DB, id int64) (*domain.BookingDetails, error) {
	list, err := listDetails(db, "WHERE b.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// ListByUser returns the requester's bookings, latest check-in first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetails, error) {
	return listDetails(r.db.WithContext(ctx),
		"WHERE b.user_id = ? ORDER BY b.check_in DESC, b.id DESC", userID)
}

// ListForOwner returns bookings on every stay of the owner, newest first.
func (r *BookingRepository) ListForOwner(ctx context.Context, ownerID int64) ([]domain.BookingDetails, error) {
	return listDetails(r.db.WithContext(ctx),
		"WHERE s.owner_id = ? ORDER BY b.id DESC", ownerID)
}

func (r *BookingRepository) GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	return getDetails(r.db.WithContext(ctx), id)
}

// Transaction runs fn inside one database transaction. Every ledger read
// and write made through tx commits or rolls back together.
func (r *BookingRepository) Transaction(ctx context.Context, fn func(tx *BookingTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&BookingTx{db: db})
	})
}

// BookingTx is the ledger as seen from inside a transaction.
type BookingTx struct {
	db *gorm.DB
}

// LockStay takes a row lock on the stay so that ledger writers for the same
// stay serialize. SQLite has no row locks; its single writer serializes
// transactions instead.
func (t *BookingTx) LockStay(stayID int64) (*domain.Stay, error) {
	var m stayModel
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, stayID).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainStay(m), nil
}

// AcceptedOnStay returns the ACCEPTED bookings of a stay, skipping excludeID
// when it is non-zero.
func (t *BookingTx) AcceptedOnStay(stayID, excludeID int64) ([]domain.Booking, error) {
	q := t.db.Model(&bookingModel{}).
		Where("stay_id = ? AND status = ?", stayID, string(domain.BookingAccepted))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []bookingModel
	if err := q.Order("check_in").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (t *BookingTx) Create(b *domain.Booking) error {
	m := toBookingModel(b)
	if err := t.db.Create(&m).Error; err != nil {
		return translate(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (t *BookingTx) GetByID(id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := t.db.First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m), nil
}

func (t *BookingTx) UpdateStatus(id int64, status domain.BookingStatus) error {
	res := t.db.Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *BookingTx) GetDetails(id int64) (*domain.BookingDetails, error) {
	return getDetails(t.db, id)
}

// Models lists the gorm models auto-migrated on SQLite.
func Models() []any {
	return []any{
		&userModel{},
		&ownerModel{},
		&adminModel{},
		&stayModel{},
		&bookingModel{},
	}
}
