package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"localstay/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StayFilters struct {
	Location string
	Limit    int
	Offset   int
}

type StayRepository struct {
	db *gorm.DB
}

func NewStayRepository(db *gorm.DB) *StayRepository {
	return &StayRepository{db: db}
}

type stayModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	OwnerID       int64          `gorm:"column:owner_id;index;not null"`
	Name          string         `gorm:"column:name;not null"`
	Description   *string        `gorm:"column:description"`
	Location      string         `gorm:"column:location;not null"`
	PricePerNight int            `gorm:"column:price_per_night;not null"`
	ImageURL      *string        `gorm:"column:image_url"`
	Images        datatypes.JSON `gorm:"column:images"`
	Facilities    datatypes.JSON `gorm:"column:facilities"`
	IsActive      bool           `gorm:"column:is_active;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (stayModel) TableName() string { return "stays" }

// stayRow is a stay joined with its owner.
type stayRow struct {
	stayModel     `gorm:"embedded"`
	OwnerName     string  `gorm:"column:owner_name"`
	OwnerPhone    *string `gorm:"column:owner_phone"`
	OwnerVerified bool    `gorm:"column:owner_verified"`
}

func toDomainStay(m stayModel) *domain.Stay {
	return &domain.Stay{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		Description:   deref(m.Description),
		Location:      m.Location,
		PricePerNight: m.PricePerNight,
		ImageURL:      deref(m.ImageURL),
		Images:        decodeList(m.Images),
		Facilities:    decodeList(m.Facilities),
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toStayModel(s *domain.Stay) stayModel {
	return stayModel{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		Name:          s.Name,
		Description:   optional(s.Description),
		Location:      s.Location,
		PricePerNight: s.PricePerNight,
		ImageURL:      optional(s.ImageURL),
		Images:        encodeList(s.Images),
		Facilities:    encodeList(s.Facilities),
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toDomainStayDetails(r stayRow) *domain.StayDetails {
	return &domain.StayDetails{
		Stay: *toDomainStay(r.stayModel),
		Owner: domain.OwnerSummary{
			ID:          r.OwnerID,
			Name:        r.OwnerName,
			PhoneNumber: deref(r.OwnerPhone),
			IsVerified:  r.OwnerVerified,
		},
	}
}

func encodeList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

func decodeList(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

const staySelect = `
SELECT
  s.*,
  o.name         AS owner_name,
  o.phone_number AS owner_phone,
  o.is_verified  AS owner_verified
FROM stays s
JOIN owners o ON o.id = s.owner_id
`

func (r *StayRepository) Create(ctx context.Context, s *domain.Stay) error {
	m := toStayModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*s = *toDomainStay(m)
	return nil
}

func (r *StayRepository) GetByID(ctx context.Context, id int64) (*domain.Stay, error) {
	var m stayModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainStay(m), nil
}

// GetDetails returns the stay with its owner summary.
func (r *StayRepository) GetDetails(ctx context.Context, id int64) (*domain.StayDetails, error) {
	var rows []stayRow
	if err := r.db.WithContext(ctx).Raw(staySelect+"WHERE s.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return toDomainStayDetails(rows[0]), nil
}

// ListPublic returns bookable stays: active, and listed by a verified owner.
func (r *StayRepository) ListPublic(ctx context.Context, f StayFilters) ([]domain.StayDetails, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := staySelect + "WHERE s.is_active = ? AND o.is_verified = ?"
	args := []any{true, true}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q += " AND LOWER(s.location) LIKE ?"
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}
	q += " ORDER BY s.id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var rows []stayRow
	if err := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.StayDetails, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toDomainStayDetails(row))
	}
	return out, nil
}

func (r *StayRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Stay, error) {
	var rows []stayModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Stay, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainStay(m))
	}
	return out, nil
}

// IDsByOwner lists the stay ids of one owner, for cache invalidation.
func (r *StayRepository) IDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&stayModel{}).
		Where("owner_id = ?", ownerID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// Update writes every mutable column of s. Owner and creation time never change.
func (r *StayRepository) Update(ctx context.Context, s *domain.Stay) error {
	m := toStayModel(s)
	m.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&stayModel{ID: s.ID}).
		Select("name", "description", "location", "price_per_night", "image_url", "images", "facilities", "is_active", "updated_at").
		Updates(&m)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.UpdatedAt = m.UpdatedAt
	return nil
}

// DeleteWithBookings removes a stay and every booking that references it in
// one transaction. authorize runs against the locked row before anything is
// deleted; its error aborts the transaction unchanged.
func (r *StayRepository) DeleteWithBookings(ctx context.Context, stayID int64, authorize func(*domain.Stay) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m stayModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, stayID).Error
		if err != nil {
			return translate(err)
		}
		if authorize != nil {
			if err := authorize(toDomainStay(m)); err != nil {
				return err
			}
		}
		if err := tx.Where("stay_id = ?", stayID).Delete(&bookingModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&stayModel{}, stayID).Error
	})
}
