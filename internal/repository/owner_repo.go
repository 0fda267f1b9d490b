package repository

import (
	"context"
	"time"

	"localstay/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OwnerRepository struct {
	db *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

type ownerModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	PhoneNumber  *string   `gorm:"column:phone_number"`
	IsVerified   bool      `gorm:"column:is_verified;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (ownerModel) TableName() string { return "owners" }

func toDomainOwner(m ownerModel) *domain.Owner {
	return &domain.Owner{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		PhoneNumber:  deref(m.PhoneNumber),
		IsVerified:   m.IsVerified,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *OwnerRepository) Create(ctx context.Context, o *domain.Owner) error {
	m := ownerModel{
		Email:        normalizeEmail(o.Email),
		Name:         o.Name,
		PasswordHash: o.PasswordHash,
		PhoneNumber:  optional(o.PhoneNumber),
		IsVerified:   o.IsVerified,
		CreatedAt:    o.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*o = *toDomainOwner(m)
	return nil
}

func (r *OwnerRepository) GetByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	var m ownerModel
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainOwner(m), nil
}

func (r *OwnerRepository) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	var m ownerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainOwner(m), nil
}

// List returns owners ordered by id; unverifiedOnly narrows it to the
// admin's verification queue.
func (r *OwnerRepository) List(ctx context.Context, unverifiedOnly bool) ([]domain.Owner, error) {
	q := r.db.WithContext(ctx).Model(&ownerModel{})
	if unverifiedOnly {
		q = q.Where("is_verified = ?", false)
	}

	var rows []ownerModel
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Owner, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOwner(m))
	}
	return out, nil
}

func (r *OwnerRepository) SetVerified(ctx context.Context, id int64, verified bool) (*domain.Owner, error) {
	return r.updateVerified(ctx, id, func(bool) bool { return verified })
}

// ToggleVerified flips the verified flag under a row lock.
func (r *OwnerRepository) ToggleVerified(ctx context.Context, id int64) (*domain.Owner, error) {
	return r.updateVerified(ctx, id, func(cur bool) bool { return !cur })
}

func (r *OwnerRepository) updateVerified(ctx context.Context, id int64, next func(bool) bool) (*domain.Owner, error) {
	var out *domain.Owner
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m ownerModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			return translate(err)
		}
		verified := next(m.IsVerified)
		if err := tx.Model(&m).Update("is_verified", verified).Error; err != nil {
			return err
		}
		m.IsVerified = verified
		out = toDomainOwner(m)
		return nil
	})
	return out, err
}
