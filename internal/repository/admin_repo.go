package repository

import (
	"context"
	"time"

	"localstay/internal/domain"

	"gorm.io/gorm"
)

// AdminRepository backs the admin role: an identity is an admin exactly when
// it has a row in this table.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

type adminModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (adminModel) TableName() string { return "admins" }

func (r *AdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	m := adminModel{
		Email:        normalizeEmail(a.Email),
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	a.ID = m.ID
	a.Email = m.Email
	a.CreatedAt = m.CreatedAt
	return nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var m adminModel
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &domain.Admin{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		CreatedAt:    m.CreatedAt,
	}, nil
}
