// Package testutil provides database fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"localstay/internal/database"
	"localstay/internal/domain"
	"localstay/internal/repository"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory SQLite database closed at test end.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "connect sqlite")
	require.NoError(t, database.Migrate(context.Background(), db, repository.Models()...))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewPostgresDB connects to TEST_DATABASE_URL and runs the goose migrations.
// The test is skipped when the variable is unset.
func NewPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(dsn)
	require.NoError(t, err, "connect postgres")
	require.NoError(t, database.Migrate(context.Background(), db))

	t.Cleanup(func() {
		db.Exec("TRUNCATE bookings, stays, users, owners, admins RESTART IDENTITY CASCADE")
		_ = database.Close(db)
	})
	return db
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s%d@example.com", prefix, seq.Add(1))
}

func CreateUser(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        uniqueEmail("user"),
		Name:         "Test Traveler",
		PasswordHash: "not-a-real-hash",
		PhoneNumber:  "+10000000000",
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func CreateOwner(t *testing.T, db *gorm.DB, verified bool) *domain.Owner {
	t.Helper()
	o := &domain.Owner{
		Email:        uniqueEmail("owner"),
		Name:         "Test Host",
		PasswordHash: "not-a-real-hash",
		IsVerified:   verified,
	}
	require.NoError(t, repository.NewOwnerRepository(db).Create(context.Background(), o))
	return o
}

func CreateStay(t *testing.T, db *gorm.DB, ownerID int64) *domain.Stay {
	t.Helper()
	s := &domain.Stay{
		OwnerID:       ownerID,
		Name:          "Lakeside Cabin",
		Location:      "Lake Tahoe",
		PricePerNight: 120,
		Facilities:    []string{"wifi"},
		IsActive:      true,
	}
	require.NoError(t, repository.NewStayRepository(db).Create(context.Background(), s))
	return s
}
