package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"localstay/internal/database"
	"localstay/internal/domain"
	"localstay/internal/modules/auth"
	"localstay/internal/modules/booking"
	"localstay/internal/modules/stay"
	"localstay/internal/notification"
	"localstay/internal/pkg/jwt"
	"localstay/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "localstay.db"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	if err := run(context.Background(), dsn, adminPassword); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dsn, adminPassword string) error {
	db, err := database.Connect(dsn)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db, repository.Models()...); err != nil {
		return err
	}

	// Cleanup old data (children first)
	slog.Info("cleaning old data")
	for _, table := range []string{"bookings", "stays", "owners", "users", "admins"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	ownerRepo := repository.NewOwnerRepository(db)
	tokens := jwt.New("seed-only-secret", time.Minute)

	authService := auth.NewService(userRepo, ownerRepo, repository.NewAdminRepository(db), tokens, notification.Nop{})
	stayService := stay.NewService(repository.NewStayRepository(db), ownerRepo, nil)
	bookingService := booking.NewService(booking.NewGormLedger(repository.NewBookingRepository(db)), nil)

	// ================== ACCOUNTS ==================
	if _, err := authService.CreateAdmin(ctx, "admin@localstay.com", adminPassword, "Admin"); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	travelers := make([]domain.Identity, 0, 2)
	for i, name := range []string{"Maya", "Tom"} {
		id, err := signup(ctx, tokens, authService.SignupUser, auth.SignupRequest{
			Email:       fmt.Sprintf("traveler%d@localstay.com", i+1),
			Password:    "traveler123",
			Name:        name,
			PhoneNumber: fmt.Sprintf("+1 555 010 %04d", i+1),
		})
		if err != nil {
			return err
		}
		travelers = append(travelers, id)
	}

	hosts := make([]domain.Identity, 0, 2)
	for i, name := range []string{"Lakeside Hosts", "Pending Host"} {
		id, err := signup(ctx, tokens, authService.SignupOwner, auth.SignupRequest{
			Email:    fmt.Sprintf("host%d@localstay.com", i+1),
			Password: "host123",
			Name:     name,
		})
		if err != nil {
			return err
		}
		hosts = append(hosts, id)
	}
	// Only the first host is verified; the second waits in the admin queue.
	if _, err := ownerRepo.SetVerified(ctx, hosts[0].ID, true); err != nil {
		return err
	}

	// ================== STAYS ==================
	stays := []stay.CreateStayRequest{
		{Name: "Lakeside Cabin", Location: "Lake Tahoe", PricePerNight: 120, Facilities: []string{"wifi", "fireplace"}},
		{Name: "Harbor Loft", Location: "Portland, Maine", PricePerNight: 95, Facilities: []string{"wifi", "kitchen"}},
		{Name: "Desert Casita", Location: "Joshua Tree", PricePerNight: 140, Facilities: []string{"pool"}},
	}
	var stayIDs []int64
	for _, req := range stays {
		st, err := stayService.Create(ctx, hosts[0], req)
		if err != nil {
			return fmt.Errorf("create stay %q: %w", req.Name, err)
		}
		stayIDs = append(stayIDs, st.ID)
	}

	// ================== BOOKINGS ==================
	start := domain.Day(time.Now()).AddDate(0, 0, 14)
	first, err := bookingService.CreateBooking(ctx, travelers[0], booking.CreateInput{
		StayID: stayIDs[0], CheckIn: start, CheckOut: start.AddDate(0, 0, 3), Guests: 2,
	})
	if err != nil {
		return err
	}
	if _, err := bookingService.DecideBooking(ctx, hosts[0], first.ID, "accept"); err != nil {
		return err
	}
	// Same-day turnover on the accepted stay, left for the host to decide.
	if _, err := bookingService.CreateBooking(ctx, travelers[1], booking.CreateInput{
		StayID: stayIDs[0], CheckIn: start.AddDate(0, 0, 3), CheckOut: start.AddDate(0, 0, 5), Guests: 1,
	}); err != nil {
		return err
	}

	slog.Info("seed completed",
		"admin", "admin@localstay.com",
		"travelers", "traveler1@localstay.com, traveler2@localstay.com / traveler123",
		"hosts", "host1@localstay.com (verified), host2@localstay.com (pending) / host123",
	)
	return nil
}

// signup runs a signup and reads the identity back from the issued token.
func signup(ctx context.Context, tokens *jwt.Service, fn func(context.Context, auth.SignupRequest) (*auth.TokenResponse, error), req auth.SignupRequest) (domain.Identity, error) {
	tok, err := fn(ctx, req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("signup %s: %w", req.Email, err)
	}
	return tokens.ValidateToken(tok.AccessToken)
}
