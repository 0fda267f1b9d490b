package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"localstay/internal/domain"
	"localstay/internal/notification"
	"localstay/internal/repository"
)

const tokenType = "bearer"

// dummyHash is compared against when the email is unknown so that a miss
// costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("localstay-dummy-password"), bcrypt.DefaultCost)

// Service signs up and logs in the three identity kinds. Each kind lives in
// its own table and gets a token carrying that table's role.
type Service struct {
	users    UserRepository
	owners   OwnerRepository
	admins   AdminRepository
	tokens   TokenIssuer
	notifier notification.Notifier
}

func NewService(users UserRepository, owners OwnerRepository, admins AdminRepository, tokens TokenIssuer, notifier notification.Notifier) *Service {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Service{
		users:    users,
		owners:   owners,
		admins:   admins,
		tokens:   tokens,
		notifier: notifier,
	}
}

func (s *Service) SignupUser(ctx context.Context, req SignupRequest) (*TokenResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapCreateErr(err)
	}

	slog.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return s.issue(domain.Identity{ID: user.ID, Role: domain.RoleUser})
}

func (s *Service) LoginUser(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.loginMiss(err, req.Password)
	}
	if err := checkPassword(user.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return s.issue(domain.Identity{ID: user.ID, Role: domain.RoleUser})
}

// SignupOwner creates an unverified owner and tells the operators about it.
// The notification runs after the owner is stored and never fails the signup.
func (s *Service) SignupOwner(ctx context.Context, req SignupRequest) (*TokenResponse, error) {
	if _, err := s.owners.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	owner := &domain.Owner{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, mapCreateErr(err)
	}
	slog.InfoContext(ctx, "owner signed up", "owner_id", owner.ID)

	if err := s.notifier.NotifyOwnerSignup(ctx, notification.OwnerSignup{
		OwnerID:     owner.ID,
		Name:        owner.Name,
		Email:       owner.Email,
		PhoneNumber: owner.PhoneNumber,
	}); err != nil {
		slog.WarnContext(ctx, "owner signup notification failed", "owner_id", owner.ID, "error", err)
	}

	return s.issue(domain.Identity{ID: owner.ID, Role: domain.RoleOwner})
}

func (s *Service) LoginOwner(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	owner, err := s.owners.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.loginMiss(err, req.Password)
	}
	if err := checkPassword(owner.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return s.issue(domain.Identity{ID: owner.ID, Role: domain.RoleOwner})
}

// LoginAdmin authenticates against the admins table only.
func (s *Service) LoginAdmin(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.loginMiss(err, req.Password)
	}
	if err := checkPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	return s.issue(domain.Identity{ID: admin.ID, Role: domain.RoleAdmin})
}

// CreateAdmin provisions an admin account. There is no HTTP route for it.
func (s *Service) CreateAdmin(ctx context.Context, email, password, name string) (*domain.Admin, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{Email: email, PasswordHash: hash, Name: name}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, mapCreateErr(err)
	}
	return admin, nil
}

func (s *Service) issue(id domain.Identity) (*TokenResponse, error) {
	token, err := s.tokens.GenerateToken(id)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &TokenResponse{AccessToken: token, TokenType: tokenType, Role: string(id.Role)}, nil
}

func (s *Service) loginMiss(err error, password string) error {
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return ErrInvalidCredentials
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// mapCreateErr covers the race where the email was taken between the
// lookup and the insert.
func mapCreateErr(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrEmailAlreadyExists
	}
	return err
}
