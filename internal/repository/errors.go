package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAcceptedOverlap is returned when PostgreSQL rejects a write through
	// the bookings_no_accepted_overlap exclusion constraint.
	ErrAcceptedOverlap = errors.New("accepted booking overlap")
	ErrDuplicate       = errors.New("duplicate record")
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return ErrAcceptedOverlap
		case pgUniqueViolation:
			return ErrDuplicate
		}
	}
	// modernc sqlite reports constraint failures only through the message.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}
