package booking

import (
	"context"
	"errors"

	"localstay/internal/repository"
)

type gormLedger struct {
	*repository.BookingRepository
}

// NewGormLedger adapts the gorm booking repository to Ledger.
func NewGormLedger(repo *repository.BookingRepository) Ledger {
	return gormLedger{BookingRepository: repo}
}

func (l gormLedger) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return l.Transaction(ctx, func(tx *repository.BookingTx) error {
		return fn(tx)
	})
}

// mapRepoErr turns storage sentinels into ledger errors.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAcceptedOverlap):
		return ErrDatesUnavailable
	default:
		return err
	}
}
