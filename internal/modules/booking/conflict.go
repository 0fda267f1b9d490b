package booking

import "localstay/internal/domain"

// FindConflict returns the first ACCEPTED booking on the stay whose range
// overlaps r, or nil. excludeID (when non-zero) is skipped so that a booking
// being accepted does not conflict with itself. It must run inside the
// caller's transaction.
func FindConflict(tx LedgerTx, stayID int64, r domain.DateRange, excludeID int64) (*domain.Booking, error) {
	accepted, err := tx.AcceptedOnStay(stayID, excludeID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return firstOverlap(accepted, r, excludeID), nil
}

func firstOverlap(candidates []domain.Booking, r domain.DateRange, excludeID int64) *domain.Booking {
	for i := range candidates {
		b := &candidates[i]
		if b.Status != domain.BookingAccepted {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if b.Range().Overlaps(r) {
			return b
		}
	}
	return nil
}
