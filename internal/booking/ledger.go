package booking

import (
	"time"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// SeatClaim is one reservation's claim against a schedule's capacity as
// the seat ledger sees it: the stored status, the seat count and the
// hold expiry.  Repositories return every non-cancelled reservation of
// a schedule as a claim; whether a claim still counts is decided here,
// at read time.
type SeatClaim struct {
	Status    string    // stored reservation status
	Seats     uint32    // adults + children
	ExpiresAt time.Time // hold expiry; only meaningful for PENDING
}

// CountsAt reports whether the claim consumes seats at the given
// instant.  Confirmed claims always count.  Pending claims count only
// while now < ExpiresAt — expiry is enforced lazily right here, the
// stored status stays PENDING forever and no sweeper ever rewrites it.
// Anything else (cancelled, unknown legacy value) never counts.
func (c SeatClaim) CountsAt(now time.Time) bool {
	switch c.Status {
	case model.ReservationConfirmed:
		return true
	case model.ReservationPending:
		return now.Before(c.ExpiresAt)
	}
	return false
}

// AvailableSeats computes the seats still open on a schedule:
// total minus every claim that counts at the given instant.  The result
// can be negative when historic data oversold a schedule; callers treat
// anything <= 0 as full.
//
// On its own this is a lock-free snapshot good enough for display.  Any
// caller that grants seats based on the result must obtain the claims
// inside the same locked transaction that performs the grant.
func AvailableSeats(totalSeats uint32, claims []SeatClaim, now time.Time) int32 {
	committed := int64(0)
	for _, c := range claims {
		if c.CountsAt(now) {
			committed += int64(c.Seats)
		}
	}
	return int32(int64(totalSeats) - committed)
}
