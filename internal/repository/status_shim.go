package repository

import (
	"strings"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// normalizeStatus maps stored reservation status values onto the
// canonical three-value enum.  Earlier revisions of the schema carried
// two overlapping columns (a booking state plus a separate payment
// flag) and a handful of legacy spellings; rows written by that code
// may still exist.  The mapping lives here, at the storage boundary —
// core logic only ever sees PENDING, CONFIRMED or CANCELLED.
//
// paid reports whether a payment timestamp is present on the row and
// breaks the tie for legacy values that conflated "booked" with "paid".
func normalizeStatus(raw string, paid bool) string {
	up := strings.ToUpper(raw)
	switch up {
	case model.ReservationPending, model.ReservationConfirmed, model.ReservationCancelled:
		return up
	case "APPROVED", "PAID", "BOOKED":
		// Legacy booked states: paid rows were confirmed bookings,
		// unpaid ones were holds.
		if paid {
			return model.ReservationConfirmed
		}
		return model.ReservationPending
	case "REJECTED", "VOID":
		return model.ReservationCancelled
	}
	// Unknown value: treat paid rows as confirmed, the rest as holds the
	// lazy TTL will age out.
	if paid {
		return model.ReservationConfirmed
	}
	return model.ReservationPending
}
