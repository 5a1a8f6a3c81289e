package booking

import (
	"math"
	"time"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// Quote computes the total price of a reservation in cents:
// adults*adultCents + children*childCents, discounted by the promotion
// percentage when the code is applicable at the quoted instant, plus
// the flat price of every selected add-on service.  The discount
// applies to the seat total only, never to add-ons.
func Quote(adults, children uint32, tour *model.Tour, promo *model.Promotion, addons []model.AddonService, at time.Time) uint32 {
	seats := uint64(adults)*uint64(tour.AdultPriceCents) + uint64(children)*uint64(tour.ChildPriceCents)
	if promo.Applicable(at) && promo.Percent > 0 {
		pct := promo.Percent
		if pct > 100 {
			pct = 100
		}
		seats -= seats * uint64(pct) / 100
	}
	total := seats
	for _, a := range addons {
		total += uint64(a.PriceCents)
	}
	// totals are stored as 32-bit cents; saturate instead of wrapping
	if total > math.MaxUint32 {
		total = math.MaxUint32
	}
	return uint32(total)
}
