package model

import "time"

// Promotion is a percentage discount code.  A code is applicable when
// the booking time falls inside [ValidFrom, ValidUntil] and the code is
// active.  Discount arithmetic beyond the percentage is out of scope.
//
// Fields:
//  ID         – primary key identifier.
//  Code       – unique promotion code.
//  Percent    – discount percentage in [0,100].
//  ValidFrom  – first instant the code is usable.
//  ValidUntil – last instant the code is usable.
//  IsActive   – manual kill switch.
type Promotion struct {
	ID         uint64    // promotions.id
	Code       string    // promotions.code
	Percent    uint32    // promotions.percent
	ValidFrom  time.Time // promotions.valid_from
	ValidUntil time.Time // promotions.valid_until
	IsActive   bool      // promotions.is_active
}

// Applicable reports whether the promotion may be applied at the given
// instant.  Both validity bounds are inclusive.
func (p *Promotion) Applicable(at time.Time) bool {
	if p == nil || !p.IsActive {
		return false
	}
	return !at.Before(p.ValidFrom) && !at.After(p.ValidUntil)
}
