package model

import "time"

// Reservation status values.  The stored status is a single canonical
// three-value enum.  PENDING is the only non-terminal state; the
// transitions PENDING->CONFIRMED and PENDING->CANCELLED are forward
// only.  A pending reservation past its ExpiresAt keeps the literal
// PENDING status forever — expiry is enforced lazily by the seat
// ledger, never written back.
const (
	ReservationPending   = "PENDING"   // hold awaiting payment
	ReservationConfirmed = "CONFIRMED" // paid and ticketed
	ReservationCancelled = "CANCELLED" // released by user or admin
)

// Reservation records a customer's claim on N adult + M child seats of
// one schedule.  It is created as a time-limited hold (status PENDING
// with ExpiresAt set a fixed offset after CreatedAt) and finalized or
// cancelled later.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – account that placed the reservation.
//  CustomerID    – customer record the booking is for.
//  ScheduleID    – departure being reserved.
//  Adults        – number of adult seats.
//  Children      – number of child seats.
//  PromoCode     – promotion code applied, if any.
//  TotalCents    – computed total price in cents.
//  Status        – PENDING, CONFIRMED or CANCELLED.
//  PaymentMethod – method recorded on finalize (nil before).
//  PaidAt        – payment timestamp (nil before finalize).
//  ExpiresAt     – hold expiry; seats stop counting once now >= ExpiresAt.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64     // reservations.id
	UserID        uint64     // reservations.user_id
	CustomerID    uint64     // reservations.customer_id
	ScheduleID    uint64     // reservations.schedule_id
	Adults        uint32     // reservations.adults
	Children      uint32     // reservations.children
	PromoCode     *string    // reservations.promo_code (nullable)
	TotalCents    uint32     // reservations.total_cents
	Status        string     // reservations.status
	PaymentMethod *string    // reservations.payment_method (nullable)
	PaidAt        *time.Time // reservations.paid_at (nullable)
	ExpiresAt     time.Time  // reservations.expires_at
	CreatedAt     time.Time  // reservations.created_at
	UpdatedAt     time.Time  // reservations.updated_at
}

// Seats returns the total number of seats claimed by the reservation.
func (r *Reservation) Seats() uint32 { return r.Adults + r.Children }
