package model

import "time"

// Ticket price tiers.  One ticket row is issued per seat on finalize,
// at the tier price that was in effect for the reservation.
const (
	TicketTierAdult = "ADULT"
	TicketTierChild = "CHILD"
)

// Ticket is a single admitted seat of a confirmed booking.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – confirmed reservation the ticket belongs to.
//  Serial        – opaque unique serial printed on the ticket.
//  Tier          – ADULT or CHILD.
//  PriceCents    – tier price charged for this seat.
//  IssuedAt      – issuance timestamp.
type Ticket struct {
	ID            uint64    // tickets.id
	ReservationID uint64    // tickets.reservation_id
	Serial        string    // tickets.serial
	Tier          string    // tickets.tier
	PriceCents    uint32    // tickets.price_cents
	IssuedAt      time.Time // tickets.issued_at
}

// Invoice is the billing record issued for a confirmed booking.
type Invoice struct {
	ID            uint64    // invoices.id
	ReservationID uint64    // invoices.reservation_id
	Number        string    // invoices.number (unique)
	TotalCents    uint32    // invoices.total_cents
	IssuedAt      time.Time // invoices.issued_at
}

// Payment is the checkout audit record written when a reservation is
// finalized.  Exactly one payment row exists per confirmed reservation.
type Payment struct {
	ID            uint64    // payments.id
	ReservationID uint64    // payments.reservation_id
	Method        string    // payments.method
	AmountCents   uint32    // payments.amount_cents
	PaidAt        time.Time // payments.paid_at
}
