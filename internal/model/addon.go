package model

import "time"

// AddonService is an optional extra (airport pickup, insurance, meal
// plan) that can be attached to a reservation.  Its price is added on
// top of the seat total after any promotion discount.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the service.
//  PriceCents – flat price per reservation in cents.
//  IsActive   – whether the service can still be selected.
//  CreatedAt  – creation timestamp.
type AddonService struct {
	ID         uint64    // addon_services.id
	Name       string    // addon_services.name
	PriceCents uint32    // addon_services.price_cents
	IsActive   bool      // addon_services.is_active
	CreatedAt  time.Time // addon_services.created_at
}

// ReservationAddon links a reservation to a selected add-on service and
// freezes the price that was charged for it.
type ReservationAddon struct {
	ID            uint64 // reservation_addons.id
	ReservationID uint64 // reservation_addons.reservation_id
	ServiceID     uint64 // reservation_addons.service_id
	PriceCents    uint32 // reservation_addons.price_cents
}
