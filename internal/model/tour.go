package model

import "time"

// Tour represents a sellable tour package.  A tour can have many
// scheduled departures (Schedule) and many optional add-on services.
// Tier prices are stored in cents on the tour itself so that every
// departure of the same tour shares one price list.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – unique display name of the tour.
//  Description     – optional marketing description.
//  AdultPriceCents – seat price per adult in cents.
//  ChildPriceCents – seat price per child in cents.
//  IsActive        – whether the tour is open for scheduling.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Tour struct {
	ID              uint64    // tours.id
	Name            string    // tours.name
	Description     *string   // tours.description (nullable)
	AdultPriceCents uint32    // tours.adult_price_cents
	ChildPriceCents uint32    // tours.child_price_cents
	IsActive        bool      // tours.is_active
	CreatedAt       time.Time // tours.created_at
	UpdatedAt       time.Time // tours.updated_at
}
