package model

import "time"

// Schedule represents one dated departure of a tour with a finite seat
// capacity.  Confirmed and unexpired pending reservations both count
// against TotalSeats; the invariant confirmed + unexpired_pending <=
// TotalSeats is enforced by the booking engine under a row lock, never
// by this struct.  A schedule may optionally have a guide assigned.
//
// Fields:
//  ID         – primary key identifier.
//  TourID     – tour this departure belongs to.
//  StartsOn   – first day of the departure (date, UTC).
//  EndsOn     – last day of the departure (date, UTC, inclusive).
//  TotalSeats – seat capacity of the departure.
//  GuideID    – assigned guide (nil when unassigned).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Schedule struct {
	ID         uint64    // schedules.id
	TourID     uint64    // schedules.tour_id
	StartsOn   time.Time // schedules.starts_on (DATE)
	EndsOn     time.Time // schedules.ends_on (DATE)
	TotalSeats uint32    // schedules.total_seats
	GuideID    *uint64   // schedules.guide_id (nullable)
	CreatedAt  time.Time // schedules.created_at
	UpdatedAt  time.Time // schedules.updated_at
}
