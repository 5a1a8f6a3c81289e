// Package booking implements the seat-reservation and resource-conflict
// engine: the seat ledger, the reservation write path with its schedule
// row lock, the guide conflict detector, the derived schedule status and
// the payment finalizer.  This file defines the error taxonomy shared by
// every operation.  Sentinel values cover absent entities; structured
// types carry the detail the transport layer puts into responses.
package booking

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel not-found errors.  Handlers translate these into 404s.
var (
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrGuideNotFound       = errors.New("guide not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// ErrForbidden is returned when a caller operates on a reservation that
// belongs to a different user.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// CapacityError reports that a schedule cannot seat the requested party.
type CapacityError struct {
	ScheduleID uint64
	Requested  uint32
	Available  int32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("schedule %d cannot seat %d guests, only %d seats left",
		e.ScheduleID, e.Requested, e.Available)
}

// DuplicateHoldError reports that the user already has a pending,
// unexpired reservation for the schedule.  It carries the competing
// reservation so the caller can point the user at it.
type DuplicateHoldError struct {
	ReservationID uint64
	ExpiresAt     time.Time
}

func (e *DuplicateHoldError) Error() string {
	return fmt.Sprintf("a pending reservation (%d) already exists for this schedule, hold expires at %s",
		e.ReservationID, e.ExpiresAt.UTC().Format(time.RFC3339))
}

// GuideConflictError reports an interval overlap with an existing guide
// assignment.  It always carries the colliding schedule's id and date
// range.
type GuideConflictError struct {
	GuideID    uint64
	ScheduleID uint64 // the colliding schedule
	StartsOn   time.Time
	EndsOn     time.Time
}

func (e *GuideConflictError) Error() string {
	return fmt.Sprintf("guide %d is already assigned to schedule %d from %s to %s",
		e.GuideID, e.ScheduleID,
		e.StartsOn.UTC().Format("2006-01-02"), e.EndsOn.UTC().Format("2006-01-02"))
}

// StateError reports an operation against an entity whose current state
// forbids it: confirming a non-pending reservation, booking a departure
// that is not upcoming-available, assigning a guide that is not active.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return e.Msg }

// InfrastructureError reports a storage-layer failure that is not a
// rule violation: lock contention that survived retrying, a lost
// connection, a transaction that could not begin or commit.  Callers
// surface it as a transient failure rather than a client error.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *InfrastructureError) Unwrap() error { return e.Err }
