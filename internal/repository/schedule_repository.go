// Package repository contains the MySQL data access layer.  Repositories
// own a *sql.DB and expose plain methods for lock-free reads plus ...Tx
// variants that participate in a caller-managed transaction.  All
// timestamps are stored and compared in UTC.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/model"
)

// ScheduleRepo manages persistence for tour departures.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const scheduleColumns = `id, tour_id, starts_on, ends_on, total_seats, guide_id, created_at, updated_at`

func scanSchedule(row *sql.Row) (*model.Schedule, error) {
	var s model.Schedule
	var guideID sql.NullInt64
	err := row.Scan(&s.ID, &s.TourID, &s.StartsOn, &s.EndsOn, &s.TotalSeats, &guideID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrScheduleNotFound
		}
		return nil, err
	}
	if guideID.Valid {
		gid := uint64(guideID.Int64)
		s.GuideID = &gid
	}
	return &s, nil
}

// GetByID retrieves a schedule without locking.  Suitable for display
// reads only.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`
	return scanSchedule(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForUpdateTx retrieves a schedule and takes an exclusive row
// lock on it.  Concurrent reservation attempts and guide assignments
// for the same schedule block here until the holding transaction ends;
// other schedules are unaffected.
func (r *ScheduleRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ? FOR UPDATE`
	return scanSchedule(tx.QueryRowContext(ctx, q, id))
}

// SetGuideTx writes the assigned-guide reference within the provided
// transaction.  A nil guideID clears the assignment.  The row's
// existence was proven by GetByIDForUpdateTx earlier in the same
// transaction, and the driver reports rows changed rather than rows
// matched, so a no-op update (clearing an already-clear assignment,
// re-writing the current guide) is still a success.
func (r *ScheduleRepo) SetGuideTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, guideID *uint64) error {
	const q = `UPDATE schedules SET guide_id = ? WHERE id = ?`
	var arg interface{}
	if guideID != nil {
		arg = *guideID
	}
	_, err := tx.ExecContext(ctx, q, arg, scheduleID)
	return err
}

// ListByTour returns all departures of a tour ordered by start date.
// Used by the public browse endpoints.
func (r *ScheduleRepo) ListByTour(ctx context.Context, tourID uint64) ([]model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE tour_id = ? ORDER BY starts_on, id`
	rows, err := r.db.QueryContext(ctx, q, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Schedule, 0)
	for rows.Next() {
		var s model.Schedule
		var guideID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.TourID, &s.StartsOn, &s.EndsOn, &s.TotalSeats, &guideID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if guideID.Valid {
			gid := uint64(guideID.Int64)
			s.GuideID = &gid
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
