package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/model"
)

// GuideRepo reads guides and the date intervals their schedule
// assignments commit them to.  Guide CRUD itself lives in the
// surrounding admin application; this repository only supports the
// conflict checks and assignment writes of the booking engine.
type GuideRepo struct {
	db *sql.DB
}

// NewGuideRepo constructs a GuideRepo with the given DB handle.
func NewGuideRepo(db *sql.DB) *GuideRepo { return &GuideRepo{db: db} }

const guideColumns = `id, name, email, status, created_at, updated_at`

// GetByIDForUpdateTx retrieves a guide and takes an exclusive row lock
// on it, serializing the check-then-assign sequence per guide.  Returns
// booking.ErrGuideNotFound when absent.
func (r *GuideRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Guide, error) {
	const q = `SELECT ` + guideColumns + ` FROM guides WHERE id = ? FOR UPDATE`
	var g model.Guide
	err := tx.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name, &g.Email, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrGuideNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListActive returns all ACTIVE guides ordered by name.
func (r *GuideRepo) ListActive(ctx context.Context) ([]model.Guide, error) {
	const q = `SELECT ` + guideColumns + ` FROM guides WHERE status = 'ACTIVE' ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Guide, 0)
	for rows.Next() {
		var g model.Guide
		if err := rows.Scan(&g.ID, &g.Name, &g.Email, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const assignmentsQuery = `SELECT id, tour_id, starts_on, ends_on
       FROM schedules
       WHERE guide_id = ? AND id <> ?
       ORDER BY starts_on, id`

func collectAssignments(rows *sql.Rows) ([]model.GuideAssignment, error) {
	defer rows.Close()
	out := make([]model.GuideAssignment, 0)
	for rows.Next() {
		var a model.GuideAssignment
		if err := rows.Scan(&a.ScheduleID, &a.TourID, &a.StartsOn, &a.EndsOn); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Assignments returns the guide's assignment intervals, excluding the
// given schedule (pass 0 to exclude nothing).  Lock-free; used by the
// candidate-guide listing where a slightly stale view is acceptable.
func (r *GuideRepo) Assignments(ctx context.Context, guideID, excludeScheduleID uint64) ([]model.GuideAssignment, error) {
	rows, err := r.db.QueryContext(ctx, assignmentsQuery, guideID, excludeScheduleID)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

// AssignmentsTx is the transactional variant used during assignment,
// while the guide row lock is held.
func (r *GuideRepo) AssignmentsTx(ctx context.Context, tx *sql.Tx, guideID, excludeScheduleID uint64) ([]model.GuideAssignment, error) {
	rows, err := tx.QueryContext(ctx, assignmentsQuery, guideID, excludeScheduleID)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}
