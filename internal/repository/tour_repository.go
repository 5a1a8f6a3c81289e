package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// ErrTourNotFound indicates that a tour was not located in the DB.
var ErrTourNotFound = errors.New("tour not found")

// TourRepo reads tour records and their price lists.  Tour CRUD is
// handled by the surrounding admin application.
type TourRepo struct {
	db *sql.DB
}

// NewTourRepo constructs a TourRepo with the given DB handle.
func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{db: db} }

const tourColumns = `id, name, description, adult_price_cents, child_price_cents, is_active, created_at, updated_at`

func scanTour(row *sql.Row) (*model.Tour, error) {
	var t model.Tour
	var desc sql.NullString
	err := row.Scan(&t.ID, &t.Name, &desc, &t.AdultPriceCents, &t.ChildPriceCents, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		t.Description = &d
	}
	return &t, nil
}

// GetByID retrieves a tour without locking.
func (r *TourRepo) GetByID(ctx context.Context, id uint64) (*model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE id = ?`
	return scanTour(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx retrieves a tour inside the caller's transaction.  The
// reservation and finalize paths read prices through here while holding
// the schedule row lock.
func (r *TourRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE id = ?`
	return scanTour(tx.QueryRowContext(ctx, q, id))
}

// ListActive returns all bookable tours ordered by name for the public
// browse endpoints.
func (r *TourRepo) ListActive(ctx context.Context) ([]model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE is_active = 1 ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Tour, 0)
	for rows.Next() {
		var t model.Tour
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &desc, &t.AdultPriceCents, &t.ChildPriceCents, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			t.Description = &d
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
