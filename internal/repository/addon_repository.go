package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// AddonRepo reads the add-on service catalogue.
type AddonRepo struct {
	db *sql.DB
}

// NewAddonRepo constructs an AddonRepo with the given DB handle.
func NewAddonRepo(db *sql.DB) *AddonRepo { return &AddonRepo{db: db} }

// GetActiveByIDsTx returns the active services among the requested ids,
// inside the caller's transaction.  Callers compare result and request
// lengths to detect ids that resolved to nothing.
func (r *AddonRepo) GetActiveByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.AddonService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]interface{}, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT id, name, price_cents, is_active, created_at
          FROM addon_services
          WHERE is_active = 1 AND id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AddonService, 0, len(ids))
	for rows.Next() {
		var a model.AddonService
		if err := rows.Scan(&a.ID, &a.Name, &a.PriceCents, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
