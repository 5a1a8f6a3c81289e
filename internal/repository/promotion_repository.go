package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// PromotionRepo resolves promotion codes for pricing.
type PromotionRepo struct {
	db *sql.DB
}

// NewPromotionRepo constructs a PromotionRepo with the given DB handle.
func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{db: db} }

// GetByCodeTx looks up a promotion by its code inside the caller's
// transaction.  An unknown code returns (nil, nil): codes that do not
// resolve are simply not applied, they are not an error.
func (r *PromotionRepo) GetByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.Promotion, error) {
	const q = `SELECT id, code, percent, valid_from, valid_until, is_active FROM promotions WHERE code = ?`
	var p model.Promotion
	err := tx.QueryRowContext(ctx, q, code).Scan(&p.ID, &p.Code, &p.Percent, &p.ValidFrom, &p.ValidUntil, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
