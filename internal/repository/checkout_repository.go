package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// CheckoutRepo writes the artifacts of a finalized booking: tickets,
// the invoice and the payment audit record.  All methods run inside the
// finalizer's transaction so the writes land atomically with the status
// flip.
type CheckoutRepo struct {
	db *sql.DB
}

// NewCheckoutRepo constructs a CheckoutRepo with the given DB handle.
func NewCheckoutRepo(db *sql.DB) *CheckoutRepo { return &CheckoutRepo{db: db} }

// CreateTicketsTx bulk-inserts one ticket row per seat.  Passing an
// empty slice has no effect and returns nil.
func (r *CheckoutRepo) CreateTicketsTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (reservation_id, serial, tier, price_cents, issued_at) VALUES `
	args := make([]interface{}, 0, len(tickets)*5)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, t.ReservationID, t.Serial, t.Tier, t.PriceCents, t.IssuedAt.UTC())
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreateInvoiceTx inserts the invoice and populates its generated ID.
func (r *CheckoutRepo) CreateInvoiceTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	const q = `INSERT INTO invoices (reservation_id, number, total_cents, issued_at) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, inv.ReservationID, inv.Number, inv.TotalCents, inv.IssuedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

// CreatePaymentTx inserts the payment record and populates its
// generated ID.
func (r *CheckoutRepo) CreatePaymentTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (reservation_id, method, amount_cents, paid_at) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.ReservationID, p.Method, p.AmountCents, p.PaidAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}
