package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations, their add-on
// links and the seat-claim queries the ledger runs on.  Reservations
// are only ever inserted and status-flipped here; nothing deletes them.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, customer_id, schedule_id, adults, children,
       promo_code, total_cents, status, payment_method, paid_at, expires_at, created_at, updated_at`

func scanReservation(scan func(dest ...interface{}) error) (*model.Reservation, error) {
	var res model.Reservation
	var promo, method sql.NullString
	var paidAt sql.NullTime
	err := scan(
		&res.ID, &res.UserID, &res.CustomerID, &res.ScheduleID, &res.Adults, &res.Children,
		&promo, &res.TotalCents, &res.Status, &method, &paidAt, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if promo.Valid {
		p := promo.String
		res.PromoCode = &p
	}
	if method.Valid {
		m := method.String
		res.PaymentMethod = &m
	}
	if paidAt.Valid {
		t := paidAt.Time
		res.PaidAt = &t
	}
	res.Status = normalizeStatus(res.Status, paidAt.Valid)
	return &res, nil
}

// seatClaimsQuery feeds the seat ledger: every non-cancelled claim with
// its seat count and hold expiry.  Whether a PENDING claim still counts
// is decided by the ledger at read time, not here.
const seatClaimsQuery = `SELECT status, adults + children, expires_at, paid_at IS NOT NULL
       FROM reservations
       WHERE schedule_id = ? AND status <> 'CANCELLED'`

func collectClaims(rows *sql.Rows) ([]booking.SeatClaim, error) {
	defer rows.Close()
	var claims []booking.SeatClaim
	for rows.Next() {
		var c booking.SeatClaim
		var paid bool
		if err := rows.Scan(&c.Status, &c.Seats, &c.ExpiresAt, &paid); err != nil {
			return nil, err
		}
		c.Status = normalizeStatus(c.Status, paid)
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return claims, nil
}

// SeatClaims is the lock-free claim snapshot used for display.
func (r *ReservationRepo) SeatClaims(ctx context.Context, scheduleID uint64) ([]booking.SeatClaim, error) {
	rows, err := r.db.QueryContext(ctx, seatClaimsQuery, scheduleID)
	if err != nil {
		return nil, err
	}
	return collectClaims(rows)
}

// SeatClaimsTx reads claims inside the caller's transaction.  Callers
// granting seats must hold the schedule row lock in the same
// transaction for the snapshot to be authoritative.
func (r *ReservationRepo) SeatClaimsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]booking.SeatClaim, error) {
	rows, err := tx.QueryContext(ctx, seatClaimsQuery, scheduleID)
	if err != nil {
		return nil, err
	}
	return collectClaims(rows)
}

// ActiveHoldTx returns the user's pending, unexpired reservation for a
// schedule, or nil when there is none.  Used for duplicate-hold
// detection under the schedule row lock.  Detection keys off the
// literal stored PENDING status plus the expiry comparison, matching
// the ledger's lazy-expiry rule.
func (r *ReservationRepo) ActiveHoldTx(ctx context.Context, tx *sql.Tx, userID, scheduleID uint64, now time.Time) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE user_id = ? AND schedule_id = ? AND status = 'PENDING' AND expires_at > ?
               LIMIT 1`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, userID, scheduleID, now.UTC()).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// CreateTx inserts a new reservation within the caller's transaction
// and populates the generated ID and DB-default timestamps on the
// provided record.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
               (user_id, customer_id, schedule_id, adults, children, promo_code, total_cents, status, expires_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var promo interface{}
	if res.PromoCode != nil {
		promo = *res.PromoCode
	}
	result, err := tx.ExecContext(ctx, q,
		res.UserID, res.CustomerID, res.ScheduleID, res.Adults, res.Children,
		promo, res.TotalCents, res.Status, res.ExpiresAt.UTC(),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row so timestamps reflect the DB defaults.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// AddAddonsTx bulk-inserts the reservation's add-on links.  Passing an
// empty slice has no effect and returns nil.
func (r *ReservationRepo) AddAddonsTx(ctx context.Context, tx *sql.Tx, addons []model.ReservationAddon) error {
	if len(addons) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_addons (reservation_id, service_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(addons)*3)
	for i, a := range addons {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, a.ReservationID, a.ServiceID, a.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByIDForUpdateTx locks and returns a reservation row.  Returns
// booking.ErrReservationNotFound when the row does not exist.
func (r *ReservationRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// MarkConfirmedTx flips a reservation to CONFIRMED and records the
// payment method and timestamp.
func (r *ReservationRepo) MarkConfirmedTx(ctx context.Context, tx *sql.Tx, id uint64, method string, paidAt time.Time) error {
	const q = `UPDATE reservations SET status = 'CONFIRMED', payment_method = ?, paid_at = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, method, paidAt.UTC(), id)
	return err
}

// MarkCancelledTx flips a reservation to CANCELLED, releasing its seat
// contribution immediately.
func (r *ReservationRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE reservations SET status = 'CANCELLED' WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

// ReservationDetail is a reservation joined with its tour and schedule
// plus the add-ons charged under it, shaped for customer display.
type ReservationDetail struct {
	ID         uint64    `json:"id"`
	ScheduleID uint64    `json:"schedule_id"`
	TourName   string    `json:"tour_name"`
	StartsOn   string    `json:"starts_on"`
	EndsOn     string    `json:"ends_on"`
	Adults     uint32    `json:"adults"`
	Children   uint32    `json:"children"`
	Status     string    `json:"status"`
	TotalCents uint32    `json:"total_cents"`
	ExpiresAt  time.Time `json:"expires_at"`
	Addons     []struct {
		ServiceID  uint64 `json:"service_id"`
		Name       string `json:"name"`
		PriceCents uint32 `json:"price_cents"`
	} `json:"addons"`
}

const detailQuery = `SELECT r.id, r.schedule_id, t.name, s.starts_on, s.ends_on,
              r.adults, r.children, r.status, r.paid_at IS NOT NULL, r.total_cents, r.expires_at
       FROM reservations r
       JOIN schedules s ON s.id = r.schedule_id
       JOIN tours t ON t.id = s.tour_id`

func scanDetail(rows *sql.Rows) (ReservationDetail, error) {
	var d ReservationDetail
	var startsOn, endsOn time.Time
	var paid bool
	err := rows.Scan(
		&d.ID, &d.ScheduleID, &d.TourName, &startsOn, &endsOn,
		&d.Adults, &d.Children, &d.Status, &paid, &d.TotalCents, &d.ExpiresAt,
	)
	if err != nil {
		return d, err
	}
	d.Status = normalizeStatus(d.Status, paid)
	d.StartsOn = startsOn.UTC().Format("2006-01-02")
	d.EndsOn = endsOn.UTC().Format("2006-01-02")
	d.Addons = []struct {
		ServiceID  uint64 `json:"service_id"`
		Name       string `json:"name"`
		PriceCents uint32 `json:"price_cents"`
	}{}
	return d, nil
}

// ListByUser returns the user's reservations, newest first, with tour,
// schedule and add-on details populated.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	q := detailQuery + ` WHERE r.user_id = ? ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.attachAddons(ctx, details, index); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByIDForUser returns one reservation for the given user.  A row
// belonging to another user is reported as not found rather than
// leaking its existence.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	q := detailQuery + ` WHERE r.id = ? AND r.user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, reservationID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, booking.ErrReservationNotFound
	}
	d, err := scanDetail(rows)
	if err != nil {
		return nil, err
	}
	details := []ReservationDetail{d}
	if err := r.attachAddons(ctx, details, map[uint64]int{d.ID: 0}); err != nil {
		return nil, err
	}
	return &details[0], nil
}

// attachAddons populates the add-on lists for all reservations in a
// single query.
func (r *ReservationRepo) attachAddons(ctx context.Context, details []ReservationDetail, index map[uint64]int) error {
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT ra.reservation_id, ra.service_id, a.name, ra.price_cents
          FROM reservation_addons ra
          JOIN addon_services a ON a.id = ra.service_id
          WHERE ra.reservation_id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY ra.reservation_id, ra.id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rid, sid uint64
		var name string
		var price uint32
		if err := rows.Scan(&rid, &sid, &name, &price); err != nil {
			return err
		}
		idx, ok := index[rid]
		if !ok {
			continue
		}
		details[idx].Addons = append(details[idx].Addons, struct {
			ServiceID  uint64 `json:"service_id"`
			Name       string `json:"name"`
			PriceCents uint32 `json:"price_cents"`
		}{ServiceID: sid, Name: name, PriceCents: price})
	}
	return rows.Err()
}
