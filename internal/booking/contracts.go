package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// TxManager runs a function inside a single database transaction.  The
// transaction is committed when fn returns nil and rolled back
// otherwise.  Implementations bound the transaction's lifetime so a
// stalled writer cannot hold a schedule row lock forever, and may retry
// a bounded number of times on lock-wait timeouts and deadlocks.
type TxManager interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// ScheduleStore reads and mutates schedules.  GetByIDForUpdateTx takes
// the exclusive row lock that serializes all reservation attempts and
// guide assignments for one schedule; attempts on other schedules are
// unaffected.
type ScheduleStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Schedule, error)
	GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Schedule, error)
	SetGuideTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, guideID *uint64) error
}

// ReservationStore persists reservations and answers the seat ledger's
// claim queries.  SeatClaims is the lock-free display variant;
// SeatClaimsTx must be used by any caller deciding an admission while
// holding the schedule row lock.
type ReservationStore interface {
	SeatClaims(ctx context.Context, scheduleID uint64) ([]SeatClaim, error)
	SeatClaimsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]SeatClaim, error)
	ActiveHoldTx(ctx context.Context, tx *sql.Tx, userID, scheduleID uint64, now time.Time) (*model.Reservation, error)
	CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	AddAddonsTx(ctx context.Context, tx *sql.Tx, addons []model.ReservationAddon) error
	GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error)
	MarkConfirmedTx(ctx context.Context, tx *sql.Tx, id uint64, method string, paidAt time.Time) error
	MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error
}

// TourStore reads tour price lists.
type TourStore interface {
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Tour, error)
}

// GuideStore reads guides and their assignment intervals.
// GetByIDForUpdateTx locks the guide row so that two admins cannot race
// the check-then-assign sequence for the same guide.
type GuideStore interface {
	GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Guide, error)
	AssignmentsTx(ctx context.Context, tx *sql.Tx, guideID, excludeScheduleID uint64) ([]model.GuideAssignment, error)
	ListActive(ctx context.Context) ([]model.Guide, error)
	Assignments(ctx context.Context, guideID, excludeScheduleID uint64) ([]model.GuideAssignment, error)
}

// PromotionStore resolves promotion codes.  A missing code returns
// (nil, nil): an unknown code is simply not applied.
type PromotionStore interface {
	GetByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.Promotion, error)
}

// AddonStore resolves selected add-on services.  Only active services
// are returned; a requested id that resolves to nothing is a validation
// failure decided by the caller.
type AddonStore interface {
	GetActiveByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.AddonService, error)
}

// CheckoutStore writes the finalize artifacts.  All three writes happen
// in the finalizer's transaction and commit or roll back together.
type CheckoutStore interface {
	CreateTicketsTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error
	CreateInvoiceTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error
	CreatePaymentTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error
}

// EventPublisher delivers best-effort notifications to the operations
// channel after a commit.  Errors are logged by implementations and
// never affect the transaction outcome.
type EventPublisher interface {
	ReservationCreated(ctx context.Context, res *model.Reservation, remaining int32)
	GuideAssigned(ctx context.Context, guide *model.Guide, sched *model.Schedule)
	BookingConfirmed(ctx context.Context, res *model.Reservation, invoiceNumber string)
}
