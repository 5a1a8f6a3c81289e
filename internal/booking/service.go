package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// HoldDuration is the fixed window a pending reservation keeps its
// seats.  Expiry is enforced lazily at read time; the stored status is
// never rewritten when the window passes.
const HoldDuration = 10 * time.Minute

// Service is the write path of the reservation engine.  Every mutation
// runs inside a transaction that holds the target schedule's row lock,
// so two createReservation calls against the same schedule are strictly
// serialized while calls against different schedules proceed in
// parallel.
type Service struct {
	txm          TxManager
	schedules    ScheduleStore
	reservations ReservationStore
	tours        TourStore
	guides       GuideStore
	promos       PromotionStore
	addons       AddonStore
	checkout     CheckoutStore
	events       EventPublisher
	now          func() time.Time
}

// NewService constructs the booking service.  All store dependencies
// must be non-nil; events may be nil, in which case no notifications
// are emitted.
func NewService(txm TxManager, schedules ScheduleStore, reservations ReservationStore, tours TourStore, guides GuideStore, promos PromotionStore, addons AddonStore, checkout CheckoutStore, events EventPublisher) *Service {
	if txm == nil || schedules == nil || reservations == nil || tours == nil || guides == nil || promos == nil || addons == nil || checkout == nil {
		panic("nil store passed to NewService")
	}
	return &Service{
		txm:          txm,
		schedules:    schedules,
		reservations: reservations,
		tours:        tours,
		guides:       guides,
		promos:       promos,
		addons:       addons,
		checkout:     checkout,
		events:       events,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateReservationInput carries a booking request into the manager.
type CreateReservationInput struct {
	UserID     uint64
	CustomerID uint64
	ScheduleID uint64
	Adults     uint32
	Children   uint32
	PromoCode  string   // empty when none
	AddonIDs   []uint64 // selected add-on service ids
}

// CreateReservationResult is returned on a successful hold.  Remaining
// is the seat count left after this reservation, computed under the
// same lock, for immediate display.
type CreateReservationResult struct {
	Reservation *model.Reservation
	Remaining   int32
}

// CreateReservation issues a time-limited hold against a schedule's
// seat inventory.  The whole decision runs in one transaction under the
// schedule row lock:
//
//  1. lock the schedule row (ErrScheduleNotFound when absent),
//  2. reject a second pending, unexpired hold by the same user
//     (DuplicateHoldError),
//  3. reject unless the derived status is UPCOMING_AVAILABLE
//     (StateError),
//  4. consult the seat ledger under the held lock and reject when
//     available < requested (CapacityError),
//  5. price the party (promotion and add-ons included) and insert the
//     PENDING reservation with expiry now+HoldDuration.
//
// After the commit a "reservation created" event is emitted
// best-effort.
func (s *Service) CreateReservation(ctx context.Context, in CreateReservationInput) (*CreateReservationResult, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	now := s.now()
	var out CreateReservationResult
	err := s.txm.InTx(ctx, func(tx *sql.Tx) error {
		sched, err := s.schedules.GetByIDForUpdateTx(ctx, tx, in.ScheduleID)
		if err != nil {
			return err
		}
		dup, err := s.reservations.ActiveHoldTx(ctx, tx, in.UserID, in.ScheduleID, now)
		if err != nil {
			return err
		}
		if dup != nil {
			return &DuplicateHoldError{ReservationID: dup.ID, ExpiresAt: dup.ExpiresAt}
		}
		claims, err := s.reservations.SeatClaimsTx(ctx, tx, in.ScheduleID)
		if err != nil {
			return err
		}
		available := AvailableSeats(sched.TotalSeats, claims, now)
		if st := ResolveStatus(now, sched.StartsOn, sched.EndsOn, available); st != StatusUpcomingAvailable {
			return &StateError{Msg: "schedule is not open for booking (status " + string(st) + ")"}
		}
		requested := in.Adults + in.Children
		if available < int32(requested) {
			return &CapacityError{ScheduleID: in.ScheduleID, Requested: requested, Available: available}
		}
		tour, err := s.tours.GetByIDTx(ctx, tx, sched.TourID)
		if err != nil {
			return err
		}
		var promo *model.Promotion
		if in.PromoCode != "" {
			if promo, err = s.promos.GetByCodeTx(ctx, tx, in.PromoCode); err != nil {
				return err
			}
		}
		selected, err := s.resolveAddons(ctx, tx, in.AddonIDs)
		if err != nil {
			return err
		}
		res := &model.Reservation{
			UserID:     in.UserID,
			CustomerID: in.CustomerID,
			ScheduleID: in.ScheduleID,
			Adults:     in.Adults,
			Children:   in.Children,
			TotalCents: Quote(in.Adults, in.Children, tour, promo, selected, now),
			Status:     model.ReservationPending,
			ExpiresAt:  now.Add(HoldDuration),
		}
		if in.PromoCode != "" {
			res.PromoCode = &in.PromoCode
		}
		if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
			return err
		}
		if len(selected) > 0 {
			links := make([]model.ReservationAddon, 0, len(selected))
			for _, a := range selected {
				links = append(links, model.ReservationAddon{
					ReservationID: res.ID,
					ServiceID:     a.ID,
					PriceCents:    a.PriceCents,
				})
			}
			if err := s.reservations.AddAddonsTx(ctx, tx, links); err != nil {
				return err
			}
		}
		out.Reservation = res
		out.Remaining = available - int32(requested)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.ReservationCreated(ctx, out.Reservation, out.Remaining)
	}
	return &out, nil
}

// resolveAddons loads the selected add-on services and rejects ids that
// do not resolve to an active service.
func (s *Service) resolveAddons(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.AddonService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	selected, err := s.addons.GetActiveByIDsTx(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	if len(selected) != len(ids) {
		return nil, &ValidationError{Msg: "one or more selected add-on services do not exist"}
	}
	return selected, nil
}

// validateCreate rejects malformed booking requests before any lock is
// taken.
func validateCreate(in CreateReservationInput) error {
	if in.UserID == 0 || in.CustomerID == 0 || in.ScheduleID == 0 {
		return &ValidationError{Msg: "user, customer and schedule are required"}
	}
	if in.Adults == 0 {
		return &ValidationError{Msg: "at least one adult seat is required"}
	}
	seen := make(map[uint64]struct{}, len(in.AddonIDs))
	for _, id := range in.AddonIDs {
		if id == 0 {
			return &ValidationError{Msg: "invalid add-on service id"}
		}
		if _, dup := seen[id]; dup {
			return &ValidationError{Msg: "duplicate add-on service id"}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// CancelReservation releases a pending hold immediately by flipping its
// status to CANCELLED, returning the seats to the pool without waiting
// for the lazy TTL.  Only the owning user may cancel, and only a
// PENDING reservation can be cancelled.
func (s *Service) CancelReservation(ctx context.Context, reservationID, userID uint64) error {
	return s.txm.InTx(ctx, func(tx *sql.Tx) error {
		res, err := s.reservations.GetByIDForUpdateTx(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID != userID {
			return ErrForbidden
		}
		if res.Status != model.ReservationPending {
			return &StateError{Msg: "only a pending reservation can be cancelled (status " + res.Status + ")"}
		}
		return s.reservations.MarkCancelledTx(ctx, tx, reservationID)
	})
}

// ScheduleAvailability is the lock-free display read: the schedule, its
// available seats and derived status at this instant.  The snapshot may
// be slightly optimistic and is never used on its own to grant a
// reservation.
func (s *Service) ScheduleAvailability(ctx context.Context, scheduleID uint64) (*model.Schedule, int32, ScheduleStatus, error) {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, 0, "", err
	}
	claims, err := s.reservations.SeatClaims(ctx, scheduleID)
	if err != nil {
		return nil, 0, "", err
	}
	now := s.now()
	available := AvailableSeats(sched.TotalSeats, claims, now)
	return sched, available, ResolveStatus(now, sched.StartsOn, sched.EndsOn, available), nil
}
