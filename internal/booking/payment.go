package booking

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// CheckoutResult bundles the artifacts issued by a successful
// finalization: one ticket per seat, the invoice and the payment audit
// record.
type CheckoutResult struct {
	Reservation *model.Reservation
	Invoice     *model.Invoice
	Tickets     []model.Ticket
	Payment     *model.Payment
}

// ConfirmPayment converts a held reservation into a confirmed booking.
// The reservation is re-read under lock and rejected with a StateError
// unless it is still PENDING — the call is deliberately not idempotent,
// a second confirm of the same reservation fails.  On success the
// status flips to CONFIRMED, the payment method and timestamp are
// recorded, one ticket is issued per adult and per child seat at the
// applicable tier price, and the invoice and payment records are
// written.  Every write commits together or not at all.
func (s *Service) ConfirmPayment(ctx context.Context, reservationID, userID uint64, method string) (*CheckoutResult, error) {
	if method == "" {
		return nil, &ValidationError{Msg: "payment method is required"}
	}
	now := s.now()
	var out CheckoutResult
	err := s.txm.InTx(ctx, func(tx *sql.Tx) error {
		res, err := s.reservations.GetByIDForUpdateTx(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID != userID {
			return ErrForbidden
		}
		if res.Status != model.ReservationPending {
			return &StateError{Msg: "reservation cannot be confirmed (status " + res.Status + ")"}
		}
		// Lock the schedule row as well: the finalizer participates in
		// the same per-schedule serialization as reservation creation.
		sched, err := s.schedules.GetByIDForUpdateTx(ctx, tx, res.ScheduleID)
		if err != nil {
			return err
		}
		tour, err := s.tours.GetByIDTx(ctx, tx, sched.TourID)
		if err != nil {
			return err
		}
		if err := s.reservations.MarkConfirmedTx(ctx, tx, res.ID, method, now); err != nil {
			return err
		}
		res.Status = model.ReservationConfirmed
		res.PaymentMethod = &method
		res.PaidAt = &now

		tickets := make([]model.Ticket, 0, res.Adults+res.Children)
		for i := uint32(0); i < res.Adults; i++ {
			tickets = append(tickets, model.Ticket{
				ReservationID: res.ID,
				Serial:        uuid.NewString(),
				Tier:          model.TicketTierAdult,
				PriceCents:    tour.AdultPriceCents,
				IssuedAt:      now,
			})
		}
		for i := uint32(0); i < res.Children; i++ {
			tickets = append(tickets, model.Ticket{
				ReservationID: res.ID,
				Serial:        uuid.NewString(),
				Tier:          model.TicketTierChild,
				PriceCents:    tour.ChildPriceCents,
				IssuedAt:      now,
			})
		}
		if err := s.checkout.CreateTicketsTx(ctx, tx, tickets); err != nil {
			return err
		}
		inv := &model.Invoice{
			ReservationID: res.ID,
			Number:        uuid.NewString(),
			TotalCents:    res.TotalCents,
			IssuedAt:      now,
		}
		if err := s.checkout.CreateInvoiceTx(ctx, tx, inv); err != nil {
			return err
		}
		pay := &model.Payment{
			ReservationID: res.ID,
			Method:        method,
			AmountCents:   res.TotalCents,
			PaidAt:        now,
		}
		if err := s.checkout.CreatePaymentTx(ctx, tx, pay); err != nil {
			return err
		}
		out = CheckoutResult{Reservation: res, Invoice: inv, Tickets: tickets, Payment: pay}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.BookingConfirmed(ctx, out.Reservation, out.Invoice.Number)
	}
	return &out, nil
}
