package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/booking"
)

// PaymentHandler exposes checkout over a held reservation.
type PaymentHandler struct {
	Svc *booking.Service
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc *booking.Service) *PaymentHandler {
	if svc == nil {
		panic("nil service passed to NewPaymentHandler")
	}
	return &PaymentHandler{Svc: svc}
}

type confirmRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// Confirm handles POST /v1/reservations/:id/confirm.  It finalizes a
// pending reservation: the status flips to CONFIRMED and the tickets,
// invoice and payment record are written in one transaction.  Repeating
// the call fails with 400 because the reservation is no longer pending.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body confirmRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	out, err := h.Svc.ConfirmPayment(c.Request().Context(), id, userID, body.PaymentMethod)
	if err != nil {
		return writeBookingError(c, err)
	}

	tickets := make([]echo.Map, 0, len(out.Tickets))
	for _, t := range out.Tickets {
		tickets = append(tickets, echo.Map{
			"serial":      t.Serial,
			"tier":        t.Tier,
			"price_cents": t.PriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": out.Reservation.ID,
		"status":         out.Reservation.Status,
		"invoice": echo.Map{
			"number":      out.Invoice.Number,
			"total_cents": out.Invoice.TotalCents,
			"issued_at":   out.Invoice.IssuedAt,
		},
		"payment": echo.Map{
			"method":       out.Payment.Method,
			"amount_cents": out.Payment.AmountCents,
			"paid_at":      out.Payment.PaidAt,
		},
		"tickets": tickets,
	})
}
