package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/repository"
)

// ReservationHandler exposes the customer-facing reservation endpoints.
// Writes go through the booking service so every seat decision happens
// under the schedule row lock; reads go straight to the repository.
// JWT authentication and role checks are applied by middleware before
// any of these methods run.
type ReservationHandler struct {
	Svc          *booking.Service
	Reservations *repository.ReservationRepo
}

// NewReservationHandler constructs a ReservationHandler.  Both
// dependencies must be non-nil.
func NewReservationHandler(svc *booking.Service, reservations *repository.ReservationRepo) *ReservationHandler {
	if svc == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc, Reservations: reservations}
}

// createReservationRequest is the body of POST /v1/reservations.
type createReservationRequest struct {
	CustomerID      uint64   `json:"customer_id" validate:"required"`
	ScheduleID      uint64   `json:"schedule_id" validate:"required"`
	Adults          uint32   `json:"adults" validate:"required,min=1"`
	Children        uint32   `json:"children"`
	PromoCode       string   `json:"promo_code"`
	AddonServiceIDs []uint64 `json:"addon_service_ids"`
}

// Create handles POST /v1/reservations.  On success it returns 201 with
// the hold's id, price, expiry and the seats left on the schedule.
// Capacity, duplicate-hold and status violations come back as 400 with
// detail in the body.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	res, err := h.Svc.CreateReservation(c.Request().Context(), booking.CreateReservationInput{
		UserID:     userID,
		CustomerID: body.CustomerID,
		ScheduleID: body.ScheduleID,
		Adults:     body.Adults,
		Children:   body.Children,
		PromoCode:  body.PromoCode,
		AddonIDs:   body.AddonServiceIDs,
	})
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id":     res.Reservation.ID,
		"status":             res.Reservation.Status,
		"total_cents":        res.Reservation.TotalCents,
		"expires_at":         res.Reservation.ExpiresAt,
		"expires_in_seconds": int(booking.HoldDuration / time.Second),
		"remaining_seats":    res.Remaining,
	})
}

// Cancel handles DELETE /v1/reservations/:id.  Only the owner may
// cancel, and only while the reservation is still pending.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Svc.CancelReservation(c.Request().Context(), id, userID); err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": id, "status": "CANCELLED"})
}

// List handles GET /v1/my-reservations and returns the caller's
// reservations newest first, each with its tour, dates and add-ons.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}

// Get handles GET /v1/reservations/:id.  A reservation owned by another
// user is reported as not found rather than forbidden.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.Reservations.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
