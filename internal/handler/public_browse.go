package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/model"
	"github.com/iliyamo/tour-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints.  These are
// display reads: availability is computed lock-free from the seat
// ledger and may be momentarily stale, which the booking transaction
// corrects at reservation time.
type PublicHandler struct {
	Tours     *repository.TourRepo
	Schedules *repository.ScheduleRepo
	Svc       *booking.Service
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(tours *repository.TourRepo, schedules *repository.ScheduleRepo, svc *booking.Service) *PublicHandler {
	if tours == nil || schedules == nil || svc == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Tours: tours, Schedules: schedules, Svc: svc}
}

// ListTours handles GET /v1/tours and returns all active tours with
// their tier prices.
func (h *PublicHandler) ListTours(c echo.Context) error {
	tours, err := h.Tours.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(tours))
	for _, t := range tours {
		out = append(out, tourJSON(&t))
	}
	return c.JSON(http.StatusOK, echo.Map{"tours": out})
}

// ListTourSchedules handles GET /v1/tours/:id/schedules.  Every
// departure of the tour is returned with its derived status and the
// seats still available.
func (h *PublicHandler) ListTourSchedules(c echo.Context) error {
	tourID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Tours.GetByID(ctx, tourID); err != nil {
		return writeBookingError(c, err)
	}
	schedules, err := h.Schedules.ListByTour(ctx, tourID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(schedules))
	for _, s := range schedules {
		sched, available, status, err := h.Svc.ScheduleAvailability(ctx, s.ID)
		if err != nil {
			return writeBookingError(c, err)
		}
		out = append(out, scheduleJSON(sched, available, status))
	}
	return c.JSON(http.StatusOK, echo.Map{"tour_id": tourID, "schedules": out})
}

// GetSchedule handles GET /v1/schedules/:id and returns one departure
// with its availability and status.
func (h *PublicHandler) GetSchedule(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	sched, available, status, err := h.Svc.ScheduleAvailability(c.Request().Context(), id)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, scheduleJSON(sched, available, status))
}

func tourJSON(t *model.Tour) echo.Map {
	m := echo.Map{
		"id":                t.ID,
		"name":              t.Name,
		"adult_price_cents": t.AdultPriceCents,
		"child_price_cents": t.ChildPriceCents,
	}
	if t.Description != nil {
		m["description"] = *t.Description
	}
	return m
}

func scheduleJSON(s *model.Schedule, available int32, status booking.ScheduleStatus) echo.Map {
	m := echo.Map{
		"id":              s.ID,
		"tour_id":         s.TourID,
		"starts_on":       s.StartsOn.Format("2006-01-02"),
		"ends_on":         s.EndsOn.Format("2006-01-02"),
		"total_seats":     s.TotalSeats,
		"available_seats": available,
		"status":          string(status),
	}
	if s.GuideID != nil {
		m["guide_id"] = *s.GuideID
	}
	return m
}
