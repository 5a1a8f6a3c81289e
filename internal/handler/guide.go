package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/booking"
)

// GuideHandler exposes the admin endpoints for guide scheduling.  The
// conflict checks run inside the booking service under the guide row
// lock, so two admins assigning the same guide at once cannot both
// succeed on overlapping dates.
type GuideHandler struct {
	Svc *booking.Service
}

// NewGuideHandler constructs a GuideHandler.
func NewGuideHandler(svc *booking.Service) *GuideHandler {
	if svc == nil {
		panic("nil service passed to NewGuideHandler")
	}
	return &GuideHandler{Svc: svc}
}

type assignGuideRequest struct {
	GuideID *uint64 `json:"guide_id"` // null clears the assignment
}

// Assign handles PUT /v1/schedules/:id/guide.  A JSON null guide_id
// unassigns unconditionally; a numeric guide_id assigns after the
// overlap check against the guide's other schedules.
func (h *GuideHandler) Assign(c echo.Context) error {
	scheduleID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body assignGuideRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.GuideID != nil && *body.GuideID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
	}

	if err := h.Svc.AssignGuide(c.Request().Context(), scheduleID, body.GuideID); err != nil {
		return writeBookingError(c, err)
	}
	if body.GuideID == nil {
		return c.JSON(http.StatusOK, echo.Map{"schedule_id": scheduleID, "guide_id": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedule_id": scheduleID, "guide_id": *body.GuideID})
}

// Available handles GET /v1/guides/available.  Required query
// parameters date_from and date_to (YYYY-MM-DD, inclusive) define the
// window; optional exclude_schedule_id ignores one schedule's own
// assignment (for reassignment flows) and optional tour_id relaxes the
// check to same-tour conflicts only.
func (h *GuideHandler) Available(c echo.Context) error {
	dateFrom, err := parseDate(c.QueryParam("date_from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be YYYY-MM-DD"})
	}
	dateTo, err := parseDate(c.QueryParam("date_to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_to must be YYYY-MM-DD"})
	}
	excludeID, err := optionalID(c.QueryParam("exclude_schedule_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude_schedule_id"})
	}
	tourID, err := optionalID(c.QueryParam("tour_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour_id"})
	}

	guides, err := h.Svc.AvailableGuides(c.Request().Context(), dateFrom, dateTo, excludeID, tourID)
	if err != nil {
		return writeBookingError(c, err)
	}
	out := make([]echo.Map, 0, len(guides))
	for _, g := range guides {
		out = append(out, echo.Map{"id": g.ID, "name": g.Name, "email": g.Email})
	}
	return c.JSON(http.StatusOK, echo.Map{"guides": out})
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

func optionalID(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
