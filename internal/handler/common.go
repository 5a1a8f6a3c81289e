package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT claims arrive as float64 through encoding/json, so every
// plausible numeric representation is accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the numeric :id style path parameter named by key.
func pathID(c echo.Context, key string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	return n, err == nil && n > 0
}

// writeBookingError translates booking engine errors into HTTP
// responses.  Rule violations carry their detail in the body so the
// client can render them; anything unrecognised is a 500.
func writeBookingError(c echo.Context, err error) error {
	var (
		vErr  *booking.ValidationError
		cErr  *booking.CapacityError
		dErr  *booking.DuplicateHoldError
		gErr  *booking.GuideConflictError
		stErr *booking.StateError
		iErr  *booking.InfrastructureError
	)
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Msg})
	case errors.As(err, &cErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "not enough seats available",
			"requested": cErr.Requested,
			"available": cErr.Available,
		})
	case errors.As(err, &dErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":          "you already have a pending reservation for this schedule",
			"reservation_id": dErr.ReservationID,
			"expires_at":     dErr.ExpiresAt,
		})
	case errors.As(err, &gErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":                   "guide is already assigned to an overlapping schedule",
			"conflicting_schedule_id": gErr.ScheduleID,
			"starts_on":               gErr.StartsOn.Format("2006-01-02"),
			"ends_on":                 gErr.EndsOn.Format("2006-01-02"),
		})
	case errors.As(err, &stErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": stErr.Msg})
	case errors.Is(err, booking.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case errors.Is(err, booking.ErrGuideNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "guide not found"})
	case errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.As(err, &iErr):
		c.Logger().Errorf("storage error: %v", iErr)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service temporarily unavailable"})
	default:
		c.Logger().Errorf("booking error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
