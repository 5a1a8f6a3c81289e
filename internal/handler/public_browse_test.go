package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tour-reservation/internal/booking"
	"github.com/iliyamo/tour-reservation/internal/model"
	"github.com/iliyamo/tour-reservation/internal/repository"
)

func newPublicHandler(f *handlerFixture) *PublicHandler {
	return NewPublicHandler(repository.NewTourRepo(nil), repository.NewScheduleRepo(nil), f.svc)
}

func TestGetScheduleEndpoint(t *testing.T) {
	f := newHandlerFixture()
	f.reservations.claims = []booking.SeatClaim{{Status: model.ReservationConfirmed, Seats: 4}}
	h := newPublicHandler(f)

	c, rec := newTestContext(t, http.MethodGet, "/v1/schedules/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.GetSchedule(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, float64(5), got["id"])
	assert.Equal(t, "2999-06-20", got["starts_on"])
	assert.Equal(t, "2999-06-24", got["ends_on"])
	assert.Equal(t, float64(10), got["total_seats"])
	assert.Equal(t, float64(6), got["available_seats"])
	assert.Equal(t, "UPCOMING_AVAILABLE", got["status"])
}

func TestGetScheduleEndpointNotFound(t *testing.T) {
	f := newHandlerFixture()
	h := newPublicHandler(f)

	c, rec := newTestContext(t, http.MethodGet, "/v1/schedules/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.GetSchedule(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
