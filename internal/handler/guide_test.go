package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tour-reservation/internal/model"
)

func TestAssignGuideEndpoint(t *testing.T) {
	f := newHandlerFixture()
	f.guides.guide = &model.Guide{ID: 3, Name: "Ana", Status: model.GuideActive}
	h := NewGuideHandler(f.svc)

	c, rec := newTestContext(t, http.MethodPut, "/v1/schedules/5/guide", `{"guide_id":3}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Assign(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, float64(3), got["guide_id"])
	require.NotNil(t, f.schedules.sched.GuideID)
	assert.Equal(t, uint64(3), *f.schedules.sched.GuideID)
}

func TestAssignGuideEndpointConflict(t *testing.T) {
	f := newHandlerFixture()
	f.guides.guide = &model.Guide{ID: 3, Name: "Ana", Status: model.GuideActive}
	f.guides.assignments = []model.GuideAssignment{{
		ScheduleID: 9, TourID: 2,
		StartsOn: time.Date(2999, 6, 22, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(2999, 6, 28, 0, 0, 0, 0, time.UTC),
	}}
	h := NewGuideHandler(f.svc)

	c, rec := newTestContext(t, http.MethodPut, "/v1/schedules/5/guide", `{"guide_id":3}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Assign(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, float64(9), got["conflicting_schedule_id"])
	assert.Equal(t, "2999-06-22", got["starts_on"])
	assert.Equal(t, "2999-06-28", got["ends_on"])
	assert.Nil(t, f.schedules.sched.GuideID)
}

func TestAssignGuideEndpointUnassign(t *testing.T) {
	f := newHandlerFixture()
	g := uint64(3)
	f.schedules.sched.GuideID = &g
	h := NewGuideHandler(f.svc)

	c, rec := newTestContext(t, http.MethodPut, "/v1/schedules/5/guide", `{"guide_id":null}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Assign(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.schedules.sched.GuideID)
}

func TestAvailableGuidesEndpoint(t *testing.T) {
	f := newHandlerFixture()
	f.guides.guide = &model.Guide{ID: 3, Name: "Ana", Email: "ana@example.com", Status: model.GuideActive}
	h := NewGuideHandler(f.svc)

	t.Run("free window lists the guide", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet,
			"/v1/guides/available?date_from=2999-07-01&date_to=2999-07-05", "")
		require.NoError(t, h.Available(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody(t, rec)
		assert.Len(t, got["guides"], 1)
	})

	t.Run("missing dates are rejected", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet, "/v1/guides/available", "")
		require.NoError(t, h.Available(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodGet,
			"/v1/guides/available?date_from=2999-07-05&date_to=2999-07-01", "")
		require.NoError(t, h.Available(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
