package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// seedTrip installs a tour and one upcoming ten-seat departure and
// returns the schedule id.  The clock handed to newTestService should
// be well before the departure dates.
func seedTrip(m *memStore) uint64 {
	m.tours[1] = &model.Tour{ID: 1, Name: "Coastal Loop", AdultPriceCents: 10000, ChildPriceCents: 5000, IsActive: true}
	sched := &model.Schedule{ID: m.id(), TourID: 1, StartsOn: day("2024-06-20"), EndsOn: day("2024-06-24"), TotalSeats: 10}
	m.schedules[sched.ID] = sched
	return sched.ID
}

var bookingClock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestCreateReservationSuccess(t *testing.T) {
	svc, m, events, _ := newTestService(bookingClock)
	schedID := seedTrip(m)

	out, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 2, Children: 1,
	})
	require.NoError(t, err)

	res := out.Reservation
	assert.NotZero(t, res.ID)
	assert.Equal(t, model.ReservationPending, res.Status)
	assert.Equal(t, uint32(25000), res.TotalCents)
	assert.Equal(t, bookingClock.Add(10*time.Minute), res.ExpiresAt)
	assert.Equal(t, int32(7), out.Remaining)
	assert.Equal(t, []uint64{res.ID}, events.created)
}

func TestCreateReservationValidation(t *testing.T) {
	svc, m, _, _ := newTestService(bookingClock)
	schedID := seedTrip(m)

	cases := []struct {
		name string
		in   CreateReservationInput
	}{
		{"missing user", CreateReservationInput{CustomerID: 70, ScheduleID: schedID, Adults: 1}},
		{"missing customer", CreateReservationInput{UserID: 7, ScheduleID: schedID, Adults: 1}},
		{"missing schedule", CreateReservationInput{UserID: 7, CustomerID: 70, Adults: 1}},
		{"zero adults", CreateReservationInput{UserID: 7, CustomerID: 70, ScheduleID: schedID, Children: 2}},
		{"zero addon id", CreateReservationInput{UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 1, AddonIDs: []uint64{0}}},
		{"duplicate addon id", CreateReservationInput{UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 1, AddonIDs: []uint64{4, 4}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReservation(context.Background(), tc.in)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
	assert.Empty(t, m.reservations, "rejected requests must write nothing")
}

func TestCreateReservationScheduleNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(bookingClock)
	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: 999, Adults: 1,
	})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestCreateReservationDuplicateHold(t *testing.T) {
	svc, m, _, _ := newTestService(bookingClock)
	schedID := seedTrip(m)

	first, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 1,
	})
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 2,
	})
	var dup *DuplicateHoldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.Reservation.ID, dup.ReservationID)
	assert.Equal(t, first.Reservation.ExpiresAt, dup.ExpiresAt)

	// a different user on the same schedule is unaffected
	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 8, CustomerID: 80, ScheduleID: schedID, Adults: 1,
	})
	assert.NoError(t, err)
}

func TestCreateReservationAfterHoldExpires(t *testing.T) {
	svc, m, _, tick := newTestService(bookingClock)
	schedID := seedTrip(m)

	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 3,
	})
	require.NoError(t, err)

	// one second past expiry the first hold neither blocks the user
	// nor consumes seats, while its stored status stays PENDING
	tick(bookingClock.Add(601 * time.Second))
	out, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(7), out.Remaining)

	for _, r := range m.reservations {
		assert.Equal(t, model.ReservationPending, r.Status)
	}
}

func TestCreateReservationCapacity(t *testing.T) {
	svc, m, _, _ := newTestService(bookingClock)
	schedID := seedTrip(m)

	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 4, Children: 2,
	})
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 8, CustomerID: 80, ScheduleID: schedID, Adults: 4, Children: 2,
	})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, uint32(6), capErr.Requested)
	assert.Equal(t, int32(4), capErr.Available)

	// a request that fits the remainder still goes through
	out, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 8, CustomerID: 80, ScheduleID: schedID, Adults: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(0), out.Remaining)
}

func TestCreateReservationStatusGate(t *testing.T) {
	run := func(startsOn, endsOn string, fill uint32) error {
		svc, m, _, _ := newTestService(bookingClock)
		m.tours[1] = &model.Tour{ID: 1, Name: "Coastal Loop", AdultPriceCents: 10000, ChildPriceCents: 5000, IsActive: true}
		sched := &model.Schedule{ID: m.id(), TourID: 1, StartsOn: day(startsOn), EndsOn: day(endsOn), TotalSeats: 10}
		m.schedules[sched.ID] = sched
		if fill > 0 {
			m.reservations[m.id()] = &model.Reservation{
				ID: m.nextID - 1, UserID: 99, CustomerID: 990, ScheduleID: sched.ID,
				Adults: fill, Status: model.ReservationConfirmed,
			}
		}
		_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
			UserID: 7, CustomerID: 70, ScheduleID: sched.ID, Adults: 1,
		})
		return err
	}

	var stErr *StateError
	assert.ErrorAs(t, run("2024-05-01", "2024-05-05", 0), &stErr, "completed departure")
	assert.ErrorAs(t, run("2024-06-01", "2024-06-03", 0), &stErr, "ongoing departure")
	assert.ErrorAs(t, run("2024-06-20", "2024-06-24", 10), &stErr, "sold out departure")
	assert.NoError(t, run("2024-06-20", "2024-06-24", 0))
}

func TestCreateReservationPromoAndAddons(t *testing.T) {
	svc, m, _, _ := newTestService(bookingClock)
	schedID := seedTrip(m)
	m.promos["SUMMER"] = &model.Promotion{
		ID: 1, Code: "SUMMER", Percent: 10,
		ValidFrom: day("2024-06-01"), ValidUntil: day("2024-06-30"), IsActive: true,
	}
	m.addons[201] = &model.AddonService{ID: 201, Name: "Airport pickup", PriceCents: 1500, IsActive: true}
	m.addons[202] = &model.AddonService{ID: 202, Name: "Travel insurance", PriceCents: 2000, IsActive: true}
	m.addons[203] = &model.AddonService{ID: 203, Name: "Retired extra", PriceCents: 900, IsActive: false}

	out, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 2, Children: 1,
		PromoCode: "SUMMER", AddonIDs: []uint64{201, 202},
	})
	require.NoError(t, err)
	// (25000 - 10%) + 1500 + 2000
	assert.Equal(t, uint32(26000), out.Reservation.TotalCents)
	require.NotNil(t, out.Reservation.PromoCode)
	assert.Equal(t, "SUMMER", *out.Reservation.PromoCode)
	assert.Len(t, m.addonLinks, 2)

	// unknown code is silently not applied
	out2, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 8, CustomerID: 80, ScheduleID: schedID, Adults: 1, PromoCode: "NOPE",
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(10000), out2.Reservation.TotalCents)

	// an inactive add-on is a hard rejection
	_, err = svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 9, CustomerID: 90, ScheduleID: schedID, Adults: 1, AddonIDs: []uint64{203},
	})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCreateReservationConcurrentNeverOversells(t *testing.T) {
	svc, m, _, _ := newTestService(bookingClock)
	schedID := seedTrip(m)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateReservation(context.Background(), CreateReservationInput{
				UserID: uint64(100 + i), CustomerID: uint64(1000 + i), ScheduleID: schedID,
				Adults: 4, Children: 2,
			})
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			var capErr *CapacityError
			assert.ErrorAs(t, err, &capErr)
		}
	}
	assert.Equal(t, 1, okCount, "exactly one of two 6-seat requests on a 10-seat departure may win")

	claimed := uint32(0)
	for _, r := range m.reservations {
		claimed += r.Seats()
	}
	assert.LessOrEqual(t, claimed, uint32(10))
}

func TestCancelReservation(t *testing.T) {
	svc, m, _, _ := newTestService(bookingClock)
	schedID := seedTrip(m)

	out, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 6,
	})
	require.NoError(t, err)
	resID := out.Reservation.ID

	t.Run("only the owner may cancel", func(t *testing.T) {
		assert.ErrorIs(t, svc.CancelReservation(context.Background(), resID, 8), ErrForbidden)
	})

	t.Run("cancel releases the seats immediately", func(t *testing.T) {
		require.NoError(t, svc.CancelReservation(context.Background(), resID, 7))
		assert.Equal(t, model.ReservationCancelled, m.reservations[resID].Status)

		_, available, _, err := svc.ScheduleAvailability(context.Background(), schedID)
		require.NoError(t, err)
		assert.Equal(t, int32(10), available)
	})

	t.Run("cancel is pending-only", func(t *testing.T) {
		var stErr *StateError
		assert.ErrorAs(t, svc.CancelReservation(context.Background(), resID, 7), &stErr)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		assert.ErrorIs(t, svc.CancelReservation(context.Background(), 9999, 7), ErrReservationNotFound)
	})
}

func TestScheduleAvailability(t *testing.T) {
	svc, m, _, tick := newTestService(bookingClock)
	schedID := seedTrip(m)

	_, err := svc.CreateReservation(context.Background(), CreateReservationInput{
		UserID: 7, CustomerID: 70, ScheduleID: schedID, Adults: 3, Children: 1,
	})
	require.NoError(t, err)

	sched, available, status, err := svc.ScheduleAvailability(context.Background(), schedID)
	require.NoError(t, err)
	assert.Equal(t, schedID, sched.ID)
	assert.Equal(t, int32(6), available)
	assert.Equal(t, StatusUpcomingAvailable, status)

	// the pending hold stops counting once its window passes
	tick(bookingClock.Add(11 * time.Minute))
	_, available, _, err = svc.ScheduleAvailability(context.Background(), schedID)
	require.NoError(t, err)
	assert.Equal(t, int32(10), available)

	// during the departure the derived status is ONGOING
	tick(day("2024-06-21").Add(9 * time.Hour))
	_, _, status, err = svc.ScheduleAvailability(context.Background(), schedID)
	require.NoError(t, err)
	assert.Equal(t, StatusOngoing, status)
}
