package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/tour-reservation/internal/model"
)

func TestSeatClaimCountsAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("confirmed always counts", func(t *testing.T) {
		c := SeatClaim{Status: model.ReservationConfirmed, Seats: 2}
		assert.True(t, c.CountsAt(now))
		assert.True(t, c.CountsAt(now.Add(24*time.Hour)))
	})

	t.Run("pending counts until expiry", func(t *testing.T) {
		c := SeatClaim{Status: model.ReservationPending, Seats: 2, ExpiresAt: now.Add(10 * time.Minute)}
		assert.True(t, c.CountsAt(now))
		assert.True(t, c.CountsAt(now.Add(599*time.Second)))
		assert.False(t, c.CountsAt(now.Add(600*time.Second)), "expiry instant itself no longer counts")
		assert.False(t, c.CountsAt(now.Add(601*time.Second)))
	})

	t.Run("cancelled never counts", func(t *testing.T) {
		c := SeatClaim{Status: model.ReservationCancelled, Seats: 2, ExpiresAt: now.Add(time.Hour)}
		assert.False(t, c.CountsAt(now))
	})
}

func TestAvailableSeats(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	claims := []SeatClaim{
		{Status: model.ReservationConfirmed, Seats: 3},
		{Status: model.ReservationPending, Seats: 2, ExpiresAt: now.Add(5 * time.Minute)},
		{Status: model.ReservationPending, Seats: 4, ExpiresAt: now.Add(-time.Second)}, // expired
		{Status: model.ReservationCancelled, Seats: 5},
	}
	assert.Equal(t, int32(5), AvailableSeats(10, claims, now))

	// after the live hold lapses only the confirmed claim remains
	assert.Equal(t, int32(7), AvailableSeats(10, claims, now.Add(6*time.Minute)))
}

func TestAvailableSeatsCanGoNegative(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	claims := []SeatClaim{
		{Status: model.ReservationConfirmed, Seats: 8},
		{Status: model.ReservationConfirmed, Seats: 5},
	}
	assert.Equal(t, int32(-3), AvailableSeats(10, claims, now))
}

func TestAvailableSeatsEmpty(t *testing.T) {
	now := time.Now().UTC()
	assert.Equal(t, int32(10), AvailableSeats(10, nil, now))
}
