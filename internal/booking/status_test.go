package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatus(t *testing.T) {
	startsOn := day("2024-06-10")
	endsOn := day("2024-06-14")

	cases := []struct {
		name      string
		today     string
		available int32
		want      ScheduleStatus
	}{
		{"day after end", "2024-06-15", 5, StatusCompleted},
		{"long after end", "2024-07-01", 0, StatusCompleted},
		{"first day", "2024-06-10", 5, StatusOngoing},
		{"last day", "2024-06-14", 5, StatusOngoing},
		{"mid trip sold out", "2024-06-12", 0, StatusOngoing},
		{"future with seats", "2024-06-01", 1, StatusUpcomingAvailable},
		{"future sold out", "2024-06-01", 0, StatusUpcomingFull},
		{"future oversold", "2024-06-01", -2, StatusUpcomingFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveStatus(day(tc.today), startsOn, endsOn, tc.available)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveStatusIgnoresTimeOfDay(t *testing.T) {
	// 23:59 on the day before departure is still upcoming
	today := time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC)
	got := ResolveStatus(today, day("2024-06-10"), day("2024-06-14"), 3)
	assert.Equal(t, StatusUpcomingAvailable, got)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 6, 10, 18, 30, 45, 123, time.FixedZone("X", 3*3600))
	got := DateOnly(in)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), got)
}
