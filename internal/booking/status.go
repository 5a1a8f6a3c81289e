package booking

import "time"

// ScheduleStatus is the derived display state of a departure.  It is
// never stored; it is recomputed from today's date, the schedule's date
// range and the seat ledger every time it is needed.
type ScheduleStatus string

const (
	StatusUpcomingAvailable ScheduleStatus = "UPCOMING_AVAILABLE" // future departure with seats left
	StatusUpcomingFull      ScheduleStatus = "UPCOMING_FULL"      // future departure, sold out
	StatusOngoing           ScheduleStatus = "ONGOING"            // departure in progress today
	StatusCompleted         ScheduleStatus = "COMPLETED"          // departure finished
)

// ResolveStatus derives the schedule status from today's date, the
// inclusive [startsOn, endsOn] range and the current available seat
// count.  Comparison is at day granularity in UTC.
//
// An ongoing departure is reported as ONGOING regardless of how many
// seats remain — it is never "available" or "full", only in progress.
// New reservations are accepted against UPCOMING_AVAILABLE only.
func ResolveStatus(today, startsOn, endsOn time.Time, availableSeats int32) ScheduleStatus {
	d := DateOnly(today)
	start := DateOnly(startsOn)
	end := DateOnly(endsOn)
	switch {
	case d.After(end):
		return StatusCompleted
	case !d.Before(start): // start <= today <= end
		return StatusOngoing
	case availableSeats > 0:
		return StatusUpcomingAvailable
	default:
		return StatusUpcomingFull
	}
}

// DateOnly truncates t to midnight UTC so that schedule date comparisons
// ignore the time-of-day component.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
