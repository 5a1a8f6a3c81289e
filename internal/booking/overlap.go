package booking

import "time"

// IntervalsOverlap reports whether the date intervals [aStart, aEnd] and
// [bStart, bEnd] collide.  Bounds are inclusive on both ends: a departure
// ending on the same day another begins is a collision.  The test is the
// single shared predicate for every guide-conflict call site — both the
// any-tour check used on assignment and the same-tour check used when
// listing candidate guides go through here so the bound semantics cannot
// drift apart.
//
// Three cases are checked: aStart falls inside [bStart, bEnd]; aEnd falls
// inside [bStart, bEnd]; [aStart, aEnd] fully contains [bStart, bEnd].
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	if withinInclusive(aStart, bStart, bEnd) {
		return true
	}
	if withinInclusive(aEnd, bStart, bEnd) {
		return true
	}
	// [a] swallows [b] whole.
	return !aStart.After(bStart) && !aEnd.Before(bEnd)
}

// withinInclusive reports whether t lies in [start, end] with both bounds
// inclusive.
func withinInclusive(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
