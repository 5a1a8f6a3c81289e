package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// AssignGuide assigns a guide to a schedule, or unassigns when guideID
// is nil.  The check-then-assign sequence runs inside one transaction
// holding both the schedule's and the guide's row locks, so two admins
// assigning the same guide to overlapping schedules at the same moment
// are serialized and exactly one of them sees the conflict.
//
// Unassignment is unconditional.  Assignment requires the guide to be
// ACTIVE and its existing assignment intervals (excluding the target
// schedule itself, so edits do not collide with themselves) to be free
// of overlap with the schedule's date range.  On conflict a
// GuideConflictError carrying the colliding schedule's id and dates is
// returned and nothing is written.
func (s *Service) AssignGuide(ctx context.Context, scheduleID uint64, guideID *uint64) error {
	var (
		assignedGuide *model.Guide
		assignedSched *model.Schedule
	)
	err := s.txm.InTx(ctx, func(tx *sql.Tx) error {
		sched, err := s.schedules.GetByIDForUpdateTx(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if guideID == nil {
			return s.schedules.SetGuideTx(ctx, tx, scheduleID, nil)
		}
		guide, err := s.guides.GetByIDForUpdateTx(ctx, tx, *guideID)
		if err != nil {
			return err
		}
		if guide.Status != model.GuideActive {
			return &StateError{Msg: "guide is not active (status " + guide.Status + ")"}
		}
		existing, err := s.guides.AssignmentsTx(ctx, tx, guide.ID, scheduleID)
		if err != nil {
			return err
		}
		for _, a := range existing {
			if IntervalsOverlap(sched.StartsOn, sched.EndsOn, a.StartsOn, a.EndsOn) {
				return &GuideConflictError{
					GuideID:    guide.ID,
					ScheduleID: a.ScheduleID,
					StartsOn:   a.StartsOn,
					EndsOn:     a.EndsOn,
				}
			}
		}
		if err := s.schedules.SetGuideTx(ctx, tx, scheduleID, guideID); err != nil {
			return err
		}
		assignedGuide, assignedSched = guide, sched
		return nil
	})
	if err != nil {
		return err
	}
	if assignedGuide != nil && s.events != nil {
		s.events.GuideAssigned(ctx, assignedGuide, assignedSched)
	}
	return nil
}

// GuideIsAvailable checks a guide's calendar against [dateFrom, dateTo]
// (inclusive).  excludeScheduleID ignores the schedule being edited;
// tourID, when non-zero, narrows the check to assignments of that tour
// only — a guide may run two different tours on non-overlapping days,
// but never the same tour twice in an overlapping window.
func (s *Service) GuideIsAvailable(ctx context.Context, guideID uint64, dateFrom, dateTo time.Time, excludeScheduleID, tourID uint64) (bool, error) {
	existing, err := s.guides.Assignments(ctx, guideID, excludeScheduleID)
	if err != nil {
		return false, err
	}
	return guideFree(existing, dateFrom, dateTo, tourID), nil
}

// AvailableGuides returns every ACTIVE guide whose calendar is free for
// [dateFrom, dateTo], ordered by name.  The tourID semantics match
// GuideIsAvailable.
func (s *Service) AvailableGuides(ctx context.Context, dateFrom, dateTo time.Time, excludeScheduleID, tourID uint64) ([]model.Guide, error) {
	if dateTo.Before(dateFrom) {
		return nil, &ValidationError{Msg: "date_to must not precede date_from"}
	}
	active, err := s.guides.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Guide, 0, len(active))
	for _, g := range active {
		existing, err := s.guides.Assignments(ctx, g.ID, excludeScheduleID)
		if err != nil {
			return nil, err
		}
		if guideFree(existing, dateFrom, dateTo, tourID) {
			out = append(out, g)
		}
	}
	return out, nil
}

// guideFree applies the shared overlap predicate across a guide's
// assignments, optionally scoped to one tour.
func guideFree(existing []model.GuideAssignment, dateFrom, dateTo time.Time, tourID uint64) bool {
	for _, a := range existing {
		if tourID != 0 && a.TourID != tourID {
			continue
		}
		if IntervalsOverlap(dateFrom, dateTo, a.StartsOn, a.EndsOn) {
			return false
		}
	}
	return true
}
