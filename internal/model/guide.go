package model

import "time"

// Guide activity states.  Only ACTIVE guides may be assigned to a
// schedule.
const (
	GuideActive     = "ACTIVE"
	GuideOnLeave    = "ON_LEAVE"
	GuideTerminated = "TERMINATED"
)

// Guide is a staff resource that leads tour departures.  Guides are
// created and edited by the surrounding admin CRUD; the booking engine
// only reads them and mutates their schedule assignments.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – full display name.
//  Email     – contact address used for assignment notifications.
//  Status    – ACTIVE, ON_LEAVE or TERMINATED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Guide struct {
	ID        uint64    // guides.id
	Name      string    // guides.name
	Email     string    // guides.email
	Status    string    // guides.status
	CreatedAt time.Time // guides.created_at
	UpdatedAt time.Time // guides.updated_at
}

// GuideAssignment is the date interval a guide is committed to through
// an assigned schedule.  Bounds are inclusive on both ends.
type GuideAssignment struct {
	ScheduleID uint64    // schedules.id
	TourID     uint64    // schedules.tour_id
	StartsOn   time.Time // schedules.starts_on
	EndsOn     time.Time // schedules.ends_on
}
