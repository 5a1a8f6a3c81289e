// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  One durable queue per event kind.
const (
	ReservationCreatedQueue = "reservation.created"
	GuideAssignedQueue      = "guide.assigned"
	BookingConfirmedQueue   = "booking.confirmed"
)

// ReservationCreatedEvent is published when a hold is successfully
// placed.  The operations channel uses it to watch inventory drain in
// near real time without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID  uint64 `json:"reservation_id"`
	UserID         uint64 `json:"user_id"`
	ScheduleID     uint64 `json:"schedule_id"`
	Adults         uint32 `json:"adults"`
	Children       uint32 `json:"children"`
	TotalCents     uint32 `json:"total_cents"`
	RemainingSeats int32  `json:"remaining_seats"`
	ExpiresAt      string `json:"expires_at"`
	CreatedAt      string `json:"created_at"`
}

// GuideAssignedEvent is published when a guide is assigned to a
// schedule so the guide can be notified of the new commitment.
type GuideAssignedEvent struct {
	GuideID    uint64 `json:"guide_id"`
	GuideName  string `json:"guide_name"`
	GuideEmail string `json:"guide_email"`
	ScheduleID uint64 `json:"schedule_id"`
	TourID     uint64 `json:"tour_id"`
	StartsOn   string `json:"starts_on"`
	EndsOn     string `json:"ends_on"`
	AssignedAt string `json:"assigned_at"`
}

// BookingConfirmedEvent is published when a reservation is finalized
// into a paid, ticketed booking.
type BookingConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	ScheduleID    uint64 `json:"schedule_id"`
	InvoiceNumber string `json:"invoice_number"`
	Seats         uint32 `json:"seats"`
	TotalCents    uint32 `json:"total_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}
