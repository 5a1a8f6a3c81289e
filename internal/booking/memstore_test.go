package booking

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/tour-reservation/internal/model"
)

// memStore is an in-memory implementation of every store interface plus
// TxManager, used to exercise the service without a database.  InTx
// holds a mutex for the duration of the callback, which stands in for
// the schedule row lock: concurrent writers are serialized exactly like
// they would be by SELECT ... FOR UPDATE.
type memStore struct {
	mu sync.Mutex

	schedules    map[uint64]*model.Schedule
	reservations map[uint64]*model.Reservation
	tours        map[uint64]*model.Tour
	guides       map[uint64]*model.Guide
	promos       map[string]*model.Promotion
	addons       map[uint64]*model.AddonService

	addonLinks []model.ReservationAddon
	tickets    []model.Ticket
	invoices   []model.Invoice
	payments   []model.Payment

	nextID uint64
}

func newMemStore() *memStore {
	return &memStore{
		schedules:    map[uint64]*model.Schedule{},
		reservations: map[uint64]*model.Reservation{},
		tours:        map[uint64]*model.Tour{},
		guides:       map[uint64]*model.Guide{},
		promos:       map[string]*model.Promotion{},
		addons:       map[uint64]*model.AddonService{},
		nextID:       1,
	}
}

func (m *memStore) id() uint64 {
	v := m.nextID
	m.nextID++
	return v
}

func (m *memStore) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(nil)
}

// ScheduleStore

type scheduleStoreView struct{ m *memStore }

func (v scheduleStoreView) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	s, ok := v.m.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

func (v scheduleStoreView) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Schedule, error) {
	return v.GetByID(ctx, id)
}

func (v scheduleStoreView) SetGuideTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, guideID *uint64) error {
	s, ok := v.m.schedules[scheduleID]
	if !ok {
		return ErrScheduleNotFound
	}
	if guideID == nil {
		s.GuideID = nil
	} else {
		g := *guideID
		s.GuideID = &g
	}
	return nil
}

// ReservationStore

func (m *memStore) claims(scheduleID uint64) []SeatClaim {
	var out []SeatClaim
	for _, r := range m.reservations {
		if r.ScheduleID != scheduleID || r.Status == model.ReservationCancelled {
			continue
		}
		out = append(out, SeatClaim{Status: r.Status, Seats: r.Seats(), ExpiresAt: r.ExpiresAt})
	}
	return out
}

func (m *memStore) SeatClaims(ctx context.Context, scheduleID uint64) ([]SeatClaim, error) {
	return m.claims(scheduleID), nil
}

func (m *memStore) SeatClaimsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]SeatClaim, error) {
	return m.claims(scheduleID), nil
}

func (m *memStore) ActiveHoldTx(ctx context.Context, tx *sql.Tx, userID, scheduleID uint64, now time.Time) (*model.Reservation, error) {
	for _, r := range m.reservations {
		if r.UserID == userID && r.ScheduleID == scheduleID &&
			r.Status == model.ReservationPending && r.ExpiresAt.After(now) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	res.ID = m.id()
	cp := *res
	m.reservations[res.ID] = &cp
	return nil
}

func (m *memStore) AddAddonsTx(ctx context.Context, tx *sql.Tx, addons []model.ReservationAddon) error {
	m.addonLinks = append(m.addonLinks, addons...)
	return nil
}

func (m *memStore) reservationForUpdate(id uint64) (*model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	return m.reservationForUpdate(id)
}

func (m *memStore) MarkConfirmedTx(ctx context.Context, tx *sql.Tx, id uint64, method string, paidAt time.Time) error {
	r, ok := m.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.Status = model.ReservationConfirmed
	r.PaymentMethod = &method
	r.PaidAt = &paidAt
	return nil
}

func (m *memStore) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	r, ok := m.reservations[id]
	if !ok {
		return ErrReservationNotFound
	}
	r.Status = model.ReservationCancelled
	return nil
}

// TourStore

func (m *memStore) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Tour, error) {
	t, ok := m.tours[id]
	if !ok {
		return nil, errors.New("tour not found")
	}
	cp := *t
	return &cp, nil
}

// GuideStore; the schedules table doubles as the assignment calendar.

type guideStoreView struct{ m *memStore }

func (v guideStoreView) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Guide, error) {
	g, ok := v.m.guides[id]
	if !ok {
		return nil, ErrGuideNotFound
	}
	cp := *g
	return &cp, nil
}

func (v guideStoreView) assignments(guideID, excludeScheduleID uint64) []model.GuideAssignment {
	var out []model.GuideAssignment
	for _, s := range v.m.schedules {
		if s.GuideID == nil || *s.GuideID != guideID || s.ID == excludeScheduleID {
			continue
		}
		out = append(out, model.GuideAssignment{
			ScheduleID: s.ID,
			TourID:     s.TourID,
			StartsOn:   s.StartsOn,
			EndsOn:     s.EndsOn,
		})
	}
	return out
}

func (v guideStoreView) AssignmentsTx(ctx context.Context, tx *sql.Tx, guideID, excludeScheduleID uint64) ([]model.GuideAssignment, error) {
	return v.assignments(guideID, excludeScheduleID), nil
}

func (v guideStoreView) Assignments(ctx context.Context, guideID, excludeScheduleID uint64) ([]model.GuideAssignment, error) {
	return v.assignments(guideID, excludeScheduleID), nil
}

func (v guideStoreView) ListActive(ctx context.Context) ([]model.Guide, error) {
	var out []model.Guide
	for _, g := range v.m.guides {
		if g.Status == model.GuideActive {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PromotionStore

type promoStoreView struct{ m *memStore }

func (v promoStoreView) GetByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.Promotion, error) {
	p, ok := v.m.promos[code]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// AddonStore

type addonStoreView struct{ m *memStore }

func (v addonStoreView) GetActiveByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.AddonService, error) {
	var out []model.AddonService
	for _, id := range ids {
		if a, ok := v.m.addons[id]; ok && a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

// CheckoutStore

type checkoutStoreView struct{ m *memStore }

func (v checkoutStoreView) CreateTicketsTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	for i := range tickets {
		tickets[i].ID = v.m.id()
	}
	v.m.tickets = append(v.m.tickets, tickets...)
	return nil
}

func (v checkoutStoreView) CreateInvoiceTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	inv.ID = v.m.id()
	v.m.invoices = append(v.m.invoices, *inv)
	return nil
}

func (v checkoutStoreView) CreatePaymentTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	p.ID = v.m.id()
	v.m.payments = append(v.m.payments, *p)
	return nil
}

// eventRecorder captures emitted events for assertions.

type eventRecorder struct {
	mu        sync.Mutex
	created   []uint64 // reservation ids
	assigned  []uint64 // guide ids
	confirmed []uint64 // reservation ids
}

func (e *eventRecorder) ReservationCreated(ctx context.Context, res *model.Reservation, remaining int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, res.ID)
}

func (e *eventRecorder) GuideAssigned(ctx context.Context, guide *model.Guide, sched *model.Schedule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.assigned = append(e.assigned, guide.ID)
}

func (e *eventRecorder) BookingConfirmed(ctx context.Context, res *model.Reservation, invoiceNumber string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirmed = append(e.confirmed, res.ID)
}

// newTestService wires a Service over a fresh memStore with a fixed
// clock.  Callers adjust the clock through the returned setter.
func newTestService(at time.Time) (*Service, *memStore, *eventRecorder, func(time.Time)) {
	m := newMemStore()
	events := &eventRecorder{}
	svc := NewService(m, scheduleStoreView{m}, m, m, guideStoreView{m}, promoStoreView{m}, addonStoreView{m}, checkoutStoreView{m}, events)
	current := at
	svc.now = func() time.Time { return current }
	return svc, m, events, func(t time.Time) { current = t }
}
