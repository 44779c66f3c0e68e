package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhive/mentor-scheduler/models"
)

const dateLayout = "2006-01-02"

// Store is the persistence collaborator. The engine owns the data and writes
// through on every mutation; a nil Store keeps the engine purely in-memory.
type Store interface {
	SavePolicy(ctx context.Context, p *models.AvailabilityPolicy) error
	SaveWorkingHour(ctx context.Context, r *models.WorkingHourRule) error
	SaveSlot(ctx context.Context, s *models.TimeSlot) error
	DeleteSlot(ctx context.Context, id uint) error
	SaveBooking(ctx context.Context, b *models.BookingRequest) error
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot is everything the engine needs to rebuild its state. Occurrence
// booked counts are not part of it; they are recomputed from accepted
// booking requests.
type Snapshot struct {
	Policies     []models.AvailabilityPolicy
	WorkingHours []models.WorkingHourRule
	Slots        []models.TimeSlot
	Bookings     []models.BookingRequest
}

// Engine is the single owner of every mentor's scheduling data: weekly
// template and booking policy, published time slots with per-occurrence
// capacity, and booking requests with their lifecycle. All mutations for one
// mentor are serialized behind that mentor's lock; reads see consistent
// snapshots.
type Engine struct {
	mu           sync.RWMutex
	mentors      map[uint]*mentorState
	bookingOwner map[uint]uint // booking ID -> mentor ID

	nextSlotID    uint
	nextBookingID uint
	idMu          sync.Mutex

	store    Store
	notifier Notifier
	clock    Clock
	logger   *zap.Logger
}

type occurrenceKey struct {
	slotID uint
	date   string
}

type mentorState struct {
	mu        sync.RWMutex
	mentorID  uint
	policy    models.AvailabilityPolicy
	loc       *time.Location
	hours     map[models.DayOfWeek]models.WorkingHourRule
	slots     map[uint]*models.TimeSlot
	occupancy map[occurrenceKey]int
	bookings  map[uint]*models.BookingRequest
}

type Option func(*Engine)

func WithStore(s Store) Option        { return func(e *Engine) { e.store = s } }
func WithNotifier(n Notifier) Option  { return func(e *Engine) { e.notifier = n } }
func WithClock(c Clock) Option        { return func(e *Engine) { e.clock = c } }
func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.logger = l } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		mentors:      make(map[uint]*mentorState),
		bookingOwner: make(map[uint]uint),
		notifier:     NopNotifier{},
		clock:        SystemClock(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load hydrates the engine from the store. Must be called before serving
// traffic when a store is configured.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	snap, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range snap.Policies {
		p := snap.Policies[i]
		st := e.stateLocked(p.MentorID)
		st.policy = p
		st.loc = loadLocation(p.Timezone)
	}
	for _, r := range snap.WorkingHours {
		st := e.stateLocked(r.MentorID)
		st.hours[r.Day] = r
	}
	for i := range snap.Slots {
		s := snap.Slots[i]
		st := e.stateLocked(s.MentorID)
		st.slots[s.ID] = &s
		if s.ID >= e.nextSlotID {
			e.nextSlotID = s.ID + 1
		}
	}
	for i := range snap.Bookings {
		b := snap.Bookings[i]
		st := e.stateLocked(b.MentorID)
		st.bookings[b.ID] = &b
		e.bookingOwner[b.ID] = b.MentorID
		if b.Status == models.StatusAccepted {
			st.occupancy[occurrenceKey{b.SlotID, b.SlotDate}]++
		}
		if b.ID >= e.nextBookingID {
			e.nextBookingID = b.ID + 1
		}
	}

	e.logger.Info("scheduling state loaded",
		zap.Int("mentors", len(e.mentors)),
		zap.Int("slots", len(snap.Slots)),
		zap.Int("bookings", len(snap.Bookings)),
	)
	return nil
}

// state returns the mentor's state, creating it with a default policy on
// first touch.
func (e *Engine) state(mentorID uint) *mentorState {
	e.mu.RLock()
	st, ok := e.mentors[mentorID]
	e.mu.RUnlock()
	if ok {
		return st
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked(mentorID)
}

func (e *Engine) stateLocked(mentorID uint) *mentorState {
	if st, ok := e.mentors[mentorID]; ok {
		return st
	}
	st := &mentorState{
		mentorID:  mentorID,
		policy:    defaultPolicy(mentorID),
		loc:       time.UTC,
		hours:     make(map[models.DayOfWeek]models.WorkingHourRule),
		slots:     make(map[uint]*models.TimeSlot),
		occupancy: make(map[occurrenceKey]int),
		bookings:  make(map[uint]*models.BookingRequest),
	}
	e.mentors[mentorID] = st
	return st
}

func (e *Engine) stateForBooking(requestID uint) (*mentorState, error) {
	e.mu.RLock()
	mentorID, ok := e.bookingOwner[requestID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("booking request %d: %w", requestID, ErrNotFound)
	}
	return e.state(mentorID), nil
}

func (e *Engine) allocSlotID() uint {
	e.idMu.Lock()
	defer e.idMu.Unlock()
	if e.nextSlotID == 0 {
		e.nextSlotID = 1
	}
	id := e.nextSlotID
	e.nextSlotID++
	return id
}

func (e *Engine) allocBookingID() uint {
	e.idMu.Lock()
	defer e.idMu.Unlock()
	if e.nextBookingID == 0 {
		e.nextBookingID = 1
	}
	id := e.nextBookingID
	e.nextBookingID++
	return id
}

func defaultPolicy(mentorID uint) models.AvailabilityPolicy {
	return models.AvailabilityPolicy{
		MentorID:           mentorID,
		Timezone:           "UTC",
		AdvanceBookingDays: 30,
		BufferTimeMinutes:  0,
	}
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// dateAt pins a minute-of-day on a calendar date in the given location.
func dateAt(date string, minute int, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, ErrValidation)
	}
	return d.Add(time.Duration(minute) * time.Minute), nil
}
