package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorhive/mentor-scheduler/models"
)

// BookingInput is a student's request for a session. The caller supplies the
// identities explicitly; the engine never assumes a current user.
type BookingInput struct {
	ConversationID  uuid.UUID
	MentorID        uint
	StudentID       uint
	ServiceTypeID   uint
	PreferredDate   string // "YYYY-MM-DD"
	StartMinute     int
	DurationMinutes int
	Price           float64
	Notes           string
}

// CreateBooking validates the requested window against the mentor's policy,
// pins the request to the first slot occurrence that can host it, and files
// it as Pending. Capacity is not reserved until the mentor accepts.
func (e *Engine) CreateBooking(ctx context.Context, in BookingInput) (*models.BookingRequest, error) {
	if in.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive: %w", ErrValidation)
	}
	if in.StartMinute < 0 || in.StartMinute >= minutesPerDay {
		return nil, fmt.Errorf("start must be minute-of-day in [0,%d): %w", minutesPerDay, ErrValidation)
	}

	st := e.state(in.MentorID)
	st.mu.Lock()

	now := e.clock.Now()
	start, err := dateAt(in.PreferredDate, in.StartMinute, st.loc)
	if err != nil {
		st.mu.Unlock()
		return nil, err
	}
	if !st.withinWindow(start, now) {
		st.mu.Unlock()
		return nil, fmt.Errorf("%s at %d is outside the bookable window: %w", in.PreferredDate, in.StartMinute, ErrValidation)
	}

	slot, ok := st.matchSlot(in)
	if !ok {
		st.mu.Unlock()
		return nil, fmt.Errorf("no available slot hosts service %d on %s: %w", in.ServiceTypeID, in.PreferredDate, ErrValidation)
	}

	req := &models.BookingRequest{
		ConversationID:  in.ConversationID,
		MentorID:        in.MentorID,
		StudentID:       in.StudentID,
		ServiceTypeID:   in.ServiceTypeID,
		SlotID:          slot.ID,
		SlotDate:        in.PreferredDate,
		PreferredDate:   in.PreferredDate,
		StartMinute:     in.StartMinute,
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
		Status:          models.StatusPending,
		Notes:           in.Notes,
	}
	req.ID = e.allocBookingID()
	req.CreatedAt = now
	req.UpdatedAt = now
	if err := e.saveBooking(ctx, req); err != nil {
		st.mu.Unlock()
		return nil, err
	}
	st.bookings[req.ID] = req
	out := *req
	st.mu.Unlock()

	e.mu.Lock()
	e.bookingOwner[req.ID] = in.MentorID
	e.mu.Unlock()

	e.notifier.BookingStatusChanged(out, "")
	e.logger.Info("booking request created",
		zap.Uint("request_id", out.ID),
		zap.Uint("mentor_id", in.MentorID),
		zap.Uint("student_id", in.StudentID),
		zap.Uint("slot_id", slot.ID),
	)
	return &out, nil
}

// matchSlot finds the earliest-starting slot whose occurrence on the
// preferred date hosts the service, covers the requested window and still has
// capacity.
func (st *mentorState) matchSlot(in BookingInput) (*models.TimeSlot, bool) {
	day, err := dateAt(in.PreferredDate, 0, st.loc)
	if err != nil {
		return nil, false
	}
	weekday := models.DayOf(day)
	end := in.StartMinute + in.DurationMinutes

	candidates := make([]*models.TimeSlot, 0, len(st.slots))
	for _, slot := range st.slots {
		if !slotOccursOn(slot, in.PreferredDate, weekday) {
			continue
		}
		if !slot.ServiceTypeIDs.Contains(in.ServiceTypeID) {
			continue
		}
		if in.StartMinute < slot.StartMinute || end > slot.EndMinute {
			continue
		}
		if st.occupancy[occurrenceKey{slot.ID, in.PreferredDate}] >= slot.MaxBookings {
			continue
		}
		candidates = append(candidates, slot)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].StartMinute != candidates[j].StartMinute {
			return candidates[i].StartMinute < candidates[j].StartMinute
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}

// Accept confirms a pending request and reserves capacity on its slot
// occurrence. If a competing accept exhausted the slot first, the request is
// declined instead and the caller gets ErrCapacity; accept never silently
// downgrades.
func (e *Engine) Accept(ctx context.Context, mentorID, requestID uint) (*models.BookingRequest, error) {
	st := e.state(mentorID)
	st.mu.Lock()

	req, err := st.ownedBooking(mentorID, requestID)
	if err != nil {
		st.mu.Unlock()
		return nil, err
	}
	if req.Status != models.StatusPending {
		current := req.Status
		st.mu.Unlock()
		return nil, &InvalidStateError{Current: current, Attempted: models.StatusAccepted}
	}

	booked, max, reserveErr := st.reserveLocked(req.SlotID, req.SlotDate)
	if reserveErr != nil {
		// Compensating transition: the request cannot be honored anymore.
		req.Status = models.StatusDeclined
		req.DeclineReason = "slot at capacity"
		req.UpdatedAt = e.clock.Now()
		if err := e.saveBooking(ctx, req); err != nil {
			st.mu.Unlock()
			return nil, err
		}
		out := *req
		st.mu.Unlock()

		e.notifier.BookingStatusChanged(out, models.StatusPending)
		e.logger.Warn("accept failed, request declined",
			zap.Uint("request_id", requestID),
			zap.Error(reserveErr),
		)
		return &out, reserveErr
	}

	req.Status = models.StatusAccepted
	req.UpdatedAt = e.clock.Now()
	if err := e.saveBooking(ctx, req); err != nil {
		// Roll the reservation back so capacity is not leaked.
		st.releaseLocked(req.SlotID, req.SlotDate)
		req.Status = models.StatusPending
		st.mu.Unlock()
		return nil, err
	}
	out := *req
	st.mu.Unlock()

	e.notifier.SlotCapacityChanged(mentorID, out.SlotID, out.SlotDate, booked, max)
	e.notifier.BookingStatusChanged(out, models.StatusPending)
	return &out, nil
}

// Decline rejects a pending request. No capacity was reserved, so none moves.
func (e *Engine) Decline(ctx context.Context, mentorID, requestID uint, reason string) (*models.BookingRequest, error) {
	st := e.state(mentorID)
	st.mu.Lock()

	req, err := st.ownedBooking(mentorID, requestID)
	if err != nil {
		st.mu.Unlock()
		return nil, err
	}
	if req.Status != models.StatusPending {
		current := req.Status
		st.mu.Unlock()
		return nil, &InvalidStateError{Current: current, Attempted: models.StatusDeclined}
	}

	req.Status = models.StatusDeclined
	req.DeclineReason = reason
	req.UpdatedAt = e.clock.Now()
	if err := e.saveBooking(ctx, req); err != nil {
		req.Status = models.StatusPending
		st.mu.Unlock()
		return nil, err
	}
	out := *req
	st.mu.Unlock()

	e.notifier.BookingStatusChanged(out, models.StatusPending)
	return &out, nil
}

// Cancel withdraws a request from Pending or Accepted; an accepted request
// releases its reserved capacity. Refund policy is the payment collaborator's
// concern, the engine only records the cancellation.
func (e *Engine) Cancel(ctx context.Context, requestID uint) (*models.BookingRequest, error) {
	st, err := e.stateForBooking(requestID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	req, ok := st.bookings[requestID]
	if !ok {
		st.mu.Unlock()
		return nil, fmt.Errorf("booking request %d: %w", requestID, ErrNotFound)
	}
	if !req.Status.ValidTransition(models.StatusCancelled) {
		current := req.Status
		st.mu.Unlock()
		return nil, &InvalidStateError{Current: current, Attempted: models.StatusCancelled}
	}

	old := req.Status
	released := false
	var booked, max int
	if old == models.StatusAccepted {
		booked, max, _ = st.releaseLocked(req.SlotID, req.SlotDate)
		released = true
	}

	req.Status = models.StatusCancelled
	req.UpdatedAt = e.clock.Now()
	if err := e.saveBooking(ctx, req); err != nil {
		if released {
			st.reserveLocked(req.SlotID, req.SlotDate)
		}
		req.Status = old
		st.mu.Unlock()
		return nil, err
	}
	out := *req
	st.mu.Unlock()

	if released {
		e.notifier.SlotCapacityChanged(out.MentorID, out.SlotID, out.SlotDate, booked, max)
	}
	e.notifier.BookingStatusChanged(out, old)
	return &out, nil
}

// Complete marks an accepted session done once its end time has passed on
// the engine's clock. Early completion is rejected.
func (e *Engine) Complete(ctx context.Context, mentorID, requestID uint) (*models.BookingRequest, error) {
	st := e.state(mentorID)
	st.mu.Lock()

	req, err := st.ownedBooking(mentorID, requestID)
	if err != nil {
		st.mu.Unlock()
		return nil, err
	}
	if req.Status != models.StatusAccepted {
		current := req.Status
		st.mu.Unlock()
		return nil, &InvalidStateError{Current: current, Attempted: models.StatusCompleted}
	}
	if !st.sessionEnded(req, e.clock.Now()) {
		st.mu.Unlock()
		return nil, &InvalidStateError{
			Current:   models.StatusAccepted,
			Attempted: models.StatusCompleted,
			Reason:    "session has not ended yet",
		}
	}

	req.Status = models.StatusCompleted
	req.UpdatedAt = e.clock.Now()
	if err := e.saveBooking(ctx, req); err != nil {
		req.Status = models.StatusAccepted
		st.mu.Unlock()
		return nil, err
	}
	out := *req
	st.mu.Unlock()

	e.notifier.BookingStatusChanged(out, models.StatusAccepted)
	return &out, nil
}

// CompleteElapsed sweeps every mentor's accepted bookings and completes the
// ones whose sessions have ended. Used by the background job; returns how
// many transitions it made.
func (e *Engine) CompleteElapsed(ctx context.Context) int {
	e.mu.RLock()
	states := make([]*mentorState, 0, len(e.mentors))
	for _, st := range e.mentors {
		states = append(states, st)
	}
	e.mu.RUnlock()

	completed := 0
	for _, st := range states {
		now := e.clock.Now()
		st.mu.RLock()
		var due []uint
		for id, req := range st.bookings {
			if req.Status == models.StatusAccepted && st.sessionEnded(req, now) {
				due = append(due, id)
			}
		}
		mentorID := st.mentorID
		st.mu.RUnlock()

		for _, id := range due {
			if _, err := e.Complete(ctx, mentorID, id); err != nil {
				e.logger.Error("auto-complete failed",
					zap.Uint("request_id", id),
					zap.Error(err),
				)
				continue
			}
			completed++
		}
	}
	return completed
}

// Booking returns one request by ID.
func (e *Engine) Booking(requestID uint) (*models.BookingRequest, error) {
	st, err := e.stateForBooking(requestID)
	if err != nil {
		return nil, err
	}

	st.mu.RLock()
	defer st.mu.RUnlock()
	req, ok := st.bookings[requestID]
	if !ok {
		return nil, fmt.Errorf("booking request %d: %w", requestID, ErrNotFound)
	}
	out := *req
	return &out, nil
}

// MentorBookings lists a mentor's requests, optionally filtered by status,
// newest first.
func (e *Engine) MentorBookings(mentorID uint, status models.BookingStatus) []models.BookingRequest {
	st := e.state(mentorID)
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]models.BookingRequest, 0, len(st.bookings))
	for _, req := range st.bookings {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// StudentBookings lists every request a student has filed, across mentors,
// newest first.
func (e *Engine) StudentBookings(studentID uint) []models.BookingRequest {
	e.mu.RLock()
	states := make([]*mentorState, 0, len(e.mentors))
	for _, st := range e.mentors {
		states = append(states, st)
	}
	e.mu.RUnlock()

	out := make([]models.BookingRequest, 0)
	for _, st := range states {
		st.mu.RLock()
		for _, req := range st.bookings {
			if req.StudentID == studentID {
				out = append(out, *req)
			}
		}
		st.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (st *mentorState) ownedBooking(mentorID, requestID uint) (*models.BookingRequest, error) {
	req, ok := st.bookings[requestID]
	if !ok || req.MentorID != mentorID {
		return nil, fmt.Errorf("booking request %d: %w", requestID, ErrNotFound)
	}
	return req, nil
}

// sessionEnded reports whether the request's session end has passed.
func (st *mentorState) sessionEnded(req *models.BookingRequest, now time.Time) bool {
	start, err := dateAt(req.SlotDate, req.StartMinute, st.loc)
	if err != nil {
		return false
	}
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
	return now.After(end)
}

func (e *Engine) saveBooking(ctx context.Context, b *models.BookingRequest) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.SaveBooking(ctx, b); err != nil {
		return fmt.Errorf("persist booking: %w", err)
	}
	return nil
}
