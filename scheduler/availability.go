package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhive/mentor-scheduler/models"
)

const minutesPerDay = 24 * 60

// PolicyInput carries the mentor-editable policy fields. SetPolicy replaces
// them as a unit; blocked dates are managed separately.
type PolicyInput struct {
	Timezone           string
	AdvanceBookingDays int
	BufferTimeMinutes  int
	CancellationPolicy string
}

// SetWorkingHour replaces the weekly rule for one day. Days are unique keys,
// so the last write for a day wins.
func (e *Engine) SetWorkingHour(ctx context.Context, mentorID uint, day models.DayOfWeek, startMinute, endMinute int, isAvailable bool) (*models.WorkingHourRule, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("day %d out of range: %w", int(day), ErrValidation)
	}
	if startMinute < 0 || startMinute >= minutesPerDay || endMinute < 0 || endMinute >= minutesPerDay {
		return nil, fmt.Errorf("times must be minute-of-day in [0,%d): %w", minutesPerDay, ErrValidation)
	}
	if isAvailable && startMinute >= endMinute {
		return nil, fmt.Errorf("start %d must precede end %d on an available day: %w", startMinute, endMinute, ErrValidation)
	}

	st := e.state(mentorID)
	st.mu.Lock()
	rule := st.hours[day]
	rule.MentorID = mentorID
	rule.Day = day
	rule.StartMinute = startMinute
	rule.EndMinute = endMinute
	rule.IsAvailable = isAvailable
	if err := e.saveWorkingHour(ctx, &rule); err != nil {
		st.mu.Unlock()
		return nil, err
	}
	st.hours[day] = rule
	st.mu.Unlock()

	e.logger.Debug("working hour set",
		zap.Uint("mentor_id", mentorID),
		zap.String("day", day.String()),
		zap.Bool("available", isAvailable),
	)
	return &rule, nil
}

// WorkingHours returns the mentor's weekly template ordered Sunday..Saturday.
func (e *Engine) WorkingHours(mentorID uint) []models.WorkingHourRule {
	st := e.state(mentorID)
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]models.WorkingHourRule, 0, len(st.hours))
	for _, rule := range st.hours {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// SetPolicy validates and atomically replaces the mentor's booking policy.
// Blocked dates carry over untouched.
func (e *Engine) SetPolicy(ctx context.Context, mentorID uint, in PolicyInput) (*models.AvailabilityPolicy, error) {
	if in.AdvanceBookingDays < models.MinAdvanceBookingDays || in.AdvanceBookingDays > models.MaxAdvanceBookingDays {
		return nil, fmt.Errorf("advance booking days %d outside [%d,%d]: %w",
			in.AdvanceBookingDays, models.MinAdvanceBookingDays, models.MaxAdvanceBookingDays, ErrValidation)
	}
	if !models.ValidBufferTime(in.BufferTimeMinutes) {
		return nil, fmt.Errorf("buffer time %d not one of %v: %w", in.BufferTimeMinutes, models.BufferTimeChoices, ErrValidation)
	}
	loc, err := time.LoadLocation(in.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", in.Timezone, ErrValidation)
	}

	st := e.state(mentorID)
	st.mu.Lock()
	policy := st.policy
	policy.MentorID = mentorID
	policy.Timezone = in.Timezone
	policy.AdvanceBookingDays = in.AdvanceBookingDays
	policy.BufferTimeMinutes = in.BufferTimeMinutes
	policy.CancellationPolicy = in.CancellationPolicy
	if err := e.savePolicy(ctx, &policy); err != nil {
		st.mu.Unlock()
		return nil, err
	}
	st.policy = policy
	st.loc = loc
	st.mu.Unlock()

	e.logger.Info("availability policy updated",
		zap.Uint("mentor_id", mentorID),
		zap.String("timezone", in.Timezone),
		zap.Int("advance_days", in.AdvanceBookingDays),
		zap.Int("buffer_minutes", in.BufferTimeMinutes),
	)
	return &policy, nil
}

// Policy returns the mentor's current policy.
func (e *Engine) Policy(mentorID uint) models.AvailabilityPolicy {
	st := e.state(mentorID)
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.policy
}

// AddBlockedDate marks a calendar date unbookable. Idempotent.
func (e *Engine) AddBlockedDate(ctx context.Context, mentorID uint, date string) error {
	return e.mutateBlockedDates(ctx, mentorID, date, models.DateSet.Add)
}

// RemoveBlockedDate lifts a block. Idempotent.
func (e *Engine) RemoveBlockedDate(ctx context.Context, mentorID uint, date string) error {
	return e.mutateBlockedDates(ctx, mentorID, date, models.DateSet.Remove)
}

func (e *Engine) mutateBlockedDates(ctx context.Context, mentorID uint, date string, apply func(models.DateSet, string) models.DateSet) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, ErrValidation)
	}

	st := e.state(mentorID)
	st.mu.Lock()
	defer st.mu.Unlock()

	policy := st.policy
	blocked := make(models.DateSet, len(policy.BlockedDates))
	copy(blocked, policy.BlockedDates)
	policy.BlockedDates = apply(blocked, date)
	if err := e.savePolicy(ctx, &policy); err != nil {
		return err
	}
	st.policy = policy
	return nil
}

// WithinBookableWindow reports whether candidate is a bookable instant for
// the mentor: on an available weekday inside working hours, not blocked, in
// the future, and no further out than the advance-booking window.
func (e *Engine) WithinBookableWindow(mentorID uint, candidate, now time.Time) bool {
	st := e.state(mentorID)
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.withinWindow(candidate, now)
}

func (st *mentorState) withinWindow(candidate, now time.Time) bool {
	c := candidate.In(st.loc)
	if !c.After(now) {
		return false
	}
	if c.Sub(now) > time.Duration(st.policy.AdvanceBookingDays)*24*time.Hour {
		return false
	}
	if st.policy.BlockedDates.Contains(c.Format(dateLayout)) {
		return false
	}
	rule, ok := st.hours[models.DayOf(c)]
	if !ok || !rule.IsAvailable {
		return false
	}
	minute := c.Hour()*60 + c.Minute()
	return minute >= rule.StartMinute && minute < rule.EndMinute
}

func (e *Engine) savePolicy(ctx context.Context, p *models.AvailabilityPolicy) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.SavePolicy(ctx, p); err != nil {
		return fmt.Errorf("persist policy: %w", err)
	}
	return nil
}

func (e *Engine) saveWorkingHour(ctx context.Context, r *models.WorkingHourRule) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.SaveWorkingHour(ctx, r); err != nil {
		return fmt.Errorf("persist working hour: %w", err)
	}
	return nil
}
