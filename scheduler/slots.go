package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhive/mentor-scheduler/models"
)

// maxListRangeDays bounds availability queries so a listing always
// materializes a finite set of occurrences.
const maxListRangeDays = 370

// SlotInput is the mentor-supplied definition of a bookable window.
type SlotInput struct {
	Date           string // one-off slots only
	IsRecurring    bool
	RecurringDays  models.WeekdaySet
	StartMinute    int
	EndMinute      int
	MaxBookings    int
	ServiceTypeIDs models.IDSet
	Notes          string
}

// CreateSlot validates the definition, rejects anything that would collide
// with an existing slot occurrence (buffer included), and publishes the slot
// with zero bookings on every occurrence.
func (e *Engine) CreateSlot(ctx context.Context, mentorID uint, in SlotInput) (*models.TimeSlot, error) {
	if err := validateSlotInput(in); err != nil {
		return nil, err
	}

	st := e.state(mentorID)
	st.mu.Lock()
	defer st.mu.Unlock()

	now := e.clock.Now()
	slot := newSlot(mentorID, in)
	if err := st.checkSlotPlacement(&slot, 0, now); err != nil {
		return nil, err
	}

	slot.ID = e.allocSlotID()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	if err := e.saveSlot(ctx, &slot); err != nil {
		return nil, err
	}
	st.slots[slot.ID] = &slot

	e.logger.Info("slot created",
		zap.Uint("mentor_id", mentorID),
		zap.Uint("slot_id", slot.ID),
		zap.Bool("recurring", slot.IsRecurring),
	)
	return &slot, nil
}

// UpdateSlot revalidates the full definition, keeping existing occurrence
// bookings. Shrinking MaxBookings below the booked count of any occurrence is
// rejected.
func (e *Engine) UpdateSlot(ctx context.Context, mentorID, id uint, in SlotInput) (*models.TimeSlot, error) {
	if err := validateSlotInput(in); err != nil {
		return nil, err
	}

	st := e.state(mentorID)
	st.mu.Lock()
	defer st.mu.Unlock()

	existing, ok := st.slots[id]
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}
	if peak := st.peakOccupancy(id); in.MaxBookings < peak {
		return nil, fmt.Errorf("max bookings %d below %d already booked: %w", in.MaxBookings, peak, ErrConflict)
	}

	now := e.clock.Now()
	slot := newSlot(mentorID, in)
	slot.ID = id
	slot.CreatedAt = existing.CreatedAt
	slot.UpdatedAt = now
	if err := st.checkSlotPlacement(&slot, id, now); err != nil {
		return nil, err
	}

	if err := e.saveSlot(ctx, &slot); err != nil {
		return nil, err
	}
	st.slots[id] = &slot
	return &slot, nil
}

// DeleteSlot removes a slot that has no booked occurrences. Mentors must
// decline or cancel active bookings first; there is no cascade.
func (e *Engine) DeleteSlot(ctx context.Context, mentorID, id uint) error {
	st := e.state(mentorID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.slots[id]; !ok {
		return fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}
	if st.peakOccupancy(id) > 0 {
		return fmt.Errorf("slot %d has active bookings: %w", id, ErrConflict)
	}

	if e.store != nil {
		if err := e.store.DeleteSlot(ctx, id); err != nil {
			return fmt.Errorf("persist slot deletion: %w", err)
		}
	}
	delete(st.slots, id)
	for key := range st.occupancy {
		if key.slotID == id {
			delete(st.occupancy, key)
		}
	}
	return nil
}

// Slot returns one slot definition.
func (e *Engine) Slot(mentorID, id uint) (*models.TimeSlot, error) {
	st := e.state(mentorID)
	st.mu.RLock()
	defer st.mu.RUnlock()

	slot, ok := st.slots[id]
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}
	out := *slot
	return &out, nil
}

// Slots returns every slot definition the mentor has published, ordered by ID.
func (e *Engine) Slots(mentorID uint) []models.TimeSlot {
	st := e.state(mentorID)
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]models.TimeSlot, 0, len(st.slots))
	for _, slot := range st.slots {
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reserve atomically takes one booking of capacity on a slot occurrence.
// It is the only way a booked count moves up.
func (e *Engine) Reserve(ctx context.Context, mentorID, slotID uint, date string) error {
	st := e.state(mentorID)
	st.mu.Lock()
	booked, max, err := st.reserveLocked(slotID, date)
	st.mu.Unlock()
	if err != nil {
		return err
	}

	e.notifier.SlotCapacityChanged(mentorID, slotID, date, booked, max)
	return nil
}

// Release returns one booking of capacity, flooring at zero.
func (e *Engine) Release(ctx context.Context, mentorID, slotID uint, date string) error {
	st := e.state(mentorID)
	st.mu.Lock()
	booked, max, err := st.releaseLocked(slotID, date)
	st.mu.Unlock()
	if err != nil {
		return err
	}

	e.notifier.SlotCapacityChanged(mentorID, slotID, date, booked, max)
	return nil
}

// ListAvailableSlots materializes every bookable occurrence in [from, to]
// (dates inclusive), ordered by date then start time. An occurrence is
// bookable when it still has capacity, its date is not blocked, and it has
// not started yet. serviceTypeID filters when non-zero.
func (e *Engine) ListAvailableSlots(mentorID uint, from, to string, serviceTypeID uint) ([]models.SlotOccurrence, error) {
	st := e.state(mentorID)
	st.mu.RLock()
	defer st.mu.RUnlock()

	fromDay, err := dateAt(from, 0, st.loc)
	if err != nil {
		return nil, err
	}
	toDay, err := dateAt(to, 0, st.loc)
	if err != nil {
		return nil, err
	}
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("range end %s before start %s: %w", to, from, ErrValidation)
	}
	if toDay.Sub(fromDay) > maxListRangeDays*24*time.Hour {
		return nil, fmt.Errorf("range wider than %d days: %w", maxListRangeDays, ErrValidation)
	}

	now := e.clock.Now()
	out := make([]models.SlotOccurrence, 0)
	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		if st.policy.BlockedDates.Contains(date) {
			continue
		}
		for _, slot := range st.slots {
			if !slotOccursOn(slot, date, models.DayOf(day)) {
				continue
			}
			if serviceTypeID != 0 && !slot.ServiceTypeIDs.Contains(serviceTypeID) {
				continue
			}
			booked := st.occupancy[occurrenceKey{slot.ID, date}]
			if booked >= slot.MaxBookings {
				continue
			}
			start := day.Add(time.Duration(slot.StartMinute) * time.Minute)
			if !start.After(now) {
				continue
			}
			out = append(out, models.SlotOccurrence{
				SlotID:         slot.ID,
				MentorID:       mentorID,
				Date:           date,
				StartMinute:    slot.StartMinute,
				EndMinute:      slot.EndMinute,
				MaxBookings:    slot.MaxBookings,
				BookedCount:    booked,
				ServiceTypeIDs: slot.ServiceTypeIDs,
				IsRecurring:    slot.IsRecurring,
				Notes:          slot.Notes,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute < out[j].StartMinute
		}
		return out[i].SlotID < out[j].SlotID
	})
	return out, nil
}

func validateSlotInput(in SlotInput) error {
	if in.StartMinute < 0 || in.StartMinute >= minutesPerDay || in.EndMinute < 0 || in.EndMinute >= minutesPerDay {
		return fmt.Errorf("times must be minute-of-day in [0,%d): %w", minutesPerDay, ErrValidation)
	}
	if in.StartMinute >= in.EndMinute {
		return fmt.Errorf("start %d must precede end %d: %w", in.StartMinute, in.EndMinute, ErrValidation)
	}
	if in.MaxBookings < 1 {
		return fmt.Errorf("max bookings must be positive: %w", ErrValidation)
	}
	if len(in.ServiceTypeIDs) == 0 {
		return fmt.Errorf("slot must allow at least one service type: %w", ErrValidation)
	}
	if in.IsRecurring {
		if in.Date != "" {
			return fmt.Errorf("recurring slot must not carry a fixed date: %w", ErrValidation)
		}
		if len(in.RecurringDays) == 0 {
			return fmt.Errorf("recurring slot needs at least one weekday: %w", ErrValidation)
		}
		for _, d := range in.RecurringDays {
			if !d.Valid() {
				return fmt.Errorf("day %d out of range: %w", int(d), ErrValidation)
			}
		}
		return nil
	}
	if in.Date == "" {
		return fmt.Errorf("one-off slot needs a date: %w", ErrValidation)
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", in.Date, ErrValidation)
	}
	return nil
}

func newSlot(mentorID uint, in SlotInput) models.TimeSlot {
	slot := models.TimeSlot{
		MentorID:       mentorID,
		IsRecurring:    in.IsRecurring,
		StartMinute:    in.StartMinute,
		EndMinute:      in.EndMinute,
		MaxBookings:    in.MaxBookings,
		ServiceTypeIDs: in.ServiceTypeIDs,
		Notes:          in.Notes,
	}
	if in.IsRecurring {
		slot.RecurringDays = in.RecurringDays
	} else {
		slot.Date = in.Date
	}
	return slot
}

// checkSlotPlacement enforces the bookable-window rule for one-off slots and
// overlap-freedom against every concrete occurrence within the
// advance-booking horizon. Two recurring slots with disjoint weekday labels
// can still collide on a concrete date, so the comparison always runs on
// materialized dates, never on labels.
func (st *mentorState) checkSlotPlacement(cand *models.TimeSlot, excludeID uint, now time.Time) error {
	if !cand.IsRecurring {
		start, err := dateAt(cand.Date, cand.StartMinute, st.loc)
		if err != nil {
			return err
		}
		if !st.withinWindow(start, now) {
			return fmt.Errorf("date %s at %d is outside the bookable window: %w", cand.Date, cand.StartMinute, ErrValidation)
		}
	}

	buffer := time.Duration(st.policy.BufferTimeMinutes) * time.Minute
	today := now.In(st.loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, st.loc)
	horizon := today.AddDate(0, 0, st.policy.AdvanceBookingDays)

	for day := today; !day.After(horizon); day = day.AddDate(0, 0, 1) {
		if !slotOccursOn(cand, day.Format(dateLayout), models.DayOf(day)) {
			continue
		}
		candStart := day.Add(time.Duration(cand.StartMinute) * time.Minute)
		candEnd := day.Add(time.Duration(cand.EndMinute) * time.Minute)

		// Buffer padding can reach across midnight, so the comparison runs on
		// absolute instants against occurrences on the neighboring dates too.
		for offset := -1; offset <= 1; offset++ {
			otherDay := day.AddDate(0, 0, offset)
			otherDate := otherDay.Format(dateLayout)
			otherWeekday := models.DayOf(otherDay)
			for _, other := range st.slots {
				if other.ID == excludeID {
					continue
				}
				if !slotOccursOn(other, otherDate, otherWeekday) {
					continue
				}
				otherStart := otherDay.Add(time.Duration(other.StartMinute) * time.Minute)
				otherEnd := otherDay.Add(time.Duration(other.EndMinute) * time.Minute)
				if candStart.Before(otherEnd.Add(buffer)) && otherStart.Before(candEnd.Add(buffer)) {
					return fmt.Errorf("collides with slot %d on %s: %w", other.ID, otherDate, ErrOverlap)
				}
			}
		}
	}
	return nil
}

func slotOccursOn(slot *models.TimeSlot, date string, day models.DayOfWeek) bool {
	if slot.IsRecurring {
		return slot.RecurringDays.Contains(day)
	}
	return slot.Date == date
}

// peakOccupancy is the highest booked count across the slot's occurrences.
func (st *mentorState) peakOccupancy(slotID uint) int {
	peak := 0
	for key, booked := range st.occupancy {
		if key.slotID == slotID && booked > peak {
			peak = booked
		}
	}
	return peak
}

func (st *mentorState) reserveLocked(slotID uint, date string) (booked, max int, err error) {
	slot, ok := st.slots[slotID]
	if !ok {
		return 0, 0, fmt.Errorf("slot %d: %w", slotID, ErrNotFound)
	}
	day, err := dateAt(date, 0, st.loc)
	if err != nil {
		return 0, 0, err
	}
	if !slotOccursOn(slot, date, models.DayOf(day)) {
		return 0, 0, fmt.Errorf("slot %d has no occurrence on %s: %w", slotID, date, ErrValidation)
	}

	key := occurrenceKey{slotID, date}
	if st.occupancy[key] >= slot.MaxBookings {
		return 0, 0, fmt.Errorf("slot %d on %s: %w", slotID, date, ErrCapacity)
	}
	st.occupancy[key]++
	return st.occupancy[key], slot.MaxBookings, nil
}

func (st *mentorState) releaseLocked(slotID uint, date string) (booked, max int, err error) {
	slot, ok := st.slots[slotID]
	if !ok {
		return 0, 0, fmt.Errorf("slot %d: %w", slotID, ErrNotFound)
	}
	key := occurrenceKey{slotID, date}
	if st.occupancy[key] > 0 {
		st.occupancy[key]--
	}
	return st.occupancy[key], slot.MaxBookings, nil
}

func (e *Engine) saveSlot(ctx context.Context, s *models.TimeSlot) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.SaveSlot(ctx, s); err != nil {
		return fmt.Errorf("persist slot: %w", err)
	}
	return nil
}
