package scheduler

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhive/mentor-scheduler/models"
)

func oneOffSlot(date string, start, end, max int) SlotInput {
	return SlotInput{
		Date:           date,
		StartMinute:    start,
		EndMinute:      end,
		MaxBookings:    max,
		ServiceTypeIDs: models.IDSet{1},
	}
}

func recurringSlot(days models.WeekdaySet, start, end, max int) SlotInput {
	return SlotInput{
		IsRecurring:    true,
		RecurringDays:  days,
		StartMinute:    start,
		EndMinute:      end,
		MaxBookings:    max,
		ServiceTypeIDs: models.IDSet{1},
	}
}

func TestCreateSlotValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SlotInput
	}{
		{"end before start", oneOffSlot("2025-03-04", 660, 600, 1)},
		{"zero capacity", oneOffSlot("2025-03-04", 600, 660, 0)},
		{"no service types", SlotInput{Date: "2025-03-04", StartMinute: 600, EndMinute: 660, MaxBookings: 1}},
		{"one-off without date", oneOffSlot("", 600, 660, 1)},
		{"bad date", oneOffSlot("04-03-2025", 600, 660, 1)},
		{"recurring with fixed date", func() SlotInput {
			in := recurringSlot(models.WeekdaySet{models.Tuesday}, 600, 660, 1)
			in.Date = "2025-03-04"
			return in
		}()},
		{"recurring without days", recurringSlot(nil, 600, 660, 1)},
		{"recurring with bad day", recurringSlot(models.WeekdaySet{models.DayOfWeek(9)}, 600, 660, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.CreateSlot(ctx, 1, tc.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateSlotOutsideWindow(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	// 31 days out with a 30-day horizon.
	_, err := e.CreateSlot(ctx, 1, oneOffSlot("2025-04-03", 600, 660, 1))
	assert.ErrorIs(t, err, ErrValidation)

	// Saturday is not in the weekly template.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-08", 600, 660, 1))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateSlotRejectsOverlap(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	_, err := e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 600, 660, 1))
	require.NoError(t, err)

	// 10:30-11:30 against an existing 10:00-11:00.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 630, 690, 1))
	assert.ErrorIs(t, err, ErrOverlap)

	// Same window on another day is fine.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-05", 630, 690, 1))
	assert.NoError(t, err)

	// Back to back is fine with no buffer configured.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 660, 720, 1))
	assert.NoError(t, err)
}

func TestOverlapIsSymmetric(t *testing.T) {
	pairs := []struct {
		name          string
		aStart, aEnd  int
		bStart, bEnd  int
		wantCollision bool
	}{
		{"contained", 600, 660, 630, 690, true},
		{"identical", 600, 660, 600, 660, true},
		{"adjacent", 600, 660, 660, 720, false},
		{"disjoint", 600, 660, 720, 780, false},
	}
	for _, tc := range pairs {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			for _, order := range [][4]int{
				{tc.aStart, tc.aEnd, tc.bStart, tc.bEnd},
				{tc.bStart, tc.bEnd, tc.aStart, tc.aEnd},
			} {
				e, _ := newTestEngine(t)
				seedMentor(t, e, 1)
				_, err := e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", order[0], order[1], 1))
				require.NoError(t, err)
				_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", order[2], order[3], 1))
				if tc.wantCollision {
					assert.ErrorIs(t, err, ErrOverlap)
				} else {
					assert.NoError(t, err)
				}
			}
		})
	}
}

func TestCreateSlotHonorsBuffer(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	_, err := e.SetPolicy(ctx, 1, PolicyInput{
		Timezone:           "UTC",
		AdvanceBookingDays: 30,
		BufferTimeMinutes:  15,
	})
	require.NoError(t, err)

	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 600, 660, 1))
	require.NoError(t, err)

	// 11:10 starts inside the 15-minute buffer after 11:00.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 670, 730, 1))
	assert.ErrorIs(t, err, ErrOverlap)

	// 11:20 clears it.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 680, 740, 1))
	assert.NoError(t, err)
}

func TestBufferAppliesAcrossMidnight(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	for day := models.Monday; day <= models.Friday; day++ {
		_, err := e.SetWorkingHour(ctx, 1, day, 0, 1439, true)
		require.NoError(t, err)
	}
	_, err := e.SetPolicy(ctx, 1, PolicyInput{
		Timezone:           "UTC",
		AdvanceBookingDays: 30,
		BufferTimeMinutes:  60,
	})
	require.NoError(t, err)

	// Mon 23:00-23:50.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-10", 1380, 1430, 1))
	require.NoError(t, err)

	// Tue 00:00-00:50 leaves only ten real minutes after Monday's slot ends,
	// well inside the hour buffer.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-11", 0, 50, 1))
	assert.ErrorIs(t, err, ErrOverlap)

	// Tue 00:50-01:40 clears it exactly.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-11", 50, 100, 1))
	assert.NoError(t, err)
}

func TestBufferAcrossMidnightIsSymmetric(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	for day := models.Monday; day <= models.Friday; day++ {
		_, err := e.SetWorkingHour(ctx, 1, day, 0, 1439, true)
		require.NoError(t, err)
	}
	_, err := e.SetPolicy(ctx, 1, PolicyInput{
		Timezone:           "UTC",
		AdvanceBookingDays: 30,
		BufferTimeMinutes:  60,
	})
	require.NoError(t, err)

	// Tuesday's early slot first, then Monday's late one.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-11", 0, 50, 1))
	require.NoError(t, err)
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-10", 1380, 1430, 1))
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestRecurringSlotCollidesOnConcreteDates(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	_, err := e.CreateSlot(ctx, 1, recurringSlot(models.WeekdaySet{models.Tuesday}, 600, 660, 1))
	require.NoError(t, err)

	// A one-off on a Tuesday lands on an occurrence of the recurring slot.
	_, err = e.CreateSlot(ctx, 1, oneOffSlot("2025-03-11", 630, 690, 1))
	assert.ErrorIs(t, err, ErrOverlap)

	// Another recurring slot sharing Tuesday collides too.
	_, err = e.CreateSlot(ctx, 1, recurringSlot(models.WeekdaySet{models.Tuesday, models.Thursday}, 630, 690, 1))
	assert.ErrorIs(t, err, ErrOverlap)

	// Thursday alone is clear.
	_, err = e.CreateSlot(ctx, 1, recurringSlot(models.WeekdaySet{models.Thursday}, 630, 690, 1))
	assert.NoError(t, err)
}

func TestUpdateSlotKeepsBookings(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	slot, err := e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 600, 660, 3))
	require.NoError(t, err)
	require.NoError(t, e.Reserve(ctx, 1, slot.ID, "2025-03-04"))
	require.NoError(t, e.Reserve(ctx, 1, slot.ID, "2025-03-04"))

	// Shrinking below the booked count is refused.
	_, err = e.UpdateSlot(ctx, 1, slot.ID, oneOffSlot("2025-03-04", 600, 660, 1))
	assert.ErrorIs(t, err, ErrConflict)

	// Down to exactly the booked count is allowed.
	updated, err := e.UpdateSlot(ctx, 1, slot.ID, oneOffSlot("2025-03-04", 600, 660, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.MaxBookings)

	_, err = e.UpdateSlot(ctx, 1, 999, oneOffSlot("2025-03-04", 600, 660, 2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSlotRequiresNoBookings(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	slot, err := e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 600, 660, 1))
	require.NoError(t, err)
	require.NoError(t, e.Reserve(ctx, 1, slot.ID, "2025-03-04"))

	assert.ErrorIs(t, e.DeleteSlot(ctx, 1, slot.ID), ErrConflict)

	require.NoError(t, e.Release(ctx, 1, slot.ID, "2025-03-04"))
	require.NoError(t, e.DeleteSlot(ctx, 1, slot.ID))

	_, err = e.Slot(1, slot.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, e.DeleteSlot(ctx, 1, slot.ID), ErrNotFound)
}

func TestRecurringOccurrencesHaveIndependentCounters(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	slot, err := e.CreateSlot(ctx, 1, recurringSlot(models.WeekdaySet{models.Monday, models.Wednesday}, 600, 660, 2))
	require.NoError(t, err)

	// Two weeks starting Tuesday: Wed 3/05, Mon 3/10, Wed 3/12, Mon 3/17.
	occ, err := e.ListAvailableSlots(1, "2025-03-04", "2025-03-17", 0)
	require.NoError(t, err)
	require.Len(t, occ, 4)
	assert.Equal(t, "2025-03-05", occ[0].Date)
	assert.Equal(t, "2025-03-10", occ[1].Date)
	assert.Equal(t, "2025-03-12", occ[2].Date)
	assert.Equal(t, "2025-03-17", occ[3].Date)

	// Filling one occurrence leaves the others untouched.
	require.NoError(t, e.Reserve(ctx, 1, slot.ID, "2025-03-05"))
	require.NoError(t, e.Reserve(ctx, 1, slot.ID, "2025-03-05"))

	occ, err = e.ListAvailableSlots(1, "2025-03-04", "2025-03-17", 0)
	require.NoError(t, err)
	require.Len(t, occ, 3)
	for _, o := range occ {
		assert.NotEqual(t, "2025-03-05", o.Date)
		assert.Equal(t, 0, o.BookedCount)
		assert.Equal(t, 2, o.Remaining())
	}
}

func TestListAvailableSlotsFilters(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	_, err := e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 600, 660, 1))
	require.NoError(t, err)

	other := recurringSlot(models.WeekdaySet{models.Wednesday}, 600, 660, 1)
	other.ServiceTypeIDs = models.IDSet{2}
	_, err = e.CreateSlot(ctx, 1, other)
	require.NoError(t, err)

	// Service filter keeps only matching slots.
	occ, err := e.ListAvailableSlots(1, "2025-03-04", "2025-03-05", 2)
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, "2025-03-05", occ[0].Date)

	// Blocked dates drop their occurrences.
	require.NoError(t, e.AddBlockedDate(ctx, 1, "2025-03-05"))
	occ, err = e.ListAvailableSlots(1, "2025-03-04", "2025-03-05", 0)
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, "2025-03-04", occ[0].Date)

	// Degenerate and oversized ranges are rejected.
	_, err = e.ListAvailableSlots(1, "2025-03-05", "2025-03-04", 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.ListAvailableSlots(1, "2025-03-04", "2026-04-04", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReserveConcurrentSingleWinner(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	slot, err := e.CreateSlot(ctx, 1, oneOffSlot("2025-03-04", 600, 660, 1))
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.Reserve(ctx, 1, slot.ID, "2025-03-04")
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrCapacity)
		}
	}
	assert.Equal(t, 1, won)
}

func TestReserveValidatesOccurrence(t *testing.T) {
	e, _ := newTestEngine(t)
	seedMentor(t, e, 1)
	ctx := context.Background()

	slot, err := e.CreateSlot(ctx, 1, recurringSlot(models.WeekdaySet{models.Tuesday}, 600, 660, 1))
	require.NoError(t, err)

	// Wednesday is not an occurrence of a Tuesday slot.
	assert.ErrorIs(t, e.Reserve(ctx, 1, slot.ID, "2025-03-05"), ErrValidation)
	assert.ErrorIs(t, e.Reserve(ctx, 1, 999, "2025-03-04"), ErrNotFound)
}
