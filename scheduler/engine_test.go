package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mentorhive/mentor-scheduler/models"
)

// fixedClock pins the engine to a chosen instant; tests advance it by hand.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fixedClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixedClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	mu            sync.Mutex
	statusChanges []string
	capacity      []string
}

func (r *recordingNotifier) BookingStatusChanged(req models.BookingRequest, old models.BookingStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusChanges = append(r.statusChanges, fmt.Sprintf("%d:%s->%s", req.ID, old, req.Status))
}

func (r *recordingNotifier) SlotCapacityChanged(mentorID, slotID uint, date string, booked, max int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capacity = append(r.capacity, fmt.Sprintf("%d@%s=%d/%d", slotID, date, booked, max))
}

func (r *recordingNotifier) StatusChanges() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.statusChanges...)
}

func (r *recordingNotifier) Capacity() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.capacity...)
}

// testNow is a Monday morning; the seeded mentor works weekdays 09:00-17:00.
var testNow = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *fixedClock) {
	t.Helper()
	clk := &fixedClock{now: testNow}
	return NewEngine(WithClock(clk)), clk
}

// seedMentor installs a weekday 09:00-17:00 template and a UTC policy with a
// 30-day booking horizon and no buffer.
func seedMentor(t *testing.T, e *Engine, mentorID uint) {
	t.Helper()
	ctx := context.Background()
	for day := models.Monday; day <= models.Friday; day++ {
		_, err := e.SetWorkingHour(ctx, mentorID, day, 9*60, 17*60, true)
		require.NoError(t, err)
	}
	_, err := e.SetPolicy(ctx, mentorID, PolicyInput{
		Timezone:           "UTC",
		AdvanceBookingDays: 30,
		BufferTimeMinutes:  0,
	})
	require.NoError(t, err)
}
