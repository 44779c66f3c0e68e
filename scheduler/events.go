package scheduler

import (
	"github.com/mentorhive/mentor-scheduler/models"
)

// Notifier receives domain events after a mutation commits. The engine never
// formats messages or touches presentation; collaborators (messaging, cache,
// notifications) subscribe through this interface. Events fire outside the
// per-mentor lock, so implementations may do I/O.
type Notifier interface {
	// BookingStatusChanged fires whenever a request changes status. For a
	// freshly created request old is the empty string.
	BookingStatusChanged(req models.BookingRequest, old models.BookingStatus)

	// SlotCapacityChanged fires whenever an occurrence's booked count moves.
	SlotCapacityChanged(mentorID, slotID uint, date string, booked, max int)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) BookingStatusChanged(models.BookingRequest, models.BookingStatus) {}
func (NopNotifier) SlotCapacityChanged(uint, uint, string, int, int)                 {}
