package scheduler

import (
	"errors"
	"fmt"

	"github.com/mentorhive/mentor-scheduler/models"
)

// Every error the engine returns wraps one of these sentinels, so callers can
// classify failures with errors.Is and map them to transport codes. All of
// them are recoverable; none leave partial state behind.
var (
	ErrValidation   = errors.New("validation failed")
	ErrOverlap      = errors.New("slot overlaps an existing slot")
	ErrCapacity     = errors.New("slot is at capacity")
	ErrConflict     = errors.New("operation conflicts with existing bookings")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state transition")
)

// InvalidStateError reports an illegal booking-lifecycle transition, carrying
// the current and attempted states for diagnostics.
type InvalidStateError struct {
	Current   models.BookingStatus
	Attempted models.BookingStatus
	Reason    string
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state transition from %s to %s: %s", e.Current, e.Attempted, e.Reason)
	}
	return fmt.Sprintf("invalid state transition from %s to %s", e.Current, e.Attempted)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
