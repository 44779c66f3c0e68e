package models

import (
	"gorm.io/gorm"
)

// TimeSlot is a bookable window a mentor publishes. A one-off slot has exactly
// one Date; a recurring slot has no Date and repeats on RecurringDays within
// the mentor's advance-booking horizon. Booked counts are tracked per concrete
// occurrence date and derived from accepted booking requests, so the record
// itself carries no counter.
type TimeSlot struct {
	gorm.Model
	MentorID       uint       `json:"mentor_id" gorm:"index"`
	Date           string     `json:"date,omitempty"` // "YYYY-MM-DD", empty when recurring
	IsRecurring    bool       `json:"is_recurring"`
	RecurringDays  WeekdaySet `json:"recurring_days,omitempty" gorm:"type:jsonb"`
	StartMinute    int        `json:"start_minute"`
	EndMinute      int        `json:"end_minute"`
	MaxBookings    int        `json:"max_bookings"`
	ServiceTypeIDs IDSet      `json:"service_type_ids" gorm:"type:jsonb"`
	Notes          string     `json:"notes,omitempty"`
}

// SlotOccurrence is one concrete bookable date materialized from a TimeSlot,
// with its own capacity bookkeeping.
type SlotOccurrence struct {
	SlotID         uint   `json:"slot_id"`
	MentorID       uint   `json:"mentor_id"`
	Date           string `json:"date"`
	StartMinute    int    `json:"start_minute"`
	EndMinute      int    `json:"end_minute"`
	MaxBookings    int    `json:"max_bookings"`
	BookedCount    int    `json:"booked_count"`
	ServiceTypeIDs IDSet  `json:"service_type_ids"`
	IsRecurring    bool   `json:"is_recurring"`
	Notes          string `json:"notes,omitempty"`
}

// Remaining reports how many more bookings the occurrence accepts.
func (o SlotOccurrence) Remaining() int {
	return o.MaxBookings - o.BookedCount
}
