package models

import (
	"gorm.io/gorm"
)

// BufferTimeChoices are the gaps a mentor may enforce between sessions,
// in minutes.
var BufferTimeChoices = []int{0, 15, 30, 60}

func ValidBufferTime(minutes int) bool {
	for _, v := range BufferTimeChoices {
		if v == minutes {
			return true
		}
	}
	return false
}

const (
	MinAdvanceBookingDays = 1
	MaxAdvanceBookingDays = 90
)

// AvailabilityPolicy is a mentor's booking policy: how far ahead students may
// book, the buffer between sessions, blocked-out dates and the timezone all
// slot times are interpreted in. One record per mentor, created at onboarding.
type AvailabilityPolicy struct {
	gorm.Model
	MentorID           uint    `json:"mentor_id" gorm:"uniqueIndex"`
	Timezone           string  `json:"timezone"`
	AdvanceBookingDays int     `json:"advance_booking_days"`
	BufferTimeMinutes  int     `json:"buffer_time_minutes"`
	CancellationPolicy string  `json:"cancellation_policy"`
	BlockedDates       DateSet `json:"blocked_dates" gorm:"type:jsonb"`
}
