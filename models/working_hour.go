package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func (d DayOfWeek) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("dayofweek(%d)", int(d))
	}
	return dayNames[d]
}

func (d DayOfWeek) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// ParseDay accepts the lowercase day names used on the wire ("monday", ...).
func ParseDay(s string) (DayOfWeek, error) {
	for i, name := range dayNames {
		if strings.EqualFold(s, name) {
			return DayOfWeek(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day of week %q", s)
}

// DayOf maps a calendar instant onto the weekday enum.
func DayOf(t time.Time) DayOfWeek {
	return DayOfWeek(int(t.Weekday()))
}

// WorkingHourRule is one row of a mentor's weekly template. Days are unique
// keys per mentor; rules are toggled via IsAvailable, never deleted.
// Times are minute-of-day, 0-1439.
type WorkingHourRule struct {
	gorm.Model
	MentorID    uint      `json:"mentor_id" gorm:"uniqueIndex:idx_mentor_day"`
	Day         DayOfWeek `json:"day" gorm:"uniqueIndex:idx_mentor_day"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
	IsAvailable bool      `json:"is_available"`
}
