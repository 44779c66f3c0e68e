package models

import (
	"gorm.io/gorm"
)

// ServiceType is an offering a mentor publishes (e.g. "1:1 code review").
// Slots reference the service types bookable in them by ID.
type ServiceType struct {
	gorm.Model
	MentorID        uint    `json:"mentor_id" gorm:"index"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	IsActive        bool    `json:"is_active" gorm:"default:true"`
	MaxStudents     int     `json:"max_students"` // for group sessions
}
