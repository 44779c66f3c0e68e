package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusDeclined  BookingStatus = "declined"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusDeclined, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidTransition reports whether the lifecycle permits moving from s to next.
// Pending -> Accepted | Declined | Cancelled; Accepted -> Completed | Cancelled.
func (s BookingStatus) ValidTransition(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusAccepted || next == StatusDeclined || next == StatusCancelled
	case StatusAccepted:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// BookingRequest is a student's request for a session against one of the
// mentor's slots. The matching slot and concrete occurrence date are resolved
// when the request is created; capacity is only reserved on accept.
type BookingRequest struct {
	gorm.Model
	ConversationID  uuid.UUID     `json:"conversation_id" gorm:"type:uuid;index"`
	MentorID        uint          `json:"mentor_id" gorm:"index"`
	StudentID       uint          `json:"student_id" gorm:"index"`
	ServiceTypeID   uint          `json:"service_type_id"`
	SlotID          uint          `json:"slot_id" gorm:"index"`
	SlotDate        string        `json:"slot_date"`      // occurrence date the request is pinned to
	PreferredDate   string        `json:"preferred_date"` // "YYYY-MM-DD"
	StartMinute     int           `json:"start_minute"`
	DurationMinutes int           `json:"duration_minutes"`
	Price           float64       `json:"price"`
	Status          BookingStatus `json:"status"`
	Notes           string        `json:"notes,omitempty"`
	DeclineReason   string        `json:"decline_reason,omitempty"`
}

func (b *BookingRequest) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}
