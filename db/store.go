package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mentorhive/mentor-scheduler/models"
	"github.com/mentorhive/mentor-scheduler/scheduler"
)

// GormStore is the persistence collaborator behind the scheduling engine.
// The engine owns the in-memory state and writes through here; occurrence
// booked counts are never stored, they are rebuilt from accepted bookings on
// Load.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SavePolicy(ctx context.Context, p *models.AvailabilityPolicy) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mentor_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("save policy for mentor %d: %w", p.MentorID, err)
	}
	return nil
}

func (s *GormStore) SaveWorkingHour(ctx context.Context, r *models.WorkingHourRule) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mentor_id"}, {Name: "day"}},
			UpdateAll: true,
		}).
		Create(r).Error
	if err != nil {
		return fmt.Errorf("save working hour for mentor %d: %w", r.MentorID, err)
	}
	return nil
}

func (s *GormStore) SaveSlot(ctx context.Context, slot *models.TimeSlot) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(slot).Error
	if err != nil {
		return fmt.Errorf("save slot %d: %w", slot.ID, err)
	}
	return nil
}

func (s *GormStore) DeleteSlot(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.TimeSlot{}, id).Error; err != nil {
		return fmt.Errorf("delete slot %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) SaveBooking(ctx context.Context, b *models.BookingRequest) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(b).Error
	if err != nil {
		return fmt.Errorf("save booking %d: %w", b.ID, err)
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context) (*scheduler.Snapshot, error) {
	snap := &scheduler.Snapshot{}
	tx := s.db.WithContext(ctx)

	if err := tx.Find(&snap.Policies).Error; err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	if err := tx.Find(&snap.WorkingHours).Error; err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}
	if err := tx.Find(&snap.Slots).Error; err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	if err := tx.Find(&snap.Bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return snap, nil
}
