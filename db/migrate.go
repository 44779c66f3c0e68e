package db

import (
	"fmt"
	"log"

	"github.com/mentorhive/mentor-scheduler/models"
)

func Migrate() {
	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.ServiceType{},
		&models.WorkingHourRule{},
		&models.AvailabilityPolicy{},
		&models.TimeSlot{},
		&models.BookingRequest{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
