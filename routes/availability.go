package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/controllers"
)

// SetupAvailabilityRoutes configures the mentor availability routes
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/mentors/:mentorID/availability")
	availability.Get("/working-hours", controllers.GetWorkingHours)
	availability.Put("/working-hours", controllers.SetWorkingHour)
	availability.Get("/policy", controllers.GetPolicy)
	availability.Put("/policy", controllers.SetPolicy)
	availability.Post("/blocked-dates", controllers.AddBlockedDate)
	availability.Delete("/blocked-dates/:date", controllers.RemoveBlockedDate)
}
