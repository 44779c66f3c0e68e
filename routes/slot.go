package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/controllers"
	"github.com/mentorhive/mentor-scheduler/controllers/consumer"
)

// SetupSlotRoutes configures the time-slot routes
func SetupSlotRoutes(app *fiber.App) {
	slots := app.Group("/mentors/:mentorID/slots")
	slots.Get("/available", consumer.GetAvailableSlots)
	slots.Get("/", controllers.GetSlots)
	slots.Get("/:id", controllers.GetSlot)
	slots.Post("/", controllers.CreateSlot)
	slots.Patch("/:id", controllers.UpdateSlot)
	slots.Delete("/:id", controllers.DeleteSlot)
}
