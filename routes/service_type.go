package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/controllers"
)

// SetupServiceTypeRoutes configures the service-type routes
func SetupServiceTypeRoutes(app *fiber.App) {
	services := app.Group("/mentors/:mentorID/services")
	services.Get("/", controllers.GetServiceTypes)
	services.Get("/:id", controllers.GetServiceType)
	services.Post("/", controllers.CreateServiceType)
	services.Patch("/:id", controllers.UpdateServiceType)
	services.Delete("/:id", controllers.DeleteServiceType)
}
