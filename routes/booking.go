package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/controllers"
	"github.com/mentorhive/mentor-scheduler/controllers/consumer"
)

// SetupBookingRoutes configures the booking-request routes
func SetupBookingRoutes(app *fiber.App) {
	mentor := app.Group("/mentors/:mentorID/bookings")
	mentor.Get("/", controllers.GetMentorBookings)
	mentor.Post("/:id/accept", controllers.AcceptBooking)
	mentor.Post("/:id/decline", controllers.DeclineBooking)
	mentor.Post("/:id/complete", controllers.CompleteBooking)

	bookings := app.Group("/bookings")
	bookings.Post("/", consumer.CreateBooking)
	bookings.Get("/:id", consumer.GetBooking)
	bookings.Post("/:id/cancel", consumer.CancelBooking)

	app.Get("/students/:studentID/bookings", consumer.GetStudentBookings)
}
