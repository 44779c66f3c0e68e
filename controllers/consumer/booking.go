package consumer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mentorhive/mentor-scheduler/controllers"
	"github.com/mentorhive/mentor-scheduler/scheduler"
	"github.com/mentorhive/mentor-scheduler/utils"
)

type bookingRequest struct {
	ConversationID  string  `json:"conversation_id"`
	MentorID        uint    `json:"mentor_id"`
	StudentID       uint    `json:"student_id"`
	ServiceTypeID   uint    `json:"service_type_id"`
	PreferredDate   string  `json:"preferred_date"`
	PreferredTime   string  `json:"preferred_time"` // "HH:MM"
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Notes           string  `json:"notes"`
}

// CreateBooking files a student's booking request against a mentor's slot
func CreateBooking(c *fiber.Ctx) error {
	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	conversationID := uuid.Nil
	if req.ConversationID != "" {
		var err error
		if conversationID, err = uuid.Parse(req.ConversationID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid conversation id",
				Error:   err.Error(),
			})
		}
	}

	start, err := utils.ParseClock(req.PreferredTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid preferred time",
			Error:   err.Error(),
		})
	}

	booking, err := controllers.Engine.CreateBooking(c.Context(), scheduler.BookingInput{
		ConversationID:  conversationID,
		MentorID:        req.MentorID,
		StudentID:       req.StudentID,
		ServiceTypeID:   req.ServiceTypeID,
		PreferredDate:   req.PreferredDate,
		StartMinute:     start,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Notes:           req.Notes,
	})
	if err != nil {
		return utils.FailWith(c, "Failed to create booking request", err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetBooking returns one booking request
func GetBooking(c *fiber.Ctx) error {
	id, err := controllers.ParamUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid booking id",
			Error:   err.Error(),
		})
	}

	booking, err := controllers.Engine.Booking(id)
	if err != nil {
		return utils.FailWith(c, "Booking not found", err)
	}
	return c.JSON(booking)
}

// CancelBooking withdraws a pending or accepted request; either party may
// call it
func CancelBooking(c *fiber.Ctx) error {
	id, err := controllers.ParamUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid booking id",
			Error:   err.Error(),
		})
	}

	booking, err := controllers.Engine.Cancel(c.Context(), id)
	if err != nil {
		return utils.FailWith(c, "Failed to cancel booking", err)
	}
	return c.JSON(booking)
}

// GetStudentBookings lists every request the student has filed
func GetStudentBookings(c *fiber.Ctx) error {
	studentID, err := controllers.ParamUint(c, "studentID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid student id",
			Error:   err.Error(),
		})
	}
	return c.JSON(controllers.Engine.StudentBookings(studentID))
}
