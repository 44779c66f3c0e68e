package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/scheduler"
)

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusCode maps scheduler errors onto HTTP status codes. Anything the
// scheduler does not recognize is a 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, scheduler.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, scheduler.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, scheduler.ErrOverlap),
		errors.Is(err, scheduler.ErrCapacity),
		errors.Is(err, scheduler.ErrConflict),
		errors.Is(err, scheduler.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// FailWith renders err as the standard error envelope with the mapped status.
func FailWith(c *fiber.Ctx, message string, err error) error {
	return c.Status(StatusCode(err)).JSON(ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}
