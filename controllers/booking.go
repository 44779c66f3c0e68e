package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/models"
	"github.com/mentorhive/mentor-scheduler/utils"
)

type declineRequest struct {
	Reason string `json:"reason"`
}

// GetMentorBookings lists the mentor's booking requests, optionally filtered
// with ?status=pending
func GetMentorBookings(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}
	status := models.BookingStatus(c.Query("status"))
	return c.JSON(Engine.MentorBookings(mentorID, status))
}

// AcceptBooking confirms a pending request and reserves slot capacity. When
// the slot filled up in the meantime the request is declined and a conflict
// is reported.
func AcceptBooking(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}
	id, err := ParamUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid booking id",
			Error:   err.Error(),
		})
	}

	req, err := Engine.Accept(c.Context(), mentorID, id)
	if err != nil {
		return utils.FailWith(c, "Failed to accept booking", err)
	}
	return c.JSON(req)
}

// DeclineBooking rejects a pending request
func DeclineBooking(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}
	id, err := ParamUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid booking id",
			Error:   err.Error(),
		})
	}

	var body declineRequest
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	req, err := Engine.Decline(c.Context(), mentorID, id, body.Reason)
	if err != nil {
		return utils.FailWith(c, "Failed to decline booking", err)
	}
	return c.JSON(req)
}

// CompleteBooking marks an accepted session done after it has ended
func CompleteBooking(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}
	id, err := ParamUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid booking id",
			Error:   err.Error(),
		})
	}

	req, err := Engine.Complete(c.Context(), mentorID, id)
	if err != nil {
		return utils.FailWith(c, "Failed to complete booking", err)
	}
	return c.JSON(req)
}
