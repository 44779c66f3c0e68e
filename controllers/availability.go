package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/models"
	"github.com/mentorhive/mentor-scheduler/scheduler"
	"github.com/mentorhive/mentor-scheduler/utils"
)

type workingHourRequest struct {
	Day         string `json:"day"`
	StartTime   string `json:"start_time"` // "HH:MM"
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

type policyRequest struct {
	Timezone           string `json:"timezone"`
	AdvanceBookingDays int    `json:"advance_booking_days"`
	BufferTimeMinutes  int    `json:"buffer_time_minutes"`
	CancellationPolicy string `json:"cancellation_policy"`
}

type blockedDateRequest struct {
	Date string `json:"date"`
}

// GetWorkingHours returns the mentor's weekly template
func GetWorkingHours(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}
	return c.JSON(Engine.WorkingHours(mentorID))
}

// SetWorkingHour replaces the rule for one weekday
func SetWorkingHour(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	var req workingHourRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	day, err := models.ParseDay(req.Day)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid day",
			Error:   err.Error(),
		})
	}

	start, end := 0, 0
	if req.IsAvailable || req.StartTime != "" {
		if start, err = utils.ParseClock(req.StartTime); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid start time",
				Error:   err.Error(),
			})
		}
		if end, err = utils.ParseClock(req.EndTime); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid end time",
				Error:   err.Error(),
			})
		}
	}

	rule, err := Engine.SetWorkingHour(c.Context(), mentorID, day, start, end, req.IsAvailable)
	if err != nil {
		return utils.FailWith(c, "Failed to set working hour", err)
	}
	return c.JSON(rule)
}

// GetPolicy returns the mentor's booking policy
func GetPolicy(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}
	return c.JSON(Engine.Policy(mentorID))
}

// SetPolicy replaces the mentor's booking policy atomically
func SetPolicy(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	var req policyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	policy, err := Engine.SetPolicy(c.Context(), mentorID, scheduler.PolicyInput{
		Timezone:           req.Timezone,
		AdvanceBookingDays: req.AdvanceBookingDays,
		BufferTimeMinutes:  req.BufferTimeMinutes,
		CancellationPolicy: req.CancellationPolicy,
	})
	if err != nil {
		return utils.FailWith(c, "Failed to update policy", err)
	}
	return c.JSON(policy)
}

// AddBlockedDate marks a date unbookable
func AddBlockedDate(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	var req blockedDateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date",
			Error:   err.Error(),
		})
	}

	if err := Engine.AddBlockedDate(c.Context(), mentorID, date); err != nil {
		return utils.FailWith(c, "Failed to block date", err)
	}
	return c.JSON(Engine.Policy(mentorID))
}

// RemoveBlockedDate lifts a block
func RemoveBlockedDate(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	date, err := utils.ParseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date",
			Error:   err.Error(),
		})
	}

	if err := Engine.RemoveBlockedDate(c.Context(), mentorID, date); err != nil {
		return utils.FailWith(c, "Failed to unblock date", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
