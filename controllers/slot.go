package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/models"
	"github.com/mentorhive/mentor-scheduler/scheduler"
	"github.com/mentorhive/mentor-scheduler/utils"
)

type slotRequest struct {
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"` // "HH:MM"
	EndTime        string   `json:"end_time"`
	IsRecurring    bool     `json:"is_recurring"`
	RecurringDays  []string `json:"recurring_days"`
	MaxBookings    int      `json:"max_bookings"`
	ServiceTypeIDs []uint   `json:"service_type_ids"`
	Notes          string   `json:"notes"`
}

func (r slotRequest) toInput() (scheduler.SlotInput, error) {
	start, err := utils.ParseClock(r.StartTime)
	if err != nil {
		return scheduler.SlotInput{}, err
	}
	end, err := utils.ParseClock(r.EndTime)
	if err != nil {
		return scheduler.SlotInput{}, err
	}

	days := make(models.WeekdaySet, 0, len(r.RecurringDays))
	for _, name := range r.RecurringDays {
		day, err := models.ParseDay(name)
		if err != nil {
			return scheduler.SlotInput{}, err
		}
		days = append(days, day)
	}

	return scheduler.SlotInput{
		Date:           r.Date,
		IsRecurring:    r.IsRecurring,
		RecurringDays:  days,
		StartMinute:    start,
		EndMinute:      end,
		MaxBookings:    r.MaxBookings,
		ServiceTypeIDs: models.IDSet(r.ServiceTypeIDs),
		Notes:          r.Notes,
	}, nil
}

// CreateSlot publishes a new bookable window
func CreateSlot(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	var req slotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	input, err := req.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid slot definition",
			Error:   err.Error(),
		})
	}

	slot, err := Engine.CreateSlot(c.Context(), mentorID, input)
	if err != nil {
		return utils.FailWith(c, "Failed to create slot", err)
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

// GetSlots lists all of the mentor's slot definitions
func GetSlots(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}
	return c.JSON(Engine.Slots(mentorID))
}

// GetSlot returns one slot definition
func GetSlot(c *fiber.Ctx) error {
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
			Message: "Invalid slot id",
			Error:   err.Error(),
		})
	}

	slot, err := Engine.Slot(mentorID, id)
	if err != nil {
		return utils.FailWith(c, "Slot not found", err)
	}
	return c.JSON(slot)
}

// UpdateSlot replaces a slot definition
func UpdateSlot(c *fiber.Ctx) error {
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
			Message: "Invalid slot id",
			Error:   err.Error(),
		})
	}

	var req slotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	input, err := req.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid slot definition",
			Error:   err.Error(),
		})
	}

	slot, err := Engine.UpdateSlot(c.Context(), mentorID, id, input)
	if err != nil {
		return utils.FailWith(c, "Failed to update slot", err)
	}
	return c.JSON(slot)
}

// DeleteSlot removes a slot with no active bookings
func DeleteSlot(c *fiber.Ctx) error {
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
			Message: "Invalid slot id",
			Error:   err.Error(),
		})
	}

	if err := Engine.DeleteSlot(c.Context(), mentorID, id); err != nil {
		return utils.FailWith(c, "Failed to delete slot", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
