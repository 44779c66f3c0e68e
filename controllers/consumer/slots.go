package consumer

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/controllers"
	"github.com/mentorhive/mentor-scheduler/redis"
	"github.com/mentorhive/mentor-scheduler/utils"
)

var slotCache redis.SlotCache

// GetAvailableSlots lists bookable occurrences for a mentor over a date
// range: ?from=2025-01-06&to=2025-01-19&service_id=3. Results are served from
// the redis cache when a fresh listing exists.
func GetAvailableSlots(c *fiber.Ctx) error {
	mentorID, err := controllers.ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	from, err := utils.ParseDate(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid from date",
			Error:   err.Error(),
		})
	}
	to, err := utils.ParseDate(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid to date",
			Error:   err.Error(),
		})
	}
	var serviceTypeID uint
	if raw := c.Query("service_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid service id",
				Error:   err.Error(),
			})
		}
		serviceTypeID = uint(v)
	}

	if cached, ok := slotCache.Get(c.Context(), mentorID, from, to, serviceTypeID); ok {
		return c.JSON(cached)
	}

	occurrences, err := controllers.Engine.ListAvailableSlots(mentorID, from, to, serviceTypeID)
	if err != nil {
		return utils.FailWith(c, "Failed to list available slots", err)
	}

	slotCache.Set(c.Context(), mentorID, from, to, serviceTypeID, occurrences)
	return c.JSON(occurrences)
}
