package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/db"
	"github.com/mentorhive/mentor-scheduler/models"
	"github.com/mentorhive/mentor-scheduler/utils"
)

// GetServiceTypes lists the mentor's offerings
func GetServiceTypes(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	var services []models.ServiceType
	if err := db.DB.Where("mentor_id = ?", mentorID).Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch service types",
			Error:   err.Error(),
		})
	}
	return c.JSON(services)
}

// GetServiceType returns one offering
func GetServiceType(c *fiber.Ctx) error {
	var service models.ServiceType
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service type not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(service)
}

// CreateServiceType adds an offering for the mentor
func CreateServiceType(c *fiber.Ctx) error {
	mentorID, err := ParamUint(c, "mentorID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid mentor id",
			Error:   err.Error(),
		})
	}

	service := new(models.ServiceType)
	if err := c.BodyParser(service); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	service.MentorID = mentorID

	if service.DurationMinutes <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Duration must be positive",
			Error:   "duration_minutes must be greater than zero",
		})
	}

	if err := db.DB.Create(service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create service type",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateServiceType patches an offering
func UpdateServiceType(c *fiber.Ctx) error {
	var service models.ServiceType
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service type not found",
			Error:   err.Error(),
		})
	}
	if err := c.BodyParser(&service); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Save(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update service type",
			Error:   err.Error(),
		})
	}
	return c.JSON(service)
}

// DeleteServiceType removes an offering
func DeleteServiceType(c *fiber.Ctx) error {
	var service models.ServiceType
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Service type not found",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Delete(&service).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete service type",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
