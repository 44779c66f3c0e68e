package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mentorhive/mentor-scheduler/scheduler"
)

// Engine is the scheduling core all handlers talk to. Wired in main.
var Engine *scheduler.Engine

// SetEngine installs the scheduling engine for this package and the consumer
// handlers.
func SetEngine(e *scheduler.Engine) {
	Engine = e
}

// ParamUint reads a numeric path parameter.
func ParamUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
