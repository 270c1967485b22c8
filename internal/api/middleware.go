package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// RequestMetrics counts handled requests by route pattern and status code.
func (handler *Handler) RequestMetrics(c *fiber.Ctx) error {
	err := c.Next()
	if handler.metrics == nil {
		return err
	}

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}
	}
	route := c.Route().Path
	if status == fiber.StatusNotFound {
		route = "unmatched"
	}
	handler.metrics.ObserveRequest(route, strconv.Itoa(status))
	return err
}
