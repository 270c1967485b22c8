package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/carewatch/internal/services"
)

var dashboardAgents = []string{
	services.AgentHealth,
	services.AgentSafety,
	services.AgentReminder,
	services.AgentCommunication,
	services.AgentResearch,
	services.AgentAll,
}

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	view, err := handler.monitoring.Dashboard(c.Query("device_id"))
	if err != nil {
		handler.logger.Error().Err(err).Msg("load dashboard")
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load dashboard")
	}
	return handler.render(c, "dashboard", fiber.Map{
		"Title":      "Dashboard",
		"ActivePage": "dashboard",
		"DeviceID":   view.DeviceID,
		"DeviceIDs":  view.DeviceIDs,
		"Health":     view.Health,
		"Safety":     view.Safety,
		"Reminders":  view.Reminders,
		"Events":     view.Events,
		"Agents":     dashboardAgents,
	})
}

func (handler *Handler) ShowHealth(c *fiber.Ctx) error {
	view, err := handler.monitoring.HealthPage(c.Query("device_id"))
	if err != nil {
		handler.logger.Error().Err(err).Msg("load health page")
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load health data")
	}
	return handler.render(c, "health", fiber.Map{
		"Title":      "Health",
		"ActivePage": "health",
		"DeviceID":   view.DeviceID,
		"DeviceIDs":  view.DeviceIDs,
		"Records":    view.Records,
		"Charts":     view.Charts,
	})
}

func (handler *Handler) ShowSafety(c *fiber.Ctx) error {
	view, err := handler.monitoring.SafetyPage(c.Query("device_id"))
	if err != nil {
		handler.logger.Error().Err(err).Msg("load safety page")
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load safety data")
	}
	return handler.render(c, "safety", fiber.Map{
		"Title":      "Safety",
		"ActivePage": "safety",
		"DeviceID":   view.DeviceID,
		"DeviceIDs":  view.DeviceIDs,
		"Alerts":     view.Alerts,
		"Events":     view.Events,
	})
}

func (handler *Handler) ShowReminders(c *fiber.Ctx) error {
	view, err := handler.monitoring.RemindersPage(c.Query("device_id"))
	if err != nil {
		handler.logger.Error().Err(err).Msg("load reminders page")
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load reminders")
	}
	return handler.render(c, "reminders", fiber.Map{
		"Title":      "Reminders",
		"ActivePage": "reminders",
		"DeviceID":   view.DeviceID,
		"DeviceIDs":  view.DeviceIDs,
		"Upcoming":   view.Upcoming,
		"Completed":  view.Completed,
	})
}
