package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Use(handler.RequestMetrics)
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	if handler.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))
	}

	app.Get("/", handler.ShowDashboard)
	app.Get("/health", handler.ShowHealth)
	app.Get("/safety", handler.ShowSafety)
	app.Get("/reminders", handler.ShowReminders)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	api.Post("/run_agent/:type", handler.RunAgent)
	api.Post("/mark_reminder_complete/:id", handler.MarkReminderComplete)
	api.Post("/add_reminder", handler.AddReminder)
	api.Get("/import_data", handler.ImportData)
	api.Get("/get_health_data", handler.GetHealthData)
	api.Get("/import_runs", handler.ImportRuns)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
