package api

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/carewatch/internal/services"
)

const defaultHealthDataDays = 365

func (handler *Handler) RunAgent(c *fiber.Ctx) error {
	agentType := strings.ToLower(strings.TrimSpace(c.Params("type")))
	run, err := handler.agents.Run(agentType)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAgentType) {
			return apiError(c, fiber.StatusBadRequest, "Invalid agent type")
		}
		handler.logger.Error().Err(err).Str("agent", agentType).Msg("run agent")
		return apiError(c, fiber.StatusInternalServerError, "failed to run agent")
	}
	handler.metrics.ObserveAgentRun(agentType)
	return c.JSON(run)
}

func (handler *Handler) MarkReminderComplete(c *fiber.Ctx) error {
	reminderID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || reminderID == 0 {
		handler.setFlash(c, flashDanger, "Reminder not found")
		return c.Redirect("/reminders", fiber.StatusSeeOther)
	}

	reminder, err := handler.reminders.Complete(uint(reminderID))
	switch {
	case errors.Is(err, services.ErrReminderNotFound):
		handler.setFlash(c, flashDanger, "Reminder not found")
		return c.Redirect("/reminders", fiber.StatusSeeOther)
	case err != nil:
		handler.logger.Error().Err(err).Uint64("reminder_id", reminderID).Msg("complete reminder")
		handler.setFlash(c, flashDanger, "Failed to complete reminder")
		return c.Redirect("/reminders", fiber.StatusSeeOther)
	}

	handler.setFlash(c, flashSuccess, "Reminder marked as complete")
	return c.Redirect(remindersPath(reminder.PatientID), fiber.StatusSeeOther)
}

func (handler *Handler) AddReminder(c *fiber.Ctx) error {
	input := services.AddReminderInput{
		ReminderType:  c.FormValue("reminder_type"),
		Description:   c.FormValue("description"),
		ScheduledDate: c.FormValue("scheduled_date"),
		ScheduledTime: c.FormValue("scheduled_time"),
		Priority:      c.FormValue("priority"),
		Recurrence:    c.FormValue("recurrence"),
		DeviceID:      c.FormValue("device_id"),
	}

	reminder, err := handler.reminders.Add(input)
	switch {
	case errors.Is(err, services.ErrReminderFieldsRequired):
		handler.setFlash(c, flashDanger, "All fields are required")
		return c.Redirect(remindersPath(input.DeviceID), fiber.StatusSeeOther)
	case errors.Is(err, services.ErrInvalidReminderPriority):
		handler.setFlash(c, flashDanger, "Priority must be high, medium or low")
		return c.Redirect(remindersPath(input.DeviceID), fiber.StatusSeeOther)
	case errors.Is(err, services.ErrInvalidReminderSchedule):
		handler.setFlash(c, flashDanger, "Invalid date or time")
		return c.Redirect(remindersPath(input.DeviceID), fiber.StatusSeeOther)
	case err != nil:
		handler.logger.Error().Err(err).Msg("add reminder")
		handler.setFlash(c, flashDanger, "Failed to add reminder")
		return c.Redirect(remindersPath(input.DeviceID), fiber.StatusSeeOther)
	}

	handler.setFlash(c, flashSuccess, "Reminder added successfully")
	return c.Redirect(remindersPath(reminder.PatientID), fiber.StatusSeeOther)
}

func (handler *Handler) ImportData(c *fiber.Ctx) error {
	if !handler.importLimiter.allow(requestLimiterKey(c), time.Now()) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"status":  "error",
			"message": "Import was requested too recently, try again later",
		})
	}

	counts, err := handler.runImport()
	if err != nil {
		handler.logger.Error().Err(err).Msg("import data")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":    "error",
			"message":   "Error importing data: " + err.Error(),
			"traceback": string(debug.Stack()),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": counts.Message(),
	})
}

// runImport converts a panic inside the pipeline into an error so the
// endpoint still answers with the error JSON shape.
func (handler *Handler) runImport() (counts services.ImportCounts, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("import panicked: %v", recovered)
		}
	}()
	return handler.orchestrator.Run()
}

func (handler *Handler) GetHealthData(c *fiber.Ctx) error {
	// days is validated but not applied; the endpoint always returns the
	// full history for the device.
	days := defaultHealthDataDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid days")
		}
		days = parsed
	}

	records, err := handler.monitoring.HealthData(c.Query("device_id"))
	if err != nil {
		handler.logger.Error().Err(err).Int("days", days).Msg("load health data")
		return apiError(c, fiber.StatusInternalServerError, "failed to load health data")
	}
	return c.JSON(records)
}

func (handler *Handler) ImportRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", importRunsLimit)
	if limit <= 0 || limit > 100 {
		limit = importRunsLimit
	}
	runs, err := handler.importer.ListRuns(limit)
	if err != nil {
		handler.logger.Error().Err(err).Msg("list import runs")
		return apiError(c, fiber.StatusInternalServerError, "failed to load import runs")
	}
	return c.JSON(runs)
}
