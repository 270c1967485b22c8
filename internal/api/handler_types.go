package api

import (
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/carewatch/internal/metrics"
	"github.com/terraincognita07/carewatch/internal/services"
)

const (
	flashCookieName = "carewatch_flash"

	flashSuccess = "success"
	flashDanger  = "danger"

	importRunsLimit = 20
)

// ImportRunner runs the full seed-and-import pipeline.
type ImportRunner interface {
	Run() (services.ImportCounts, error)
}

type Handler struct {
	monitoring    *services.MonitoringService
	agents        *services.AgentService
	reminders     *services.ReminderService
	importer      *services.ImportService
	orchestrator  ImportRunner
	metrics       *metrics.Metrics
	logger        zerolog.Logger
	location      *time.Location
	flashKey      []byte
	templates     map[string]*template.Template
	importLimiter *importLimiter
}

type Dependencies struct {
	Monitoring    *services.MonitoringService
	Agents        *services.AgentService
	Reminders     *services.ReminderService
	Importer      *services.ImportService
	Orchestrator  ImportRunner
	Metrics       *metrics.Metrics
	Logger        zerolog.Logger
	Location      *time.Location
	SessionSecret string
	ImportWindow  time.Duration
}

type FlashPayload struct {
	Category string
	Message  string
}
