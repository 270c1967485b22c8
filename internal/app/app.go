// Package app wires repositories and services for the server and the CLI.
package app

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/carewatch/internal/config"
	"github.com/terraincognita07/carewatch/internal/db"
	"github.com/terraincognita07/carewatch/internal/metrics"
	"github.com/terraincognita07/carewatch/internal/services"
	"gorm.io/gorm"
)

type Services struct {
	Repositories *db.Repositories
	Events       *services.EventService
	Agents       *services.AgentService
	Reminders    *services.ReminderService
	Monitoring   *services.MonitoringService
	Importer     *services.ImportService
	Seed         *services.SeedService
	Orchestrator *services.ImportOrchestrator
	Devices      *services.DeviceService
}

type Options struct {
	Location  *time.Location
	BatchSize int
	Paths     services.ImportPaths
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

func OptionsFromConfig(cfg *config.Config, location *time.Location, collector *metrics.Metrics) Options {
	return Options{
		Location:  location,
		BatchSize: cfg.ImportBatchSize,
		Paths: services.ImportPaths{
			Health:   cfg.HealthCSV,
			Safety:   cfg.SafetyCSV,
			Reminder: cfg.ReminderCSV,
		},
		Metrics: collector,
	}
}

func NewServices(database *gorm.DB, logger zerolog.Logger, options Options) *Services {
	now := options.Now
	if now == nil {
		now = time.Now
	}
	repositories := db.NewRepositories(database)

	events := services.NewEventService(repositories.Events, logger, now)
	importer := services.NewImportService(repositories.Imports, repositories.ImportRuns, events, logger, services.ImportOptions{
		BatchSize: options.BatchSize,
		Location:  options.Location,
		Now:       now,
	})
	if options.Metrics != nil {
		importer = importer.WithObserver(options.Metrics)
	}
	seed := services.NewSeedService(
		repositories.Patients,
		repositories.Caregivers,
		repositories.Health,
		repositories.Safety,
		repositories.Reminders,
		logger,
		now,
	)

	return &Services{
		Repositories: repositories,
		Events:       events,
		Agents:       services.NewAgentService(events),
		Reminders:    services.NewReminderService(repositories.Reminders, events, options.Location, now),
		Monitoring:   services.NewMonitoringService(repositories.Health, repositories.Safety, repositories.Reminders, events),
		Importer:     importer,
		Seed:         seed,
		Orchestrator: services.NewImportOrchestrator(seed, importer, options.Paths, logger),
		Devices:      services.NewDeviceService(repositories.Patients, repositories.Health, repositories.Safety, repositories.Reminders),
	}
}
