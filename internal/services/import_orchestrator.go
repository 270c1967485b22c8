package services

import (
	"fmt"

	"github.com/rs/zerolog"
)

type ImportPaths struct {
	Health   string
	Safety   string
	Reminder string
}

type ImportCounts struct {
	Health   int `json:"health"`
	Safety   int `json:"safety"`
	Reminder int `json:"reminder"`
}

func (counts ImportCounts) Message() string {
	return fmt.Sprintf(
		"Import complete. Imported %d health records, %d safety records, and %d reminder records.",
		counts.Health, counts.Safety, counts.Reminder,
	)
}

type ImportOrchestrator struct {
	seed     *SeedService
	importer *ImportService
	paths    ImportPaths
	logger   zerolog.Logger
}

func NewImportOrchestrator(seed *SeedService, importer *ImportService, paths ImportPaths, logger zerolog.Logger) *ImportOrchestrator {
	return &ImportOrchestrator{
		seed:     seed,
		importer: importer,
		paths:    paths,
		logger:   logger,
	}
}

// Run seeds baseline data, then imports health, safety and reminder files in
// that order. Only seeding can fail; import problems show up in the counts.
func (orchestrator *ImportOrchestrator) Run() (ImportCounts, error) {
	if err := orchestrator.seed.EnsureBaseline(); err != nil {
		return ImportCounts{}, err
	}
	if _, err := orchestrator.seed.EnsureDemoDevices(); err != nil {
		return ImportCounts{}, err
	}

	counts := ImportCounts{
		Health:   orchestrator.importer.ImportFile(orchestrator.paths.Health, CSVTypeHealth).Inserted,
		Safety:   orchestrator.importer.ImportFile(orchestrator.paths.Safety, CSVTypeSafety).Inserted,
		Reminder: orchestrator.importer.ImportFile(orchestrator.paths.Reminder, CSVTypeReminder).Inserted,
	}
	orchestrator.logger.Info().
		Int("health", counts.Health).
		Int("safety", counts.Safety).
		Int("reminder", counts.Reminder).
		Msg(counts.Message())
	return counts, nil
}
