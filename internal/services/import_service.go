package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/carewatch/internal/models"
	"gorm.io/datatypes"
)

const (
	DefaultImportBatchSize = 100
	maxRecordedRejections  = 20
	importEventSource      = "importer"
)

var errRowPanicked = errors.New("row handling panicked")

// ImportTx is one batch transaction. Existence checks run inside it, so rows
// staged earlier in the same batch count as duplicates.
type ImportTx interface {
	HealthExists(deviceID string, timestamp time.Time) (bool, error)
	SafetyExists(deviceID string, timestamp time.Time) (bool, error)
	ReminderExists(deviceID string, scheduledTime time.Time, reminderType string) (bool, error)
	CreateHealth(record *models.HealthRecord) error
	CreateSafety(alert *models.SafetyAlert) error
	CreateReminder(reminder *models.Reminder) error
	Commit() error
	Rollback() error
}

type ImportStore interface {
	Begin() (ImportTx, error)
}

type ImportRunRepository interface {
	Create(run *models.ImportRun) error
	ListRecent(limit int) ([]models.ImportRun, error)
}

type ImportObserver interface {
	ObserveImport(domain string, inserted int, duplicates int, rejected int, failed int, duration time.Duration)
}

type ImportOptions struct {
	BatchSize int
	Location  *time.Location
	Now       func() time.Time
}

type ImportResult struct {
	RunID        string
	DetectedType CSVType
	Inserted     int
	Duplicates   int
	Rejected     int
	Failed       int
	Discarded    int
	Rejections   []string
}

type rowOutcome int

const (
	rowStaged rowOutcome = iota
	rowDuplicate
	rowRejected
)

type rowDecision struct {
	outcome rowOutcome
	reason  error
}

// All imports in the process run one at a time so the check-then-insert
// dedupe cannot interleave.
var importMu sync.Mutex

type ImportService struct {
	store    ImportStore
	runs     ImportRunRepository
	events   EventLogger
	observer ImportObserver
	logger   zerolog.Logger
	options  ImportOptions
}

func NewImportService(store ImportStore, runs ImportRunRepository, events EventLogger, logger zerolog.Logger, options ImportOptions) *ImportService {
	if options.BatchSize <= 0 {
		options.BatchSize = DefaultImportBatchSize
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &ImportService{
		store:   store,
		runs:    runs,
		events:  events,
		logger:  logger.With().Str("component", "importer").Logger(),
		options: options,
	}
}

func (service *ImportService) WithObserver(observer ImportObserver) *ImportService {
	service.observer = observer
	return service
}

// ImportFile loads one CSV file into the store and reports what happened.
// It never fails outward: every problem is logged and reflected in the result.
func (service *ImportService) ImportFile(path string, domain CSVType) ImportResult {
	importMu.Lock()
	defer importMu.Unlock()

	startedAt := service.options.Now()
	result := ImportResult{RunID: uuid.NewString(), DetectedType: CSVTypeUnknown}
	logger := service.logger.With().Str("run_id", result.RunID).Str("domain", string(domain)).Str("path", path).Logger()

	info, err := os.Stat(path)
	if err != nil {
		logger.Error().Err(err).Msg("csv file not found")
		return result
	}
	if info.Size() == 0 {
		logger.Error().Msg("csv file is empty")
		return result
	}

	result.DetectedType = DetectCSVType(path)
	if result.DetectedType != CSVTypeUnknown && result.DetectedType != domain {
		logger.Warn().Str("detected", string(result.DetectedType)).Msg("possible csv type mismatch, importing anyway")
	}

	logger.Info().Msg("importing csv")
	if err := service.importRows(path, domain, &result, logger); err != nil {
		logger.Error().Err(err).Msg("csv import aborted")
	}

	logger.Info().
		Int("inserted", result.Inserted).
		Int("duplicates", result.Duplicates).
		Int("rejected", result.Rejected).
		Int("failed", result.Failed).
		Int("discarded", result.Discarded).
		Msg("csv import finished")

	service.recordRun(path, domain, result, startedAt, logger)
	return result
}

func (service *ImportService) importRows(path string, domain CSVType, result *ImportResult, logger zerolog.Logger) error {
	stage, err := service.stagerFor(domain)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	rows, err := newCSVRowReader(file)
	if err != nil {
		return err
	}

	tx, err := service.store.Begin()
	if err != nil {
		return fmt.Errorf("begin import batch: %w", err)
	}
	pending := 0

	for {
		row, line, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if line == 0 {
				service.commit(tx, &pending, result, logger)
				return fmt.Errorf("read csv: %w", err)
			}
			service.reject(result, line, err, logger)
			continue
		}

		decision, err := service.handleRow(tx, stage, row)
		if err != nil {
			result.Failed++
			logger.Error().Err(err).Int("line", line).Msg("import row failed, rolling back batch")
			service.discard(tx, &pending, result, logger)
			tx, err = service.store.Begin()
			if err != nil {
				return fmt.Errorf("begin import batch: %w", err)
			}
			continue
		}

		switch decision.outcome {
		case rowRejected:
			service.reject(result, line, decision.reason, logger)
		case rowDuplicate:
			result.Duplicates++
			logger.Debug().Int("line", line).Msg("skipping duplicate record")
		case rowStaged:
			pending++
		}

		if pending >= service.options.BatchSize {
			service.commit(tx, &pending, result, logger)
			tx, err = service.store.Begin()
			if err != nil {
				return fmt.Errorf("begin import batch: %w", err)
			}
		}
	}

	service.commit(tx, &pending, result, logger)
	return nil
}

type rowStager func(tx ImportTx, row map[string]string) (rowDecision, error)

func (service *ImportService) stagerFor(domain CSVType) (rowStager, error) {
	rowContext := RowContext{Location: service.options.Location, Now: service.options.Now}
	switch domain {
	case CSVTypeHealth:
		return func(tx ImportTx, row map[string]string) (rowDecision, error) {
			return stageRow(ParseHealthRow(row, rowContext),
				func(record models.HealthRecord) (bool, error) {
					return tx.HealthExists(record.PatientID, record.Timestamp)
				},
				tx.CreateHealth,
			)
		}, nil
	case CSVTypeSafety:
		return func(tx ImportTx, row map[string]string) (rowDecision, error) {
			return stageRow(ParseSafetyRow(row, rowContext),
				func(alert models.SafetyAlert) (bool, error) {
					return tx.SafetyExists(alert.PatientID, alert.Timestamp)
				},
				tx.CreateSafety,
			)
		}, nil
	case CSVTypeReminder:
		return func(tx ImportTx, row map[string]string) (rowDecision, error) {
			return stageRow(ParseReminderRow(row, rowContext),
				func(reminder models.Reminder) (bool, error) {
					return tx.ReminderExists(reminder.PatientID, reminder.ScheduledTime, reminder.ReminderType)
				},
				tx.CreateReminder,
			)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported import domain %q", domain)
	}
}

// stageRow returns a store error only when the current batch must be
// abandoned; rejections travel in the decision.
func stageRow[T any](result RowResult[T], exists func(T) (bool, error), create func(*T) error) (rowDecision, error) {
	if !result.Accepted() {
		return rowDecision{outcome: rowRejected, reason: result.Reason}, nil
	}
	found, err := exists(result.Record)
	if err != nil {
		return rowDecision{}, fmt.Errorf("check duplicate: %w", err)
	}
	if found {
		return rowDecision{outcome: rowDuplicate}, nil
	}
	if err := create(&result.Record); err != nil {
		return rowDecision{}, fmt.Errorf("insert record: %w", err)
	}
	return rowDecision{outcome: rowStaged}, nil
}

func (service *ImportService) handleRow(tx ImportTx, stage rowStager, row map[string]string) (decision rowDecision, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", errRowPanicked, recovered)
		}
	}()
	return stage(tx, row)
}

func (service *ImportService) reject(result *ImportResult, line int, reason error, logger zerolog.Logger) {
	result.Rejected++
	if len(result.Rejections) < maxRecordedRejections {
		result.Rejections = append(result.Rejections, fmt.Sprintf("line %d: %v", line, reason))
	}
	logger.Debug().Err(reason).Int("line", line).Msg("rejected csv row")
}

func (service *ImportService) commit(tx ImportTx, pending *int, result *ImportResult, logger zerolog.Logger) {
	if err := tx.Commit(); err != nil {
		logger.Error().Err(err).Int("pending", *pending).Msg("commit import batch failed")
		result.Discarded += *pending
		_ = tx.Rollback()
	} else {
		result.Inserted += *pending
		if *pending > 0 {
			logger.Info().Int("inserted", result.Inserted).Msg("import batch committed")
		}
	}
	*pending = 0
}

func (service *ImportService) discard(tx ImportTx, pending *int, result *ImportResult, logger zerolog.Logger) {
	if err := tx.Rollback(); err != nil {
		logger.Error().Err(err).Msg("rollback import batch failed")
	}
	result.Discarded += *pending
	*pending = 0
}

func (service *ImportService) recordRun(path string, domain CSVType, result ImportResult, startedAt time.Time, logger zerolog.Logger) {
	finishedAt := service.options.Now()
	if service.observer != nil {
		service.observer.ObserveImport(string(domain), result.Inserted, result.Duplicates, result.Rejected, result.Failed, finishedAt.Sub(startedAt))
	}

	if service.runs != nil {
		rejections, err := json.Marshal(append([]string{}, result.Rejections...))
		if err != nil {
			rejections = []byte("[]")
		}
		run := &models.ImportRun{
			RunID:        result.RunID,
			Domain:       string(domain),
			FilePath:     path,
			DetectedType: string(result.DetectedType),
			Inserted:     result.Inserted,
			Duplicates:   result.Duplicates,
			Rejected:     result.Rejected,
			Failed:       result.Failed,
			Discarded:    result.Discarded,
			Rejections:   datatypes.JSON(rejections),
			StartedAt:    startedAt,
			FinishedAt:   finishedAt,
		}
		if err := service.runs.Create(run); err != nil {
			logger.Error().Err(err).Msg("record import run failed")
		}
	}

	if service.events != nil {
		severity := models.EventSeverityInfo
		if result.Failed > 0 {
			severity = models.EventSeverityWarning
		}
		description := fmt.Sprintf(
			"Imported %d %s records from %s (%d duplicates, %d rejected, %d failed)",
			result.Inserted, domain, path, result.Duplicates, result.Rejected, result.Failed,
		)
		if err := service.events.LogEvent(importEventSource, string(domain)+"_import_completed", description, severity); err != nil {
			logger.Error().Err(err).Msg("record import event failed")
		}
	}
}

func (service *ImportService) ListRuns(limit int) ([]models.ImportRun, error) {
	if service.runs == nil {
		return []models.ImportRun{}, nil
	}
	return service.runs.ListRecent(limit)
}
