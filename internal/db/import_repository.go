package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/carewatch/internal/models"
	"github.com/terraincognita07/carewatch/internal/services"
	"gorm.io/gorm"
)

var errBatchClosed = errors.New("import batch already closed")

// ImportRepository hands the ingestion pipeline one transaction per batch.
type ImportRepository struct {
	database *gorm.DB
}

func NewImportRepository(database *gorm.DB) *ImportRepository {
	return &ImportRepository{database: database}
}

func (repo *ImportRepository) Begin() (services.ImportTx, error) {
	tx := repo.database.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &importBatch{tx: tx}, nil
}

type importBatch struct {
	tx     *gorm.DB
	closed bool
}

func (batch *importBatch) HealthExists(deviceID string, timestamp time.Time) (bool, error) {
	return batch.exists(&models.HealthRecord{}, "patient_id = ? AND timestamp = ?", deviceID, timestamp)
}

func (batch *importBatch) SafetyExists(deviceID string, timestamp time.Time) (bool, error) {
	return batch.exists(&models.SafetyAlert{}, "patient_id = ? AND timestamp = ?", deviceID, timestamp)
}

func (batch *importBatch) ReminderExists(deviceID string, scheduledTime time.Time, reminderType string) (bool, error) {
	return batch.exists(&models.Reminder{}, "patient_id = ? AND scheduled_time = ? AND reminder_type = ?", deviceID, scheduledTime, reminderType)
}

func (batch *importBatch) CreateHealth(record *models.HealthRecord) error {
	return batch.create(record)
}

func (batch *importBatch) CreateSafety(alert *models.SafetyAlert) error {
	return batch.create(alert)
}

func (batch *importBatch) CreateReminder(reminder *models.Reminder) error {
	return batch.create(reminder)
}

func (batch *importBatch) Commit() error {
	if batch.closed {
		return errBatchClosed
	}
	batch.closed = true
	return batch.tx.Commit().Error
}

func (batch *importBatch) Rollback() error {
	if batch.closed {
		return nil
	}
	batch.closed = true
	return batch.tx.Rollback().Error
}

func (batch *importBatch) exists(model any, query string, args ...any) (bool, error) {
	if batch.closed {
		return false, errBatchClosed
	}
	var matched int64
	if err := batch.tx.Model(model).Where(query, args...).Limit(1).Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (batch *importBatch) create(value any) error {
	if batch.closed {
		return errBatchClosed
	}
	return batch.tx.Create(value).Error
}
