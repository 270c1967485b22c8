package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/carewatch/internal/models"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

func (repo *ReminderRepository) Create(reminder *models.Reminder) error {
	return repo.database.Create(reminder).Error
}

func (repo *ReminderRepository) FindByID(reminderID uint) (models.Reminder, bool, error) {
	var reminder models.Reminder
	err := repo.database.First(&reminder, reminderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Reminder{}, false, nil
	}
	if err != nil {
		return models.Reminder{}, false, err
	}
	return reminder, true, nil
}

func (repo *ReminderRepository) MarkCompleted(reminderID uint, completedAt time.Time) error {
	return repo.database.Model(&models.Reminder{}).Where("id = ?", reminderID).Updates(map[string]any{
		"completed":           true,
		"completed_timestamp": completedAt,
	}).Error
}

// ListByDevice orders by scheduled time, soonest first.
func (repo *ReminderRepository) ListByDevice(deviceID string, openOnly bool, limit int) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	query := repo.database.Where("patient_id = ?", deviceID)
	if openOnly {
		query = query.Where("completed = ?", false)
	}
	query = query.Order("scheduled_time ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) DistinctDeviceIDs() ([]string, error) {
	return distinctDeviceIDs(repo.database, &models.Reminder{})
}

func (repo *ReminderRepository) CountByDevice(deviceID string) (int64, error) {
	return countWhere(repo.database, &models.Reminder{}, "patient_id = ?", deviceID)
}

func (repo *ReminderRepository) Count() (int64, error) {
	return countWhere(repo.database, &models.Reminder{}, "1 = 1")
}
