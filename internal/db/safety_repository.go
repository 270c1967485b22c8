package db

import (
	"github.com/terraincognita07/carewatch/internal/models"
	"gorm.io/gorm"
)

type SafetyRepository struct {
	database *gorm.DB
}

func NewSafetyRepository(database *gorm.DB) *SafetyRepository {
	return &SafetyRepository{database: database}
}

func (repo *SafetyRepository) Create(alert *models.SafetyAlert) error {
	return repo.database.Create(alert).Error
}

func (repo *SafetyRepository) ListByDevice(deviceID string, limit int) ([]models.SafetyAlert, error) {
	alerts := make([]models.SafetyAlert, 0)
	query := repo.database.Where("patient_id = ?", deviceID).Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (repo *SafetyRepository) DistinctDeviceIDs() ([]string, error) {
	return distinctDeviceIDs(repo.database, &models.SafetyAlert{})
}

func (repo *SafetyRepository) CountByDevice(deviceID string) (int64, error) {
	return countWhere(repo.database, &models.SafetyAlert{}, "patient_id = ?", deviceID)
}

func (repo *SafetyRepository) Count() (int64, error) {
	return countWhere(repo.database, &models.SafetyAlert{}, "1 = 1")
}
