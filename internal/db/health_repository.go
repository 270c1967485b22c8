package db

import (
	"errors"

	"github.com/terraincognita07/carewatch/internal/models"
	"gorm.io/gorm"
)

type HealthRepository struct {
	database *gorm.DB
}

func NewHealthRepository(database *gorm.DB) *HealthRepository {
	return &HealthRepository{database: database}
}

func (repo *HealthRepository) Create(record *models.HealthRecord) error {
	return repo.database.Create(record).Error
}

// ListByDevice returns newest records first; limit <= 0 means all.
func (repo *HealthRepository) ListByDevice(deviceID string, limit int) ([]models.HealthRecord, error) {
	records := make([]models.HealthRecord, 0)
	query := repo.database.Where("patient_id = ?", deviceID).Order("timestamp DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *HealthRepository) ListByDeviceAscending(deviceID string) ([]models.HealthRecord, error) {
	records := make([]models.HealthRecord, 0)
	if err := repo.database.Where("patient_id = ?", deviceID).Order("timestamp ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *HealthRepository) FirstByDevice(deviceID string) (models.HealthRecord, bool, error) {
	var record models.HealthRecord
	err := repo.database.Where("patient_id = ?", deviceID).Order("id ASC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.HealthRecord{}, false, nil
	}
	if err != nil {
		return models.HealthRecord{}, false, err
	}
	return record, true, nil
}

func (repo *HealthRepository) DistinctDeviceIDs() ([]string, error) {
	return distinctDeviceIDs(repo.database, &models.HealthRecord{})
}

func (repo *HealthRepository) CountByDevice(deviceID string) (int64, error) {
	return countWhere(repo.database, &models.HealthRecord{}, "patient_id = ?", deviceID)
}

func (repo *HealthRepository) Count() (int64, error) {
	return countWhere(repo.database, &models.HealthRecord{}, "1 = 1")
}

func distinctDeviceIDs(database *gorm.DB, model any) ([]string, error) {
	deviceIDs := make([]string, 0)
	if err := database.Model(model).Distinct("patient_id").Order("patient_id ASC").Pluck("patient_id", &deviceIDs).Error; err != nil {
		return nil, err
	}
	return deviceIDs, nil
}

func countWhere(database *gorm.DB, model any, query string, args ...any) (int64, error) {
	var count int64
	if err := database.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
