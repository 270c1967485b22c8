package db

import (
	"github.com/terraincognita07/carewatch/internal/models"
	"gorm.io/gorm"
)

type ImportRunRepository struct {
	database *gorm.DB
}

func NewImportRunRepository(database *gorm.DB) *ImportRunRepository {
	return &ImportRunRepository{database: database}
}

func (repo *ImportRunRepository) Create(run *models.ImportRun) error {
	return repo.database.Create(run).Error
}

func (repo *ImportRunRepository) ListRecent(limit int) ([]models.ImportRun, error) {
	runs := make([]models.ImportRun, 0)
	query := repo.database.Order("started_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
