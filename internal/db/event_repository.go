package db

import (
	"github.com/terraincognita07/carewatch/internal/models"
	"github.com/terraincognita07/carewatch/internal/services"
	"gorm.io/gorm"
)

// EventRepository only appends and reads; events are never changed.
type EventRepository struct {
	database *gorm.DB
}

func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{database: database}
}

func (repo *EventRepository) Create(event *models.Event) error {
	return repo.database.Create(event).Error
}

func (repo *EventRepository) List(filter services.EventFilter) ([]models.Event, error) {
	query := repo.database.Model(&models.Event{})
	if filter.Since != nil {
		query = query.Where("timestamp >= ?", *filter.Since)
	}
	if filter.Source != "" {
		query = query.Where("source LIKE ?", "%"+filter.Source+"%")
	}
	if filter.SourcePrefix != "" {
		query = query.Where("source LIKE ?", filter.SourcePrefix+"%")
	}
	if filter.EventType != "" {
		query = query.Where("event_type LIKE ?", "%"+filter.EventType+"%")
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	query = query.Order("timestamp DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	events := make([]models.Event, 0)
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
