package models

import "time"

const (
	EventSeverityInfo    = "info"
	EventSeverityWarning = "warning"
	EventSeverityError   = "error"
)

// Event is an append-only audit entry. Rows are never updated or deleted.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
	Source      string    `gorm:"size:50;not null" json:"source"`
	EventType   string    `gorm:"size:50;not null" json:"event_type"`
	Description string    `json:"description"`
	Severity    string    `gorm:"size:10;not null;default:info" json:"severity"`
}
