package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportRun struct {
	ID           uint           `gorm:"primaryKey" json:"-"`
	RunID        string         `gorm:"size:36;uniqueIndex;not null" json:"run_id"`
	Domain       string         `gorm:"size:20;not null" json:"domain"`
	FilePath     string         `gorm:"not null" json:"file_path"`
	DetectedType string         `gorm:"size:20;not null" json:"detected_type"`
	Inserted     int            `gorm:"not null;default:0" json:"inserted"`
	Duplicates   int            `gorm:"not null;default:0" json:"duplicates"`
	Rejected     int            `gorm:"not null;default:0" json:"rejected"`
	Failed       int            `gorm:"not null;default:0" json:"failed"`
	Discarded    int            `gorm:"not null;default:0" json:"discarded"`
	Rejections   datatypes.JSON `json:"rejections"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt   time.Time      `gorm:"not null" json:"finished_at"`
}
