package models

import "time"

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const (
	ReminderTypeMedication  = "Medication"
	ReminderTypeAppointment = "Appointment"
)

type Reminder struct {
	ID                 uint      `gorm:"primaryKey"`
	Timestamp          time.Time
	PatientID          string    `gorm:"size:20;not null;index:idx_reminder_natural_key,priority:1"`
	ReminderType       string    `gorm:"size:50;not null;index:idx_reminder_natural_key,priority:3"`
	Description        string
	ScheduledTime      time.Time `gorm:"not null;index:idx_reminder_natural_key,priority:2"`
	Recurrence         *string   `gorm:"size:50"`
	Priority           string    `gorm:"size:20;not null;default:medium"`
	Completed          bool      `gorm:"not null;default:false"`
	CompletedTimestamp *time.Time
	ReminderSent       bool `gorm:"not null;default:false"`
	Acknowledged       bool `gorm:"not null;default:false"`
}

func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}
