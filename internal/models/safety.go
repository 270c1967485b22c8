package models

import "time"

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

const (
	ImpactForceHigh   = "High"
	ImpactForceMedium = "Medium"
	ImpactForceLow    = "Low"
)

type SafetyAlert struct {
	ID                 uint       `gorm:"primaryKey"`
	Timestamp          time.Time  `gorm:"index:idx_safety_device_time,priority:2"`
	PatientID          string     `gorm:"size:20;not null;index:idx_safety_device_time,priority:1"`
	MovementActivity   string     `gorm:"size:50"`
	FallDetected       bool       `gorm:"not null;default:false"`
	ImpactForceLevel   *string    `gorm:"size:20"`
	PostFallInactivity int        // seconds
	Location           string     `gorm:"size:50"`
	AlertTriggered     bool       `gorm:"not null;default:false"`
	CaregiverNotified  bool       `gorm:"not null;default:false"`
	Severity           *string    `gorm:"size:20"`
	Resolved           bool       `gorm:"not null;default:false"`
	ResolvedTimestamp  *time.Time
}

// SeverityLabel returns the severity for display, "none" when the alert has no severity.
func (alert SafetyAlert) SeverityLabel() string {
	if alert.Severity == nil || *alert.Severity == "" {
		return "none"
	}
	return *alert.Severity
}

func (alert SafetyAlert) ImpactForceLabel() string {
	if alert.ImpactForceLevel == nil {
		return "-"
	}
	return *alert.ImpactForceLevel
}
