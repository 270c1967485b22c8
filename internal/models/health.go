package models

import "time"

type HealthRecord struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Timestamp              time.Time `gorm:"index:idx_health_device_time,priority:2" json:"timestamp"`
	PatientID              string    `gorm:"size:20;not null;index:idx_health_device_time,priority:1" json:"patient_id"`
	HeartRate              int       `json:"heart_rate"`
	HeartRateAlert         bool      `gorm:"not null;default:false" json:"heart_rate_alert"`
	BloodPressureSystolic  int       `json:"blood_pressure_systolic"`
	BloodPressureDiastolic int       `json:"blood_pressure_diastolic"`
	BloodPressureAlert     bool      `gorm:"not null;default:false" json:"blood_pressure_alert"`
	GlucoseLevel           int       `json:"glucose_level"`
	GlucoseLevelAlert      bool      `gorm:"not null;default:false" json:"glucose_level_alert"`
	OxygenSaturation       int       `json:"oxygen_saturation"`
	OxygenSaturationAlert  bool      `gorm:"not null;default:false" json:"oxygen_saturation_alert"`
	AlertTriggered         bool      `gorm:"not null;default:false" json:"alert_triggered"`
	CaregiverNotified      bool      `gorm:"not null;default:false" json:"caregiver_notified"`
}

func (HealthRecord) TableName() string {
	return "health_data"
}
