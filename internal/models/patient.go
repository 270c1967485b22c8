package models

import (
	"strings"
	"time"
)

const (
	DefaultPatientID   = "P001"
	DefaultCaregiverID = "C001"
	DefaultDeviceID    = "D1000"
)

type Patient struct {
	ID                uint   `gorm:"primaryKey"`
	PatientID         string `gorm:"size:20;uniqueIndex;not null"`
	Name              string `gorm:"size:100;not null"`
	Age               int
	Gender            string `gorm:"size:10"`
	Address           string `gorm:"size:200"`
	Phone             string `gorm:"size:20"`
	EmergencyContact  string `gorm:"size:200"`
	MedicalConditions string
	RegisteredDate    time.Time
}

type Caregiver struct {
	ID             uint   `gorm:"primaryKey"`
	CaregiverID    string `gorm:"size:20;uniqueIndex;not null"`
	Name           string `gorm:"size:100;not null"`
	Role           string `gorm:"size:50;not null"`
	Phone          string `gorm:"size:20"`
	Email          string `gorm:"size:100"`
	RegisteredDate time.Time
	Patients       []CaregiverPatient `gorm:"foreignKey:CaregiverID;references:CaregiverID"`
}

// CaregiverPatient links a caregiver to the patient identifiers they look after.
type CaregiverPatient struct {
	CaregiverID string `gorm:"primaryKey;size:20"`
	PatientID   string `gorm:"primaryKey;size:20"`
}

func (caregiver Caregiver) PatientIDs() string {
	ids := make([]string, 0, len(caregiver.Patients))
	for _, link := range caregiver.Patients {
		ids = append(ids, link.PatientID)
	}
	return strings.Join(ids, ",")
}
