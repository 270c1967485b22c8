package db

import "gorm.io/gorm"

type Repositories struct {
	Patients   *PatientRepository
	Caregivers *CaregiverRepository
	Health     *HealthRepository
	Safety     *SafetyRepository
	Reminders  *ReminderRepository
	Events     *EventRepository
	Imports    *ImportRepository
	ImportRuns *ImportRunRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Patients:   NewPatientRepository(database),
		Caregivers: NewCaregiverRepository(database),
		Health:     NewHealthRepository(database),
		Safety:     NewSafetyRepository(database),
		Reminders:  NewReminderRepository(database),
		Events:     NewEventRepository(database),
		Imports:    NewImportRepository(database),
		ImportRuns: NewImportRunRepository(database),
	}
}
