package services

import (
	"errors"
	"sort"

	"github.com/terraincognita07/carewatch/internal/models"
)

var ErrDeviceReportFailed = errors.New("build device report failed")

type DeviceHealthSummary struct {
	DeviceID string
	Record   models.HealthRecord
}

type DeviceReport struct {
	Patients          []models.Patient
	HealthDeviceIDs   []string
	SafetyDeviceIDs   []string
	ReminderDeviceIDs []string
	HealthTotal       int64
	SafetyTotal       int64
	ReminderTotal     int64
	FirstReadings     []DeviceHealthSummary
}

type DemoDeviceStatus struct {
	DeviceID    string
	HasHealth   bool
	HasSafety   bool
	HasReminder bool
	Health      *models.HealthRecord
}

type DeviceService struct {
	patients  PatientRepository
	health    HealthRepository
	safety    SafetyRepository
	reminders ReminderRepository
}

func NewDeviceService(patients PatientRepository, health HealthRepository, safety SafetyRepository, reminders ReminderRepository) *DeviceService {
	return &DeviceService{
		patients:  patients,
		health:    health,
		safety:    safety,
		reminders: reminders,
	}
}

func (service *DeviceService) Report() (DeviceReport, error) {
	var report DeviceReport
	var err error

	if report.Patients, err = service.patients.List(); err != nil {
		return DeviceReport{}, ErrDeviceReportFailed
	}
	if report.HealthDeviceIDs, err = service.health.DistinctDeviceIDs(); err != nil {
		return DeviceReport{}, ErrDeviceReportFailed
	}
	if report.SafetyDeviceIDs, err = service.safety.DistinctDeviceIDs(); err != nil {
		return DeviceReport{}, ErrDeviceReportFailed
	}
	if report.ReminderDeviceIDs, err = service.reminders.DistinctDeviceIDs(); err != nil {
		return DeviceReport{}, ErrDeviceReportFailed
	}
	if report.HealthTotal, err = service.health.Count(); err != nil {
		return DeviceReport{}, ErrDeviceReportFailed
	}
	if report.SafetyTotal, err = service.safety.Count(); err != nil {
		return DeviceReport{}, ErrDeviceReportFailed
	}
	if report.ReminderTotal, err = service.reminders.Count(); err != nil {
		return DeviceReport{}, ErrDeviceReportFailed
	}

	sort.Strings(report.HealthDeviceIDs)
	sort.Strings(report.SafetyDeviceIDs)
	sort.Strings(report.ReminderDeviceIDs)

	for _, deviceID := range report.HealthDeviceIDs {
		record, found, err := service.health.FirstByDevice(deviceID)
		if err != nil {
			return DeviceReport{}, ErrDeviceReportFailed
		}
		if found {
			report.FirstReadings = append(report.FirstReadings, DeviceHealthSummary{DeviceID: deviceID, Record: record})
		}
	}
	return report, nil
}

// DemoStatus reports which record kinds exist for the demo devices.
func (service *DeviceService) DemoStatus() ([]DemoDeviceStatus, error) {
	statuses := make([]DemoDeviceStatus, 0, len(DemoDeviceIDs))
	for _, deviceID := range DemoDeviceIDs {
		status := DemoDeviceStatus{DeviceID: deviceID}

		record, found, err := service.health.FirstByDevice(deviceID)
		if err != nil {
			return nil, ErrDeviceReportFailed
		}
		if found {
			status.HasHealth = true
			status.Health = &record
		}

		safetyCount, err := service.safety.CountByDevice(deviceID)
		if err != nil {
			return nil, ErrDeviceReportFailed
		}
		reminderCount, err := service.reminders.CountByDevice(deviceID)
		if err != nil {
			return nil, ErrDeviceReportFailed
		}
		status.HasSafety = safetyCount > 0
		status.HasReminder = reminderCount > 0

		statuses = append(statuses, status)
	}
	return statuses, nil
}
