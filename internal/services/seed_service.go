package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/carewatch/internal/models"
)

var ErrSeedFailed = errors.New("seed baseline data failed")

type PatientRepository interface {
	FindByPatientID(patientID string) (models.Patient, bool, error)
	Create(patient *models.Patient) error
	List() ([]models.Patient, error)
}

type CaregiverRepository interface {
	FindByCaregiverID(caregiverID string) (models.Caregiver, bool, error)
	CreateWithPatients(caregiver *models.Caregiver, patientIDs []string) error
}

var DemoDeviceIDs = []string{"D2000", "D3000"}

type demoDevice struct {
	health   models.HealthRecord
	safety   models.SafetyAlert
	reminder models.Reminder
}

type SeedService struct {
	patients   PatientRepository
	caregivers CaregiverRepository
	health     HealthRepository
	safety     SafetyRepository
	reminders  ReminderRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewSeedService(
	patients PatientRepository,
	caregivers CaregiverRepository,
	health HealthRepository,
	safety SafetyRepository,
	reminders ReminderRepository,
	logger zerolog.Logger,
	now func() time.Time,
) *SeedService {
	if now == nil {
		now = time.Now
	}
	return &SeedService{
		patients:   patients,
		caregivers: caregivers,
		health:     health,
		safety:     safety,
		reminders:  reminders,
		logger:     logger.With().Str("component", "seed").Logger(),
		now:        now,
	}
}

// EnsureBaseline creates the sample patient and caregiver when absent.
func (service *SeedService) EnsureBaseline() error {
	_, found, err := service.patients.FindByPatientID(models.DefaultPatientID)
	if err != nil {
		return fmt.Errorf("%w: find patient: %v", ErrSeedFailed, err)
	}
	if !found {
		service.logger.Info().Str("patient_id", models.DefaultPatientID).Msg("creating sample patient")
		patient := &models.Patient{
			PatientID:         models.DefaultPatientID,
			Name:              "John Smith",
			Age:               78,
			Gender:            "Male",
			Address:           "123 Elder St, Caretown",
			Phone:             "555-123-4567",
			EmergencyContact:  "Mary Smith (Daughter): 555-987-6543",
			MedicalConditions: "Hypertension, Type 2 Diabetes, Mild Arthritis",
			RegisteredDate:    service.now(),
		}
		if err := service.patients.Create(patient); err != nil {
			return fmt.Errorf("%w: create patient: %v", ErrSeedFailed, err)
		}
	}

	_, found, err = service.caregivers.FindByCaregiverID(models.DefaultCaregiverID)
	if err != nil {
		return fmt.Errorf("%w: find caregiver: %v", ErrSeedFailed, err)
	}
	if !found {
		service.logger.Info().Str("caregiver_id", models.DefaultCaregiverID).Msg("creating sample caregiver")
		caregiver := &models.Caregiver{
			CaregiverID:    models.DefaultCaregiverID,
			Name:           "Jane Morgan",
			Role:           "Primary Nurse",
			Phone:          "555-765-4321",
			Email:          "jane.morgan@careservices.com",
			RegisteredDate: service.now(),
		}
		if err := service.caregivers.CreateWithPatients(caregiver, []string{"P001", "P002", "P003"}); err != nil {
			return fmt.Errorf("%w: create caregiver: %v", ErrSeedFailed, err)
		}
	}
	return nil
}

// EnsureDemoDevices gives D2000 and D3000 one record of each kind unless the
// device already has records of that kind. It returns how many were created.
func (service *SeedService) EnsureDemoDevices() (int, error) {
	created := 0
	for _, deviceID := range DemoDeviceIDs {
		device := service.demoDevice(deviceID)

		count, err := service.health.CountByDevice(deviceID)
		if err != nil {
			return created, fmt.Errorf("%w: count health: %v", ErrSeedFailed, err)
		}
		if count == 0 {
			service.logger.Info().Str("device_id", deviceID).Msg("creating sample health data")
			if err := service.health.Create(&device.health); err != nil {
				return created, fmt.Errorf("%w: create health: %v", ErrSeedFailed, err)
			}
			created++
		}

		count, err = service.safety.CountByDevice(deviceID)
		if err != nil {
			return created, fmt.Errorf("%w: count safety: %v", ErrSeedFailed, err)
		}
		if count == 0 {
			service.logger.Info().Str("device_id", deviceID).Msg("creating sample safety data")
			if err := service.safety.Create(&device.safety); err != nil {
				return created, fmt.Errorf("%w: create safety: %v", ErrSeedFailed, err)
			}
			created++
		}

		count, err = service.reminders.CountByDevice(deviceID)
		if err != nil {
			return created, fmt.Errorf("%w: count reminders: %v", ErrSeedFailed, err)
		}
		if count == 0 {
			service.logger.Info().Str("device_id", deviceID).Msg("creating sample reminder")
			if err := service.reminders.Create(&device.reminder); err != nil {
				return created, fmt.Errorf("%w: create reminder: %v", ErrSeedFailed, err)
			}
			created++
		}
	}
	return created, nil
}

func (service *SeedService) demoDevice(deviceID string) demoDevice {
	now := service.now().Truncate(time.Second)
	stable := deviceID == DemoDeviceIDs[0]

	health := models.HealthRecord{
		PatientID:              deviceID,
		Timestamp:              now.AddDate(0, 0, -1),
		HeartRate:              pick(stable, 75, 82),
		BloodPressureSystolic:  pick(stable, 125, 145),
		BloodPressureDiastolic: pick(stable, 85, 90),
		BloodPressureAlert:     !stable,
		GlucoseLevel:           pick(stable, 110, 130),
		OxygenSaturation:       pick(stable, 97, 94),
		AlertTriggered:         !stable,
		CaregiverNotified:      !stable,
	}

	impact := pick(stable, models.ImpactForceLow, "Moderate")
	severity := pick(stable, models.SeverityInfo, models.SeverityWarning)
	safety := models.SafetyAlert{
		PatientID:          deviceID,
		Timestamp:          now.AddDate(0, 0, -2),
		MovementActivity:   pick(stable, "Normal", "Abnormal"),
		FallDetected:       !stable,
		ImpactForceLevel:   &impact,
		PostFallInactivity: pick(stable, 0, 120),
		Location:           "Living Room",
		AlertTriggered:     !stable,
		CaregiverNotified:  !stable,
		Severity:           &severity,
		Resolved:           stable,
	}
	if stable {
		safety.ResolvedTimestamp = &safety.Timestamp
	}

	recurrence := pick(stable, "daily", "weekly")
	reminder := models.Reminder{
		PatientID:     deviceID,
		Timestamp:     now,
		ReminderType:  pick(stable, models.ReminderTypeMedication, models.ReminderTypeAppointment),
		Description:   pick(stable, "Take blood pressure medication", "Doctor appointment"),
		ScheduledTime: now.Add(3 * time.Hour),
		Recurrence:    &recurrence,
		Priority:      pick(stable, models.PriorityHigh, models.PriorityMedium),
	}

	return demoDevice{health: health, safety: safety, reminder: reminder}
}

func pick[T any](first bool, a T, b T) T {
	if first {
		return a
	}
	return b
}
