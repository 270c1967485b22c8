package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/carewatch/internal/models"
)

const (
	columnDeviceID  = "Device-ID/User-ID"
	columnTimestamp = "Timestamp"

	columnHeartRate          = "Heart Rate"
	columnHeartRateAlert     = "Heart Rate Below/Above Threshold (Yes/No)"
	columnBloodPressure      = "Blood Pressure"
	columnBloodPressureAlert = "Blood Pressure Below/Above Threshold (Yes/No)"
	columnGlucose            = "Glucose Levels"
	columnGlucoseAlert       = "Glucose Levels Below/Above Threshold (Yes/No)"
	columnOxygen             = "Oxygen Saturation (SpO₂%)"
	columnOxygenAlert        = "SpO₂ Below Threshold (Yes/No)"
	columnAlertTriggered     = "Alert Triggered (Yes/No)"
	columnCaregiverNotified  = "Caregiver Notified (Yes/No)"

	columnMovementActivity = "Movement Activity"
	columnFallDetected     = "Fall Detected (Yes/No)"
	columnImpactForce      = "Impact Force Level"
	columnInactivity       = "Post-Fall Inactivity Duration (Seconds)"
	columnLocation         = "Location"

	columnReminderType   = "Reminder Type"
	columnScheduledTime  = "Scheduled Time"
	columnReminderSent   = "Reminder Sent (Yes/No)"
	columnAcknowledged   = "Acknowledged (Yes/No)"
	columnPriority       = "Priority"
	columnRecurrence     = "Recurrence"
	impactForceAbsent    = "-"
	unknownFieldValue    = "Unknown"
	generalReminderLabel = "General"
)

var (
	ErrHeaderRow    = errors.New("header row repeated in data")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")
)

var DefaultRequiredFields = []string{columnDeviceID, columnTimestamp}

var reminderRequiredFields = []string{columnDeviceID, columnTimestamp, columnScheduledTime}

type MissingFieldError struct {
	Field string
}

func (err *MissingFieldError) Error() string {
	return "missing required field: " + err.Field
}

func (err *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

type InvalidFieldError struct {
	Field string
	Value string
}

func (err *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", err.Value, err.Field)
}

func (err *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// RowResult carries either an accepted record or the reason the row was rejected.
type RowResult[T any] struct {
	Record T
	Reason error
}

func (result RowResult[T]) Accepted() bool {
	return result.Reason == nil
}

func rejectRow[T any](reason error) RowResult[T] {
	return RowResult[T]{Reason: reason}
}

// RowContext supplies the timezone and clock used to interpret timestamps.
type RowContext struct {
	Location *time.Location
	Now      func() time.Time
}

func (rowContext RowContext) timestamp(raw string) time.Time {
	return ParseTimestamp(raw, rowContext.Location, rowContext.Now)
}

// ValidateRow rejects repeated header rows and rows with blank required
// fields. A nil required list means the device id and timestamp.
func ValidateRow(row map[string]string, required []string) error {
	if value, ok := row[columnDeviceID]; ok && value == columnDeviceID {
		return ErrHeaderRow
	}
	if required == nil {
		required = DefaultRequiredFields
	}
	for _, field := range required {
		if strings.TrimSpace(row[field]) == "" {
			return &MissingFieldError{Field: field}
		}
	}
	return nil
}

func ParseHealthRow(row map[string]string, rowContext RowContext) RowResult[models.HealthRecord] {
	if err := ValidateRow(row, DefaultRequiredFields); err != nil {
		return rejectRow[models.HealthRecord](err)
	}

	heartRate, err := optionalInt(row, columnHeartRate)
	if err != nil {
		return rejectRow[models.HealthRecord](err)
	}
	systolic, diastolic, err := bloodPressure(row)
	if err != nil {
		return rejectRow[models.HealthRecord](err)
	}
	glucose, err := optionalInt(row, columnGlucose)
	if err != nil {
		return rejectRow[models.HealthRecord](err)
	}
	oxygen, err := optionalInt(row, columnOxygen)
	if err != nil {
		return rejectRow[models.HealthRecord](err)
	}

	return RowResult[models.HealthRecord]{Record: models.HealthRecord{
		PatientID:              strings.TrimSpace(row[columnDeviceID]),
		Timestamp:              rowContext.timestamp(row[columnTimestamp]),
		HeartRate:              heartRate,
		HeartRateAlert:         yes(row, columnHeartRateAlert),
		BloodPressureSystolic:  systolic,
		BloodPressureDiastolic: diastolic,
		BloodPressureAlert:     yes(row, columnBloodPressureAlert),
		GlucoseLevel:           glucose,
		GlucoseLevelAlert:      yes(row, columnGlucoseAlert),
		OxygenSaturation:       oxygen,
		OxygenSaturationAlert:  yes(row, columnOxygenAlert),
		AlertTriggered:         yes(row, columnAlertTriggered),
		CaregiverNotified:      yes(row, columnCaregiverNotified),
	}}
}

func ParseSafetyRow(row map[string]string, rowContext RowContext) RowResult[models.SafetyAlert] {
	if err := ValidateRow(row, DefaultRequiredFields); err != nil {
		return rejectRow[models.SafetyAlert](err)
	}

	impactForce := impactForceLevel(row[columnImpactForce])
	inactivity, err := strconv.Atoi(strings.TrimSpace(row[columnInactivity]))
	if err != nil {
		inactivity = 0
	}

	return RowResult[models.SafetyAlert]{Record: models.SafetyAlert{
		PatientID:          strings.TrimSpace(row[columnDeviceID]),
		Timestamp:          rowContext.timestamp(row[columnTimestamp]),
		MovementActivity:   valueOr(row, columnMovementActivity, unknownFieldValue),
		FallDetected:       yes(row, columnFallDetected),
		ImpactForceLevel:   impactForce,
		PostFallInactivity: inactivity,
		Location:           valueOr(row, columnLocation, unknownFieldValue),
		AlertTriggered:     yes(row, columnAlertTriggered),
		CaregiverNotified:  yes(row, columnCaregiverNotified),
		Severity:           SeverityForImpact(impactForce),
		Resolved:           false,
	}}
}

func ParseReminderRow(row map[string]string, rowContext RowContext) RowResult[models.Reminder] {
	if err := ValidateRow(row, reminderRequiredFields); err != nil {
		return rejectRow[models.Reminder](err)
	}

	timestamp := rowContext.timestamp(row[columnTimestamp])
	scheduled, ok := CombineDateAndClock(timestamp, row[columnScheduledTime])
	if !ok {
		return rejectRow[models.Reminder](&InvalidFieldError{Field: columnScheduledTime, Value: row[columnScheduledTime]})
	}

	reminderType := valueOr(row, columnReminderType, unknownFieldValue)
	priority := strings.ToLower(strings.TrimSpace(row[columnPriority]))
	if !models.IsValidPriority(priority) {
		priority = PriorityForReminderType(reminderType)
	}

	var recurrence *string
	if value := strings.TrimSpace(row[columnRecurrence]); value != "" {
		recurrence = &value
	}

	return RowResult[models.Reminder]{Record: models.Reminder{
		PatientID:     strings.TrimSpace(row[columnDeviceID]),
		Timestamp:     timestamp,
		ReminderType:  reminderType,
		Description:   valueOr(row, columnReminderType, generalReminderLabel) + " reminder",
		ScheduledTime: scheduled,
		Recurrence:    recurrence,
		Priority:      priority,
		Completed:     false,
		ReminderSent:  yes(row, columnReminderSent),
		Acknowledged:  yes(row, columnAcknowledged),
	}}
}

// SeverityForImpact maps High/Medium/Low impact to critical/warning/info.
// Anything else, including no impact, has no severity.
func SeverityForImpact(impactForce *string) *string {
	if impactForce == nil {
		return nil
	}
	var severity string
	switch *impactForce {
	case models.ImpactForceHigh:
		severity = models.SeverityCritical
	case models.ImpactForceMedium:
		severity = models.SeverityWarning
	case models.ImpactForceLow:
		severity = models.SeverityInfo
	default:
		return nil
	}
	return &severity
}

func PriorityForReminderType(reminderType string) string {
	switch reminderType {
	case models.ReminderTypeMedication:
		return models.PriorityHigh
	case models.ReminderTypeAppointment:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func impactForceLevel(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" || value == impactForceAbsent {
		return nil
	}
	return &value
}

func bloodPressure(row map[string]string) (int, int, error) {
	raw := strings.TrimSpace(row[columnBloodPressure])
	if raw == "" {
		return 0, 0, nil
	}

	parts := strings.Split(raw, "/")
	systolic, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, &InvalidFieldError{Field: columnBloodPressure, Value: raw}
	}
	if len(parts) < 2 {
		return systolic, 0, nil
	}

	fields := strings.Fields(parts[1])
	if len(fields) == 0 {
		return 0, 0, &InvalidFieldError{Field: columnBloodPressure, Value: raw}
	}
	diastolic, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, &InvalidFieldError{Field: columnBloodPressure, Value: raw}
	}
	return systolic, diastolic, nil
}

func optionalInt(row map[string]string, column string) (int, error) {
	raw := strings.TrimSpace(row[column])
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidFieldError{Field: column, Value: raw}
	}
	return value, nil
}

func valueOr(row map[string]string, column string, fallback string) string {
	if value := strings.TrimSpace(row[column]); value != "" {
		return value
	}
	return fallback
}

func yes(row map[string]string, column string) bool {
	return row[column] == "Yes"
}
