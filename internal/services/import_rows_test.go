package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/carewatch/internal/models"
)

var testRowContext = RowContext{
	Location: time.UTC,
	Now:      fixedClock(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
}

func TestValidateRow(t *testing.T) {
	assert.NoError(t, ValidateRow(map[string]string{columnDeviceID: "D1000", columnTimestamp: "1/1/2025 00:00"}, nil))

	err := ValidateRow(map[string]string{columnDeviceID: columnDeviceID, columnTimestamp: columnTimestamp}, nil)
	assert.ErrorIs(t, err, ErrHeaderRow)

	err = ValidateRow(map[string]string{columnDeviceID: "D1000", columnTimestamp: "   "}, nil)
	assert.ErrorIs(t, err, ErrMissingField)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, columnTimestamp, missing.Field)

	err = ValidateRow(map[string]string{columnDeviceID: "D1000", columnTimestamp: "1/1/2025 00:00"}, reminderRequiredFields)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestParseHealthRow(t *testing.T) {
	row := map[string]string{
		columnDeviceID:           " D1000 ",
		columnTimestamp:          "1/15/2025 08:30",
		columnHeartRate:          "88",
		columnHeartRateAlert:     "Yes",
		columnBloodPressure:      "135/88 mmHg",
		columnBloodPressureAlert: "yes",
		columnGlucose:            "",
		columnOxygen:             "95",
		columnAlertTriggered:     "Yes",
	}

	result := ParseHealthRow(row, testRowContext)
	require.True(t, result.Accepted())
	record := result.Record
	assert.Equal(t, "D1000", record.PatientID)
	assert.Equal(t, time.Date(2025, time.January, 15, 8, 30, 0, 0, time.UTC), record.Timestamp)
	assert.Equal(t, 88, record.HeartRate)
	assert.True(t, record.HeartRateAlert)
	assert.Equal(t, 135, record.BloodPressureSystolic)
	assert.Equal(t, 88, record.BloodPressureDiastolic)
	assert.False(t, record.BloodPressureAlert, "only an exact Yes counts")
	assert.Zero(t, record.GlucoseLevel)
	assert.Equal(t, 95, record.OxygenSaturation)
	assert.True(t, record.AlertTriggered)
	assert.False(t, record.CaregiverNotified)
}

func TestParseHealthRowBloodPressureShapes(t *testing.T) {
	tests := []struct {
		raw       string
		systolic  int
		diastolic int
		rejected  bool
	}{
		{raw: "120/80", systolic: 120, diastolic: 80},
		{raw: "120 / 80 mmHg", systolic: 120, diastolic: 80},
		{raw: "120", systolic: 120},
		{raw: "", systolic: 0},
		{raw: "high", rejected: true},
		{raw: "120/", rejected: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			result := ParseHealthRow(map[string]string{
				columnDeviceID:      "D1000",
				columnTimestamp:     "1/15/2025 08:30",
				columnBloodPressure: tt.raw,
			}, testRowContext)
			if tt.rejected {
				assert.ErrorIs(t, result.Reason, ErrInvalidField)
				return
			}
			require.True(t, result.Accepted())
			assert.Equal(t, tt.systolic, result.Record.BloodPressureSystolic)
			assert.Equal(t, tt.diastolic, result.Record.BloodPressureDiastolic)
		})
	}
}

func TestParseSafetyRow(t *testing.T) {
	tests := []struct {
		name       string
		impact     string
		inactivity string
		severity   *string
	}{
		{name: "high impact", impact: "High", inactivity: "300", severity: strPtr(models.SeverityCritical)},
		{name: "medium impact", impact: "Medium", inactivity: "60", severity: strPtr(models.SeverityWarning)},
		{name: "low impact", impact: "Low", inactivity: "0", severity: strPtr(models.SeverityInfo)},
		{name: "no impact", impact: "-", inactivity: "abc"},
		{name: "blank impact", impact: "", inactivity: ""},
		{name: "unknown impact", impact: "Severe", inactivity: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseSafetyRow(map[string]string{
				columnDeviceID:     "D1000",
				columnTimestamp:    "1/15/2025 08:30",
				columnFallDetected: "Yes",
				columnImpactForce:  tt.impact,
				columnInactivity:   tt.inactivity,
			}, testRowContext)
			require.True(t, result.Accepted())
			alert := result.Record
			assert.True(t, alert.FallDetected)
			assert.Equal(t, "Unknown", alert.MovementActivity)
			assert.Equal(t, "Unknown", alert.Location)
			assert.False(t, alert.Resolved)
			assert.Equal(t, tt.severity, alert.Severity)
			if tt.impact == "" || tt.impact == "-" {
				assert.Nil(t, alert.ImpactForceLevel)
			}
		})
	}
}

func TestParseReminderRow(t *testing.T) {
	row := map[string]string{
		columnDeviceID:      "D1000",
		columnTimestamp:     "1/15/2025 07:00",
		columnReminderType:  "Appointment",
		columnScheduledTime: "14:30",
		columnReminderSent:  "Yes",
	}

	result := ParseReminderRow(row, testRowContext)
	require.True(t, result.Accepted())
	reminder := result.Record
	assert.Equal(t, time.Date(2025, time.January, 15, 14, 30, 0, 0, time.UTC), reminder.ScheduledTime)
	assert.Equal(t, "Appointment reminder", reminder.Description)
	assert.Equal(t, models.PriorityMedium, reminder.Priority)
	assert.Nil(t, reminder.Recurrence)
	assert.True(t, reminder.ReminderSent)
	assert.False(t, reminder.Acknowledged)
	assert.False(t, reminder.Completed)
}

func TestParseReminderRowOptionalColumns(t *testing.T) {
	row := map[string]string{
		columnDeviceID:      "D1000",
		columnTimestamp:     "1/15/2025 07:00",
		columnReminderType:  "Exercise",
		columnScheduledTime: "06:00:00",
		columnPriority:      " HIGH ",
		columnRecurrence:    "daily",
	}

	result := ParseReminderRow(row, testRowContext)
	require.True(t, result.Accepted())
	assert.Equal(t, models.PriorityHigh, result.Record.Priority)
	require.NotNil(t, result.Record.Recurrence)
	assert.Equal(t, "daily", *result.Record.Recurrence)

	row[columnPriority] = "urgent"
	assert.Equal(t, models.PriorityLow, ParseReminderRow(row, testRowContext).Record.Priority)

	row[columnScheduledTime] = "noon"
	assert.ErrorIs(t, ParseReminderRow(row, testRowContext).Reason, ErrInvalidField)
}

func TestParseReminderRowBlankTypeAndPaddedDevice(t *testing.T) {
	row := map[string]string{
		columnDeviceID:      "  D2000 ",
		columnTimestamp:     "1/15/2025 07:00",
		columnReminderType:  " ",
		columnScheduledTime: "08:00",
	}

	result := ParseReminderRow(row, testRowContext)
	require.True(t, result.Accepted())
	assert.Equal(t, "D2000", result.Record.PatientID)
	assert.Equal(t, "Unknown", result.Record.ReminderType)
	assert.Equal(t, "General reminder", result.Record.Description)
	assert.Equal(t, models.PriorityLow, result.Record.Priority)
}

func TestPriorityForReminderType(t *testing.T) {
	assert.Equal(t, models.PriorityHigh, PriorityForReminderType("Medication"))
	assert.Equal(t, models.PriorityMedium, PriorityForReminderType("Appointment"))
	assert.Equal(t, models.PriorityLow, PriorityForReminderType("Hydration"))
}

func TestCSVRowReaderDropsBlankHeaderColumns(t *testing.T) {
	rows, err := newCSVRowReader(strings.NewReader("Device-ID/User-ID,,Timestamp\nD1000,ignored,1/15/2025 08:00\nD2000\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Device-ID/User-ID", "Timestamp"}, rows.Header())

	row, line, err := rows.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, line)
	assert.Equal(t, map[string]string{"Device-ID/User-ID": "D1000", "Timestamp": "1/15/2025 08:00"}, row)

	row, line, err = rows.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, line)
	assert.Equal(t, "", row["Timestamp"])
}

func TestCSVRowReaderRejectsEmptyHeader(t *testing.T) {
	_, err := newCSVRowReader(strings.NewReader(""))
	assert.ErrorIs(t, err, errEmptyHeader)

	_, err = newCSVRowReader(strings.NewReader(" , \n1,2\n"))
	assert.ErrorIs(t, err, errEmptyHeader)
}

func strPtr(value string) *string {
	return &value
}
