package services

import (
	"errors"
	"strings"

	"github.com/samber/lo"
	"github.com/terraincognita07/carewatch/internal/models"
)

var ErrMonitoringLoadFailed = errors.New("load monitoring data failed")

const (
	chartLabelLayout = "2006-01-02 15:04"

	dashboardHealthLimit    = 10
	dashboardSafetyLimit    = 5
	dashboardReminderLimit  = 5
	dashboardEventLimit     = 10
	safetyPageAlertLimit    = 20
	safetyPageEventLimit    = 20
	safetyEventSourcePrefix = "safety"
)

type HealthRepository interface {
	Create(record *models.HealthRecord) error
	ListByDevice(deviceID string, limit int) ([]models.HealthRecord, error)
	ListByDeviceAscending(deviceID string) ([]models.HealthRecord, error)
	FirstByDevice(deviceID string) (models.HealthRecord, bool, error)
	DistinctDeviceIDs() ([]string, error)
	CountByDevice(deviceID string) (int64, error)
	Count() (int64, error)
}

type SafetyRepository interface {
	Create(alert *models.SafetyAlert) error
	ListByDevice(deviceID string, limit int) ([]models.SafetyAlert, error)
	DistinctDeviceIDs() ([]string, error)
	CountByDevice(deviceID string) (int64, error)
	Count() (int64, error)
}

type DashboardView struct {
	DeviceID  string
	DeviceIDs []string
	Health    []models.HealthRecord
	Safety    []models.SafetyAlert
	Reminders []models.Reminder
	Events    []models.Event
}

type HealthView struct {
	DeviceID  string
	DeviceIDs []string
	Records   []models.HealthRecord
	Charts    HealthCharts
}

type SafetyView struct {
	DeviceID  string
	DeviceIDs []string
	Alerts    []models.SafetyAlert
	Events    []models.Event
}

type RemindersView struct {
	DeviceID  string
	DeviceIDs []string
	Upcoming  []models.Reminder
	Completed []models.Reminder
}

type SeriesChart struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type BloodPressureChart struct {
	Labels    []string `json:"labels"`
	Systolic  []int    `json:"systolic"`
	Diastolic []int    `json:"diastolic"`
}

type HealthCharts struct {
	HeartRate        SeriesChart        `json:"heart_rate"`
	BloodPressure    BloodPressureChart `json:"blood_pressure"`
	GlucoseLevel     SeriesChart        `json:"glucose_level"`
	OxygenSaturation SeriesChart        `json:"oxygen_saturation"`
}

type HealthRecordView struct {
	ID                     uint   `json:"id"`
	Timestamp              string `json:"timestamp"`
	HeartRate              int    `json:"heart_rate"`
	HeartRateAlert         bool   `json:"heart_rate_alert"`
	BloodPressureSystolic  int    `json:"blood_pressure_systolic"`
	BloodPressureDiastolic int    `json:"blood_pressure_diastolic"`
	BloodPressureAlert     bool   `json:"blood_pressure_alert"`
	GlucoseLevel           int    `json:"glucose_level"`
	GlucoseLevelAlert      bool   `json:"glucose_level_alert"`
	OxygenSaturation       int    `json:"oxygen_saturation"`
	OxygenSaturationAlert  bool   `json:"oxygen_saturation_alert"`
	AlertTriggered         bool   `json:"alert_triggered"`
	CaregiverNotified      bool   `json:"caregiver_notified"`
}

type MonitoringService struct {
	health    HealthRepository
	safety    SafetyRepository
	reminders ReminderRepository
	events    *EventService
}

func NewMonitoringService(health HealthRepository, safety SafetyRepository, reminders ReminderRepository, events *EventService) *MonitoringService {
	return &MonitoringService{
		health:    health,
		safety:    safety,
		reminders: reminders,
		events:    events,
	}
}

func (service *MonitoringService) Dashboard(deviceID string) (DashboardView, error) {
	deviceID = ResolveDeviceID(deviceID)
	deviceIDs, err := service.health.DistinctDeviceIDs()
	if err != nil {
		return DashboardView{}, ErrMonitoringLoadFailed
	}
	health, err := service.health.ListByDevice(deviceID, dashboardHealthLimit)
	if err != nil {
		return DashboardView{}, ErrMonitoringLoadFailed
	}
	safety, err := service.safety.ListByDevice(deviceID, dashboardSafetyLimit)
	if err != nil {
		return DashboardView{}, ErrMonitoringLoadFailed
	}
	reminders, err := service.reminders.ListByDevice(deviceID, true, dashboardReminderLimit)
	if err != nil {
		return DashboardView{}, ErrMonitoringLoadFailed
	}
	events, err := service.events.Latest(dashboardEventLimit)
	if err != nil {
		return DashboardView{}, ErrMonitoringLoadFailed
	}

	_ = service.events.LogEvent("UI", "dashboard_access", "Dashboard accessed", models.EventSeverityInfo)

	return DashboardView{
		DeviceID:  deviceID,
		DeviceIDs: DeviceOptions(deviceIDs),
		Health:    health,
		Safety:    safety,
		Reminders: reminders,
		Events:    events,
	}, nil
}

func (service *MonitoringService) HealthPage(deviceID string) (HealthView, error) {
	deviceID = ResolveDeviceID(deviceID)
	deviceIDs, err := service.health.DistinctDeviceIDs()
	if err != nil {
		return HealthView{}, ErrMonitoringLoadFailed
	}
	records, err := service.health.ListByDevice(deviceID, 0)
	if err != nil {
		return HealthView{}, ErrMonitoringLoadFailed
	}
	return HealthView{
		DeviceID:  deviceID,
		DeviceIDs: DeviceOptions(deviceIDs),
		Records:   records,
		Charts:    BuildHealthCharts(records),
	}, nil
}

func (service *MonitoringService) SafetyPage(deviceID string) (SafetyView, error) {
	deviceID = ResolveDeviceID(deviceID)
	deviceIDs, err := service.safety.DistinctDeviceIDs()
	if err != nil {
		return SafetyView{}, ErrMonitoringLoadFailed
	}
	alerts, err := service.safety.ListByDevice(deviceID, safetyPageAlertLimit)
	if err != nil {
		return SafetyView{}, ErrMonitoringLoadFailed
	}
	events, err := service.events.LatestBySourcePrefix(safetyEventSourcePrefix, safetyPageEventLimit)
	if err != nil {
		return SafetyView{}, ErrMonitoringLoadFailed
	}
	return SafetyView{
		DeviceID:  deviceID,
		DeviceIDs: DeviceOptions(deviceIDs),
		Alerts:    alerts,
		Events:    events,
	}, nil
}

func (service *MonitoringService) RemindersPage(deviceID string) (RemindersView, error) {
	deviceID = ResolveDeviceID(deviceID)
	deviceIDs, err := service.reminders.DistinctDeviceIDs()
	if err != nil {
		return RemindersView{}, ErrMonitoringLoadFailed
	}
	reminders, err := service.reminders.ListByDevice(deviceID, false, 0)
	if err != nil {
		return RemindersView{}, ErrMonitoringLoadFailed
	}
	upcoming, completed := lo.FilterReject(reminders, func(reminder models.Reminder, _ int) bool {
		return !reminder.Completed
	})
	return RemindersView{
		DeviceID:  deviceID,
		DeviceIDs: DeviceOptions(deviceIDs),
		Upcoming:  upcoming,
		Completed: completed,
	}, nil
}

// HealthData lists every record of a device in chronological order.
func (service *MonitoringService) HealthData(deviceID string) ([]HealthRecordView, error) {
	records, err := service.health.ListByDeviceAscending(ResolveDeviceID(deviceID))
	if err != nil {
		return nil, ErrMonitoringLoadFailed
	}
	return lo.Map(records, func(record models.HealthRecord, _ int) HealthRecordView {
		return HealthRecordView{
			ID:                     record.ID,
			Timestamp:              record.Timestamp.Format(eventTimestampLayout),
			HeartRate:              record.HeartRate,
			HeartRateAlert:         record.HeartRateAlert,
			BloodPressureSystolic:  record.BloodPressureSystolic,
			BloodPressureDiastolic: record.BloodPressureDiastolic,
			BloodPressureAlert:     record.BloodPressureAlert,
			GlucoseLevel:           record.GlucoseLevel,
			GlucoseLevelAlert:      record.GlucoseLevelAlert,
			OxygenSaturation:       record.OxygenSaturation,
			OxygenSaturationAlert:  record.OxygenSaturationAlert,
			AlertTriggered:         record.AlertTriggered,
			CaregiverNotified:      record.CaregiverNotified,
		}
	}), nil
}

// BuildHealthCharts expects records newest first and emits chronological series.
func BuildHealthCharts(records []models.HealthRecord) HealthCharts {
	charts := HealthCharts{
		HeartRate:        SeriesChart{Labels: []string{}, Values: []int{}},
		BloodPressure:    BloodPressureChart{Labels: []string{}, Systolic: []int{}, Diastolic: []int{}},
		GlucoseLevel:     SeriesChart{Labels: []string{}, Values: []int{}},
		OxygenSaturation: SeriesChart{Labels: []string{}, Values: []int{}},
	}
	for index := len(records) - 1; index >= 0; index-- {
		record := records[index]
		label := record.Timestamp.Format(chartLabelLayout)

		charts.HeartRate.Labels = append(charts.HeartRate.Labels, label)
		charts.HeartRate.Values = append(charts.HeartRate.Values, record.HeartRate)

		charts.BloodPressure.Labels = append(charts.BloodPressure.Labels, label)
		charts.BloodPressure.Systolic = append(charts.BloodPressure.Systolic, record.BloodPressureSystolic)
		charts.BloodPressure.Diastolic = append(charts.BloodPressure.Diastolic, record.BloodPressureDiastolic)

		charts.GlucoseLevel.Labels = append(charts.GlucoseLevel.Labels, label)
		charts.GlucoseLevel.Values = append(charts.GlucoseLevel.Values, record.GlucoseLevel)

		charts.OxygenSaturation.Labels = append(charts.OxygenSaturation.Labels, label)
		charts.OxygenSaturation.Values = append(charts.OxygenSaturation.Values, record.OxygenSaturation)
	}
	return charts
}

func ResolveDeviceID(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return models.DefaultDeviceID
}

// DeviceOptions is the device selector list, never empty.
func DeviceOptions(deviceIDs []string) []string {
	options := lo.Uniq(lo.Compact(deviceIDs))
	if len(options) == 0 {
		return []string{models.DefaultDeviceID}
	}
	return options
}
