package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/carewatch/internal/models"
)

type monitoringFixture struct {
	health    *memHealthRepo
	safety    *memSafetyRepo
	reminders *memReminderRepo
	events    *memEventRepo
	service   *MonitoringService
}

func newMonitoringFixture(now time.Time) monitoringFixture {
	fixture := monitoringFixture{
		health:    &memHealthRepo{},
		safety:    &memSafetyRepo{},
		reminders: &memReminderRepo{},
		events:    &memEventRepo{},
	}
	fixture.service = NewMonitoringService(fixture.health, fixture.safety, fixture.reminders, newTestEventService(fixture.events, now))
	return fixture
}

func TestBuildHealthChartsIsChronological(t *testing.T) {
	newestFirst := []models.HealthRecord{
		{Timestamp: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC), HeartRate: 90, BloodPressureSystolic: 140, BloodPressureDiastolic: 90, GlucoseLevel: 150, OxygenSaturation: 93},
		{Timestamp: time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC), HeartRate: 70, BloodPressureSystolic: 120, BloodPressureDiastolic: 80, GlucoseLevel: 100, OxygenSaturation: 98},
	}

	charts := BuildHealthCharts(newestFirst)
	assert.Equal(t, []string{"2025-01-15 08:00", "2025-01-15 10:00"}, charts.HeartRate.Labels)
	assert.Equal(t, []int{70, 90}, charts.HeartRate.Values)
	assert.Equal(t, []int{120, 140}, charts.BloodPressure.Systolic)
	assert.Equal(t, []int{80, 90}, charts.BloodPressure.Diastolic)
	assert.Equal(t, []int{100, 150}, charts.GlucoseLevel.Values)
	assert.Equal(t, []int{98, 93}, charts.OxygenSaturation.Values)

	empty := BuildHealthCharts(nil)
	assert.NotNil(t, empty.HeartRate.Labels)
	assert.Empty(t, empty.HeartRate.Values)
}

func TestDeviceOptions(t *testing.T) {
	assert.Equal(t, []string{models.DefaultDeviceID}, DeviceOptions(nil))
	assert.Equal(t, []string{models.DefaultDeviceID}, DeviceOptions([]string{""}))
	assert.Equal(t, []string{"D2000", "D1000"}, DeviceOptions([]string{"D2000", "D1000", "D2000", ""}))
}

func TestResolveDeviceID(t *testing.T) {
	assert.Equal(t, models.DefaultDeviceID, ResolveDeviceID("  "))
	assert.Equal(t, "D3000", ResolveDeviceID(" D3000 "))
}

func TestDashboardCollectsLatestDataAndLogsAccess(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	fixture := newMonitoringFixture(now)
	for hour := 0; hour < 12; hour++ {
		require.NoError(t, fixture.health.Create(&models.HealthRecord{PatientID: "D1000", Timestamp: now.Add(-time.Duration(hour) * time.Hour), HeartRate: 60 + hour}))
	}
	require.NoError(t, fixture.health.Create(&models.HealthRecord{PatientID: "D2000", Timestamp: now}))
	require.NoError(t, fixture.reminders.Create(&models.Reminder{PatientID: "D1000", ScheduledTime: now.Add(time.Hour)}))
	require.NoError(t, fixture.reminders.Create(&models.Reminder{PatientID: "D1000", ScheduledTime: now.Add(2 * time.Hour), Completed: true}))

	view, err := fixture.service.Dashboard("")
	require.NoError(t, err)
	assert.Equal(t, "D1000", view.DeviceID)
	assert.Equal(t, []string{"D1000", "D2000"}, view.DeviceIDs)
	require.Len(t, view.Health, 10)
	assert.Equal(t, 60, view.Health[0].HeartRate)
	assert.Len(t, view.Reminders, 1)

	require.Len(t, fixture.events.events, 1)
	assert.Equal(t, "UI", fixture.events.events[0].Source)
	assert.Equal(t, "dashboard_access", fixture.events.events[0].EventType)
}

func TestSafetyPageListsSafetyEventsOnly(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	fixture := newMonitoringFixture(now)
	require.NoError(t, fixture.safety.Create(&models.SafetyAlert{PatientID: "D3000", Timestamp: now}))
	require.NoError(t, fixture.events.Create(eventAt(now, "safety_agent", "check")))
	require.NoError(t, fixture.events.Create(eventAt(now, "health_agent", "check")))

	view, err := fixture.service.SafetyPage("D3000")
	require.NoError(t, err)
	assert.Equal(t, []string{"D3000"}, view.DeviceIDs)
	assert.Len(t, view.Alerts, 1)
	require.Len(t, view.Events, 1)
	assert.Equal(t, "safety_agent", view.Events[0].Source)
}

func TestRemindersPageSplitsUpcomingAndCompleted(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	fixture := newMonitoringFixture(now)
	require.NoError(t, fixture.reminders.Create(&models.Reminder{PatientID: "D1000", ScheduledTime: now.Add(time.Hour), Description: "open"}))
	require.NoError(t, fixture.reminders.Create(&models.Reminder{PatientID: "D1000", ScheduledTime: now.Add(-time.Hour), Description: "done", Completed: true}))

	view, err := fixture.service.RemindersPage("D1000")
	require.NoError(t, err)
	require.Len(t, view.Upcoming, 1)
	require.Len(t, view.Completed, 1)
	assert.Equal(t, "open", view.Upcoming[0].Description)
	assert.Equal(t, "done", view.Completed[0].Description)
}

func TestHealthDataIsAscending(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	fixture := newMonitoringFixture(now)
	require.NoError(t, fixture.health.Create(&models.HealthRecord{PatientID: "D1000", Timestamp: now, HeartRate: 80}))
	require.NoError(t, fixture.health.Create(&models.HealthRecord{PatientID: "D1000", Timestamp: now.Add(-time.Hour), HeartRate: 70, HeartRateAlert: true}))

	records, err := fixture.service.HealthData("D1000")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-01 11:00:00", records[0].Timestamp)
	assert.True(t, records[0].HeartRateAlert)
	assert.Equal(t, 80, records[1].HeartRate)

	page, err := fixture.service.HealthPage("D1000")
	require.NoError(t, err)
	assert.Equal(t, []int{70, 80}, page.Charts.HeartRate.Values)
}
