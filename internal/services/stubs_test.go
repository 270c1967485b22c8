package services

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/carewatch/internal/models"
)

var errStubStore = errors.New("stub store failure")

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func writeCSV(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

type memEventRepo struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (repo *memEventRepo) Create(event *models.Event) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return repo.err
	}
	event.ID = uint(len(repo.events) + 1)
	repo.events = append(repo.events, *event)
	return nil
}

func (repo *memEventRepo) List(filter EventFilter) ([]models.Event, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]models.Event, 0, len(repo.events))
	for index := len(repo.events) - 1; index >= 0; index-- {
		event := repo.events[index]
		if filter.Since != nil && event.Timestamp.Before(*filter.Since) {
			continue
		}
		if filter.Source != "" && !strings.Contains(event.Source, filter.Source) {
			continue
		}
		if filter.SourcePrefix != "" && !strings.HasPrefix(event.Source, filter.SourcePrefix) {
			continue
		}
		if filter.EventType != "" && !strings.Contains(event.EventType, filter.EventType) {
			continue
		}
		if filter.Severity != "" && event.Severity != filter.Severity {
			continue
		}
		matched = append(matched, event)
		if filter.Limit > 0 && len(matched) == filter.Limit {
			break
		}
	}
	return matched, nil
}

type memHealthRepo struct {
	records []models.HealthRecord
}

func (repo *memHealthRepo) Create(record *models.HealthRecord) error {
	record.ID = uint(len(repo.records) + 1)
	repo.records = append(repo.records, *record)
	return nil
}

func (repo *memHealthRepo) byDevice(deviceID string) []models.HealthRecord {
	matched := []models.HealthRecord{}
	for _, record := range repo.records {
		if record.PatientID == deviceID {
			matched = append(matched, record)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Timestamp.Before(matched[j].Timestamp) })
	return matched
}

func (repo *memHealthRepo) ListByDevice(deviceID string, limit int) ([]models.HealthRecord, error) {
	ascending := repo.byDevice(deviceID)
	newest := make([]models.HealthRecord, 0, len(ascending))
	for index := len(ascending) - 1; index >= 0; index-- {
		newest = append(newest, ascending[index])
		if limit > 0 && len(newest) == limit {
			break
		}
	}
	return newest, nil
}

func (repo *memHealthRepo) ListByDeviceAscending(deviceID string) ([]models.HealthRecord, error) {
	return repo.byDevice(deviceID), nil
}

func (repo *memHealthRepo) FirstByDevice(deviceID string) (models.HealthRecord, bool, error) {
	for _, record := range repo.records {
		if record.PatientID == deviceID {
			return record, true, nil
		}
	}
	return models.HealthRecord{}, false, nil
}

func (repo *memHealthRepo) DistinctDeviceIDs() ([]string, error) {
	ids := []string{}
	for _, record := range repo.records {
		ids = append(ids, record.PatientID)
	}
	return ids, nil
}

func (repo *memHealthRepo) CountByDevice(deviceID string) (int64, error) {
	return int64(len(repo.byDevice(deviceID))), nil
}

func (repo *memHealthRepo) Count() (int64, error) {
	return int64(len(repo.records)), nil
}

type memSafetyRepo struct {
	alerts []models.SafetyAlert
}

func (repo *memSafetyRepo) Create(alert *models.SafetyAlert) error {
	alert.ID = uint(len(repo.alerts) + 1)
	repo.alerts = append(repo.alerts, *alert)
	return nil
}

func (repo *memSafetyRepo) ListByDevice(deviceID string, limit int) ([]models.SafetyAlert, error) {
	matched := []models.SafetyAlert{}
	for index := len(repo.alerts) - 1; index >= 0; index-- {
		if repo.alerts[index].PatientID == deviceID {
			matched = append(matched, repo.alerts[index])
		}
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (repo *memSafetyRepo) DistinctDeviceIDs() ([]string, error) {
	ids := []string{}
	for _, alert := range repo.alerts {
		ids = append(ids, alert.PatientID)
	}
	return ids, nil
}

func (repo *memSafetyRepo) CountByDevice(deviceID string) (int64, error) {
	var count int64
	for _, alert := range repo.alerts {
		if alert.PatientID == deviceID {
			count++
		}
	}
	return count, nil
}

func (repo *memSafetyRepo) Count() (int64, error) {
	return int64(len(repo.alerts)), nil
}

type memReminderRepo struct {
	reminders   []models.Reminder
	createErr   error
	completeErr error
}

func (repo *memReminderRepo) Create(reminder *models.Reminder) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	reminder.ID = uint(len(repo.reminders) + 1)
	repo.reminders = append(repo.reminders, *reminder)
	return nil
}

func (repo *memReminderRepo) FindByID(reminderID uint) (models.Reminder, bool, error) {
	for _, reminder := range repo.reminders {
		if reminder.ID == reminderID {
			return reminder, true, nil
		}
	}
	return models.Reminder{}, false, nil
}

func (repo *memReminderRepo) MarkCompleted(reminderID uint, completedAt time.Time) error {
	if repo.completeErr != nil {
		return repo.completeErr
	}
	for index := range repo.reminders {
		if repo.reminders[index].ID == reminderID {
			repo.reminders[index].Completed = true
			repo.reminders[index].CompletedTimestamp = &completedAt
			return nil
		}
	}
	return errStubStore
}

func (repo *memReminderRepo) ListByDevice(deviceID string, openOnly bool, limit int) ([]models.Reminder, error) {
	matched := []models.Reminder{}
	for _, reminder := range repo.reminders {
		if reminder.PatientID != deviceID || (openOnly && reminder.Completed) {
			continue
		}
		matched = append(matched, reminder)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ScheduledTime.Before(matched[j].ScheduledTime) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (repo *memReminderRepo) DistinctDeviceIDs() ([]string, error) {
	ids := []string{}
	for _, reminder := range repo.reminders {
		ids = append(ids, reminder.PatientID)
	}
	return ids, nil
}

func (repo *memReminderRepo) CountByDevice(deviceID string) (int64, error) {
	var count int64
	for _, reminder := range repo.reminders {
		if reminder.PatientID == deviceID {
			count++
		}
	}
	return count, nil
}

func (repo *memReminderRepo) Count() (int64, error) {
	return int64(len(repo.reminders)), nil
}

type memPatientRepo struct {
	patients []models.Patient
}

func (repo *memPatientRepo) FindByPatientID(patientID string) (models.Patient, bool, error) {
	for _, patient := range repo.patients {
		if patient.PatientID == patientID {
			return patient, true, nil
		}
	}
	return models.Patient{}, false, nil
}

func (repo *memPatientRepo) Create(patient *models.Patient) error {
	patient.ID = uint(len(repo.patients) + 1)
	repo.patients = append(repo.patients, *patient)
	return nil
}

func (repo *memPatientRepo) List() ([]models.Patient, error) {
	return append([]models.Patient(nil), repo.patients...), nil
}

type memCaregiverRepo struct {
	caregivers []models.Caregiver
	err        error
}

func (repo *memCaregiverRepo) FindByCaregiverID(caregiverID string) (models.Caregiver, bool, error) {
	if repo.err != nil {
		return models.Caregiver{}, false, repo.err
	}
	for _, caregiver := range repo.caregivers {
		if caregiver.CaregiverID == caregiverID {
			return caregiver, true, nil
		}
	}
	return models.Caregiver{}, false, nil
}

func (repo *memCaregiverRepo) CreateWithPatients(caregiver *models.Caregiver, patientIDs []string) error {
	for _, patientID := range patientIDs {
		caregiver.Patients = append(caregiver.Patients, models.CaregiverPatient{CaregiverID: caregiver.CaregiverID, PatientID: patientID})
	}
	repo.caregivers = append(repo.caregivers, *caregiver)
	return nil
}

// memImportStore keeps committed rows; each batch buffers its own rows
// until Commit.
type memImportStore struct {
	mu        sync.Mutex
	health    []models.HealthRecord
	safety    []models.SafetyAlert
	reminders []models.Reminder
	commits   int
	rollbacks int
	failOn    string
	panicOn   string
	commitErr error
}

func (store *memImportStore) Begin() (ImportTx, error) {
	return &memImportTx{store: store}, nil
}

func (store *memImportStore) healthCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.health)
}

type memImportTx struct {
	store     *memImportStore
	health    []models.HealthRecord
	safety    []models.SafetyAlert
	reminders []models.Reminder
}

func (tx *memImportTx) HealthExists(deviceID string, timestamp time.Time) (bool, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, record := range append(append([]models.HealthRecord(nil), tx.store.health...), tx.health...) {
		if record.PatientID == deviceID && record.Timestamp.Equal(timestamp) {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memImportTx) SafetyExists(deviceID string, timestamp time.Time) (bool, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, alert := range append(append([]models.SafetyAlert(nil), tx.store.safety...), tx.safety...) {
		if alert.PatientID == deviceID && alert.Timestamp.Equal(timestamp) {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memImportTx) ReminderExists(deviceID string, scheduledTime time.Time, reminderType string) (bool, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, reminder := range append(append([]models.Reminder(nil), tx.store.reminders...), tx.reminders...) {
		if reminder.PatientID == deviceID && reminder.ScheduledTime.Equal(scheduledTime) && reminder.ReminderType == reminderType {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memImportTx) CreateHealth(record *models.HealthRecord) error {
	if tx.store.panicOn != "" && record.PatientID == tx.store.panicOn {
		panic("unexpected record")
	}
	if tx.store.failOn != "" && record.PatientID == tx.store.failOn {
		return errStubStore
	}
	tx.health = append(tx.health, *record)
	return nil
}

func (tx *memImportTx) CreateSafety(alert *models.SafetyAlert) error {
	tx.safety = append(tx.safety, *alert)
	return nil
}

func (tx *memImportTx) CreateReminder(reminder *models.Reminder) error {
	tx.reminders = append(tx.reminders, *reminder)
	return nil
}

func (tx *memImportTx) Commit() error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	if tx.store.commitErr != nil {
		return tx.store.commitErr
	}
	tx.store.health = append(tx.store.health, tx.health...)
	tx.store.safety = append(tx.store.safety, tx.safety...)
	tx.store.reminders = append(tx.store.reminders, tx.reminders...)
	tx.store.commits++
	tx.health, tx.safety, tx.reminders = nil, nil, nil
	return nil
}

func (tx *memImportTx) Rollback() error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	tx.store.rollbacks++
	tx.health, tx.safety, tx.reminders = nil, nil, nil
	return nil
}

type memRunRepo struct {
	runs []models.ImportRun
}

func (repo *memRunRepo) Create(run *models.ImportRun) error {
	repo.runs = append(repo.runs, *run)
	return nil
}

func (repo *memRunRepo) ListRecent(limit int) ([]models.ImportRun, error) {
	if limit > 0 && len(repo.runs) > limit {
		return repo.runs[len(repo.runs)-limit:], nil
	}
	return repo.runs, nil
}

type recordingObserver struct {
	domains  []string
	inserted int
}

func (observer *recordingObserver) ObserveImport(domain string, inserted int, _ int, _ int, _ int, _ time.Duration) {
	observer.domains = append(observer.domains, domain)
	observer.inserted += inserted
}

func eventAt(at time.Time, source string, description string) *models.Event {
	return &models.Event{
		Timestamp:   at,
		Source:      source,
		EventType:   "workflow_completed",
		Description: description,
		Severity:    models.EventSeverityInfo,
	}
}
