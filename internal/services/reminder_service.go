package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/carewatch/internal/models"
)

var (
	ErrReminderFieldsRequired  = errors.New("all fields are required")
	ErrInvalidReminderSchedule = errors.New("invalid reminder schedule")
	ErrInvalidReminderPriority = errors.New("invalid reminder priority")
	ErrReminderNotFound        = errors.New("reminder not found")
	ErrReminderCreateFailed    = errors.New("create reminder failed")
	ErrReminderCompleteFailed  = errors.New("complete reminder failed")
)

const reminderScheduleLayout = "2006-01-02 15:04"

type ReminderRepository interface {
	Create(reminder *models.Reminder) error
	FindByID(reminderID uint) (models.Reminder, bool, error)
	MarkCompleted(reminderID uint, completedAt time.Time) error
	ListByDevice(deviceID string, openOnly bool, limit int) ([]models.Reminder, error)
	DistinctDeviceIDs() ([]string, error)
	CountByDevice(deviceID string) (int64, error)
	Count() (int64, error)
}

type AddReminderInput struct {
	ReminderType  string `validate:"required"`
	Description   string `validate:"required"`
	ScheduledDate string `validate:"required"`
	ScheduledTime string `validate:"required"`
	Priority      string `validate:"omitempty,oneof=high medium low"`
	Recurrence    string
	DeviceID      string
}

type ReminderService struct {
	reminders ReminderRepository
	events    EventLogger
	validate  *validator.Validate
	location  *time.Location
	now       func() time.Time
}

func NewReminderService(reminders ReminderRepository, events EventLogger, location *time.Location, now func() time.Time) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ReminderService{
		reminders: reminders,
		events:    events,
		validate:  validator.New(),
		location:  location,
		now:       now,
	}
}

func (service *ReminderService) Add(input AddReminderInput) (models.Reminder, error) {
	input = normalizeAddReminderInput(input)
	if err := service.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "oneof" {
					return models.Reminder{}, ErrInvalidReminderPriority
				}
			}
		}
		return models.Reminder{}, ErrReminderFieldsRequired
	}

	scheduled, err := time.ParseInLocation(reminderScheduleLayout, input.ScheduledDate+" "+input.ScheduledTime, service.location)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("%w: %v", ErrInvalidReminderSchedule, err)
	}

	var recurrence *string
	if input.Recurrence != "" {
		recurrence = &input.Recurrence
	}

	reminder := models.Reminder{
		PatientID:     input.DeviceID,
		Timestamp:     service.now(),
		ReminderType:  input.ReminderType,
		Description:   input.Description,
		ScheduledTime: scheduled,
		Recurrence:    recurrence,
		Priority:      input.Priority,
	}
	if err := service.reminders.Create(&reminder); err != nil {
		return models.Reminder{}, fmt.Errorf("%w: %v", ErrReminderCreateFailed, err)
	}

	_ = service.events.LogEvent("ui", "reminder_created", "New reminder created: "+reminder.Description, models.EventSeverityInfo)
	return reminder, nil
}

func (service *ReminderService) Complete(reminderID uint) (models.Reminder, error) {
	reminder, found, err := service.reminders.FindByID(reminderID)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("%w: find: %v", ErrReminderCompleteFailed, err)
	}
	if !found {
		return models.Reminder{}, ErrReminderNotFound
	}

	completedAt := service.now()
	if err := service.reminders.MarkCompleted(reminderID, completedAt); err != nil {
		return models.Reminder{}, fmt.Errorf("%w: mark completed: %v", ErrReminderCompleteFailed, err)
	}
	reminder.Completed = true
	reminder.CompletedTimestamp = &completedAt

	_ = service.events.LogEvent("ui", "reminder_completed", "Reminder completed: "+reminder.Description, models.EventSeverityInfo)
	return reminder, nil
}

func normalizeAddReminderInput(input AddReminderInput) AddReminderInput {
	input.ReminderType = strings.TrimSpace(input.ReminderType)
	input.Description = strings.TrimSpace(input.Description)
	input.ScheduledDate = strings.TrimSpace(input.ScheduledDate)
	input.ScheduledTime = strings.TrimSpace(input.ScheduledTime)
	input.Priority = strings.ToLower(strings.TrimSpace(input.Priority))
	input.Recurrence = strings.TrimSpace(input.Recurrence)
	input.DeviceID = strings.TrimSpace(input.DeviceID)
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.DeviceID == "" {
		input.DeviceID = models.DefaultDeviceID
	}
	return input
}
