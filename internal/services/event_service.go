package services

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/carewatch/internal/models"
)

const eventTimestampLayout = "2006-01-02 15:04:05"

var ErrLogEventFailed = errors.New("log event failed")

type EventFilter struct {
	Since        *time.Time
	Source       string // substring match
	SourcePrefix string
	EventType    string // substring match
	Severity     string
	Limit        int
}

type EventRepository interface {
	Create(event *models.Event) error
	List(filter EventFilter) ([]models.Event, error)
}

type EventLogger interface {
	LogEvent(source string, eventType string, description string, severity string) error
}

// EventView is the JSON shape of an event returned by the API.
type EventView struct {
	ID          uint   `json:"id"`
	Timestamp   string `json:"timestamp"`
	Source      string `json:"source"`
	EventType   string `json:"event_type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type EventService struct {
	events EventRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewEventService(events EventRepository, logger zerolog.Logger, now func() time.Time) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{events: events, logger: logger, now: now}
}

func (service *EventService) LogEvent(source string, eventType string, description string, severity string) error {
	severity = strings.TrimSpace(severity)
	if severity == "" {
		severity = models.EventSeverityInfo
	}
	event := &models.Event{
		Timestamp:   service.now(),
		Source:      source,
		EventType:   eventType,
		Description: description,
		Severity:    severity,
	}
	if err := service.events.Create(event); err != nil {
		service.logger.Error().Err(err).Str("source", source).Str("event_type", eventType).Msg("log event failed")
		return ErrLogEventFailed
	}
	service.logger.Debug().Str("source", source).Str("event_type", eventType).Str("severity", severity).Msg(description)
	return nil
}

// RecentEvents returns events from the last window, newest first.
func (service *EventService) RecentEvents(window time.Duration, source string, eventType string, severity string) []EventView {
	since := service.now().Add(-window)
	events, err := service.events.List(EventFilter{
		Since:     &since,
		Source:    source,
		EventType: eventType,
		Severity:  severity,
	})
	if err != nil {
		service.logger.Error().Err(err).Msg("load recent events failed")
		return []EventView{}
	}
	return ToEventViews(events)
}

func (service *EventService) Latest(limit int) ([]models.Event, error) {
	return service.events.List(EventFilter{Limit: limit})
}

func (service *EventService) LatestBySourcePrefix(prefix string, limit int) ([]models.Event, error) {
	return service.events.List(EventFilter{SourcePrefix: prefix, Limit: limit})
}

func ToEventViews(events []models.Event) []EventView {
	views := make([]EventView, 0, len(events))
	for _, event := range events {
		views = append(views, EventView{
			ID:          event.ID,
			Timestamp:   event.Timestamp.Format(eventTimestampLayout),
			Source:      event.Source,
			EventType:   event.EventType,
			Description: event.Description,
			Severity:    event.Severity,
		})
	}
	return views
}
