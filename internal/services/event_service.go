package services

import (
	"sort"
	"time"

	"github.com/eventkeeper/reminder-service/internal/models"
	"github.com/eventkeeper/reminder-service/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// A ValidationError reports bad or missing creation input. It maps to a
// 400 response at the HTTP layer.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

var (
	errMissingFields = &ValidationError{msg: "missing required fields: name, date, category"}
	errInvalidDate   = &ValidationError{msg: "invalid date"}
)

// EventService validates creation input, constructs events with their
// reminder sub-state and implements the sort/filter retrieval contract.
type EventService struct {
	repo repository.EventRepository
	log  *zap.Logger
}

// NewEventService creates a new event service.
func NewEventService(repo repository.EventRepository, log *zap.Logger) *EventService {
	return &EventService{
		repo: repo,
		log:  log,
	}
}

// Create builds and persists a new event for owner. Name, date and
// category are required; date and reminderTime must be valid RFC 3339
// timestamps and are normalized to UTC.
func (s *EventService) Create(owner string, req models.EventRequest) (models.Event, error) {
	if err := validate.Struct(req); err != nil {
		return models.Event{}, errMissingFields
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return models.Event{}, errInvalidDate
	}

	var reminder models.Reminder
	if req.ReminderTime != "" {
		due, err := time.Parse(time.RFC3339, req.ReminderTime)
		if err != nil {
			return models.Event{}, errInvalidDate
		}
		due = due.UTC()
		reminder = models.Reminder{Set: true, ReminderTime: &due}
	}

	event := models.Event{
		ID:          uuid.New(),
		User:        owner,
		Name:        req.Name,
		Description: req.Description,
		Date:        date.UTC(),
		Category:    req.Category,
		Reminder:    reminder,
	}

	stored, err := s.repo.Append(event)
	if err != nil {
		return models.Event{}, err
	}

	s.log.Info("Event created",
		zap.String("event_id", stored.ID.String()),
		zap.String("user", owner),
		zap.Bool("reminder_set", stored.Reminder.Set))
	return stored, nil
}

// List returns owner's events ordered by the given sort key. Sorting is
// stable, so ties keep their original insertion order. Unrecognized keys
// fall back to sorting by date.
func (s *EventService) List(owner, sortBy string) []models.Event {
	all := s.repo.LoadAll()

	events := make([]models.Event, 0, len(all))
	for _, e := range all {
		if e.User == owner {
			events = append(events, e)
		}
	}

	switch sortBy {
	case models.SortByCategory:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Category < events[j].Category
		})
	case models.SortByReminder:
		// Events without a reminder come first.
		sort.SliceStable(events, func(i, j int) bool {
			return !events[i].Reminder.Set && events[j].Reminder.Set
		})
	default:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Date.Before(events[j].Date)
		})
	}

	return events
}
