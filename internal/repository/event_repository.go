package repository

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/eventkeeper/reminder-service/internal/models"
	"github.com/eventkeeper/reminder-service/internal/store"
	"go.uber.org/zap"
)

// EventRepository provides typed access to the durable event collection.
// Every load-modify-save cycle is serialized behind a single mutex, so a
// request-triggered append and a scheduler sweep can never overwrite each
// other's update.
type EventRepository interface {
	LoadAll() []models.Event
	SaveAll(events []models.Event) error
	Append(event models.Event) (models.Event, error)
	Mutate(fn func(events []models.Event) bool) error
}

type eventRepository struct {
	store store.DurableStore
	log   *zap.Logger
	mu    sync.Mutex
}

// NewEventRepository creates a new event repository over the given store.
func NewEventRepository(s store.DurableStore, log *zap.Logger) EventRepository {
	return &eventRepository{
		store: s,
		log:   log,
	}
}

// LoadAll reads the full collection. A missing or corrupt store is
// treated as empty state rather than an error; the condition is logged
// so silent data loss stays observable.
func (r *eventRepository) LoadAll() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

// SaveAll overwrites the durable store with the given full collection.
func (r *eventRepository) SaveAll(events []models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(events)
}

// Append stores a new event and returns it. The full round-trip runs
// under the store lock.
func (r *eventRepository) Append(event models.Event) (models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.loadLocked()
	events = append(events, event)
	if err := r.saveLocked(events); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// Mutate runs fn against the current collection under the store lock and
// persists the result only when fn reports a change.
func (r *eventRepository) Mutate(fn func(events []models.Event) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.loadLocked()
	if !fn(events) {
		return nil
	}
	return r.saveLocked(events)
}

func (r *eventRepository) loadLocked() []models.Event {
	data, err := r.store.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			r.log.Warn("Events store unreadable, treating as empty", zap.Error(err))
		}
		return nil
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		r.log.Warn("Events store corrupt, treating as empty", zap.Error(err))
		return nil
	}
	return events
}

func (r *eventRepository) saveLocked(events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return &store.StorageError{Op: "encode events", Err: err}
	}

	if err := r.store.Save(data); err != nil {
		r.log.Error("Failed to save events", zap.Error(err))
		return err
	}
	return nil
}
