package scheduler

import (
	"context"
	"time"

	"github.com/eventkeeper/reminder-service/internal/models"
	"github.com/eventkeeper/reminder-service/internal/notify"
	"github.com/eventkeeper/reminder-service/internal/repository"
	"go.uber.org/zap"
)

// ReminderScheduler periodically scans the event collection and fires
// reminders whose due time has passed. The notified flag only ever moves
// from pending to fired; fired is terminal.
type ReminderScheduler struct {
	repo     repository.EventRepository
	notifier notify.Notifier
	interval time.Duration
	log      *zap.Logger

	now func() time.Time
}

// New creates a scheduler sweeping once per interval.
func New(repo repository.EventRepository, notifier notify.Notifier, interval time.Duration, log *zap.Logger) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderScheduler{
		repo:     repo,
		notifier: notifier,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled, executing one sweep per tick.
func (s *ReminderScheduler) Run(ctx context.Context) {
	s.log.Info("Starting reminder scheduler", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(); err != nil {
				s.log.Error("Sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one scan over the collection. The cutoff is captured once
// at sweep start so every event sees the same "now". The store is only
// written when at least one reminder fired. Returns the number of
// reminders fired.
func (s *ReminderScheduler) Sweep() (int, error) {
	now := s.now().UTC()
	fired := 0

	err := s.repo.Mutate(func(events []models.Event) bool {
		for i := range events {
			rem := &events[i].Reminder
			if rem.Set && !rem.Notified && rem.ReminderTime != nil && !rem.ReminderTime.After(now) {
				rem.Notified = true
				s.notifier.ReminderDue(events[i])
				fired++
			}
		}
		return fired > 0
	})
	if err != nil {
		return fired, err
	}

	if fired > 0 {
		s.log.Info("Reminders fired", zap.Int("count", fired))
	}
	return fired, nil
}
