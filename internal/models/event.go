package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a user-owned dated record with an optional reminder.
// Events are immutable after creation except for the reminder's
// notified flag, which the scheduler flips exactly once.
type Event struct {
	ID          uuid.UUID `json:"id"`
	User        string    `json:"user"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Reminder    Reminder  `json:"reminder"`
}

// Reminder is the due-time and fired-state sub-record of an Event.
// ReminderTime is present iff Set is true. Notified is monotonic:
// once true it never reverts.
type Reminder struct {
	Set          bool       `json:"set"`
	ReminderTime *time.Time `json:"reminderTime"`
	Notified     bool       `json:"notified"`
}

// EventRequest carries the fields accepted when creating an event.
// Date and ReminderTime are RFC 3339 strings.
type EventRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	Date         string `json:"date" validate:"required"`
	Category     string `json:"category" validate:"required"`
	ReminderTime string `json:"reminderTime"`
}

// Sort keys accepted by the list endpoint.
const (
	SortByDate     = "date"
	SortByCategory = "category"
	SortByReminder = "reminder"
)
