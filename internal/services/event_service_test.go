package services_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventkeeper/reminder-service/internal/models"
	"github.com/eventkeeper/reminder-service/internal/repository"
	"github.com/eventkeeper/reminder-service/internal/services"
	"github.com/eventkeeper/reminder-service/internal/store"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*services.EventService, repository.EventRepository) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	repo := repository.NewEventRepository(store.NewFileStore(path), zap.NewNop())
	return services.NewEventService(repo, zap.NewNop()), repo
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.EventRequest
		wantErr bool
	}{
		{
			name: "valid event",
			req: models.EventRequest{
				Name:     "dentist",
				Date:     "2026-09-10T15:00:00Z",
				Category: "health",
			},
			wantErr: false,
		},
		{
			name: "valid event with reminder",
			req: models.EventRequest{
				Name:         "dentist",
				Date:         "2026-09-10T15:00:00Z",
				Category:     "health",
				ReminderTime: "2026-09-10T14:00:00Z",
			},
			wantErr: false,
		},
		{
			name: "missing name",
			req: models.EventRequest{
				Date:     "2026-09-10T15:00:00Z",
				Category: "health",
			},
			wantErr: true,
		},
		{
			name: "missing date",
			req: models.EventRequest{
				Name:     "dentist",
				Category: "health",
			},
			wantErr: true,
		},
		{
			name: "missing category",
			req: models.EventRequest{
				Name: "dentist",
				Date: "2026-09-10T15:00:00Z",
			},
			wantErr: true,
		},
		{
			name: "unparseable date",
			req: models.EventRequest{
				Name:     "dentist",
				Date:     "next tuesday",
				Category: "health",
			},
			wantErr: true,
		},
		{
			name: "unparseable reminder time",
			req: models.EventRequest{
				Name:         "dentist",
				Date:         "2026-09-10T15:00:00Z",
				Category:     "health",
				ReminderTime: "soon",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)

			_, err := svc.Create("alice", tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var verr *services.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Create() error = %T, want *services.ValidationError", err)
				}
				if got := len(repo.LoadAll()); got != 0 {
					t.Errorf("store holds %d events after rejected create, want 0", got)
				}
			}
		})
	}
}

func TestCreateNormalizesToUTC(t *testing.T) {
	svc, _ := newTestService(t)

	event, err := svc.Create("alice", models.EventRequest{
		Name:         "standup",
		Date:         "2026-03-01T10:00:00+02:00",
		Category:     "work",
		ReminderTime: "2026-03-01T09:30:00+02:00",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	wantDate := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if !event.Date.Equal(wantDate) || event.Date.Location() != time.UTC {
		t.Errorf("Date = %v, want %v in UTC", event.Date, wantDate)
	}

	wantDue := time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)
	if event.Reminder.ReminderTime == nil || !event.Reminder.ReminderTime.Equal(wantDue) {
		t.Errorf("ReminderTime = %v, want %v", event.Reminder.ReminderTime, wantDue)
	}
}

func TestCreateReminderState(t *testing.T) {
	svc, _ := newTestService(t)

	withReminder, err := svc.Create("alice", models.EventRequest{
		Name:         "dentist",
		Date:         "2026-09-10T15:00:00Z",
		Category:     "health",
		ReminderTime: "2026-09-10T14:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !withReminder.Reminder.Set || withReminder.Reminder.ReminderTime == nil {
		t.Errorf("reminder not set on event created with reminderTime: %+v", withReminder.Reminder)
	}
	if withReminder.Reminder.Notified {
		t.Error("new event already notified")
	}

	without, err := svc.Create("alice", models.EventRequest{
		Name:     "groceries",
		Date:     "2026-09-11T10:00:00Z",
		Category: "errands",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if without.Reminder.Set || without.Reminder.ReminderTime != nil {
		t.Errorf("reminder set on event created without reminderTime: %+v", without.Reminder)
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	svc, _ := newTestService(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		event, err := svc.Create("alice", models.EventRequest{
			Name:     "meeting",
			Date:     "2026-09-10T15:00:00Z",
			Category: "work",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		id := event.ID.String()
		if seen[id] {
			t.Fatalf("duplicate event ID %s", id)
		}
		seen[id] = true
	}
}

func mustCreate(t *testing.T, svc *services.EventService, owner string, req models.EventRequest) models.Event {
	t.Helper()
	event, err := svc.Create(owner, req)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", req.Name, err)
	}
	return event
}

func TestListScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)

	mustCreate(t, svc, "alice", models.EventRequest{Name: "a1", Date: "2026-09-10T15:00:00Z", Category: "work"})
	mustCreate(t, svc, "bob", models.EventRequest{Name: "b1", Date: "2026-09-10T15:00:00Z", Category: "work"})
	mustCreate(t, svc, "alice", models.EventRequest{Name: "a2", Date: "2026-09-11T15:00:00Z", Category: "work"})

	got := svc.List("alice", "")
	if len(got) != 2 {
		t.Fatalf("List(alice) returned %d events, want 2", len(got))
	}
	for _, e := range got {
		if e.User != "alice" {
			t.Errorf("List(alice) returned event owned by %q", e.User)
		}
	}
}

func TestListSortOrders(t *testing.T) {
	svc, _ := newTestService(t)

	// Inserted deliberately out of order on every key.
	mustCreate(t, svc, "alice", models.EventRequest{
		Name: "later", Date: "2026-09-12T15:00:00Z", Category: "zoo",
		ReminderTime: "2026-09-12T14:00:00Z",
	})
	mustCreate(t, svc, "alice", models.EventRequest{
		Name: "earlier", Date: "2026-09-10T15:00:00Z", Category: "alpha",
	})
	mustCreate(t, svc, "alice", models.EventRequest{
		Name: "middle", Date: "2026-09-11T15:00:00Z", Category: "mid",
		ReminderTime: "2026-09-11T14:00:00Z",
	})

	tests := []struct {
		name      string
		sortBy    string
		wantNames []string
	}{
		{name: "by date", sortBy: "date", wantNames: []string{"earlier", "middle", "later"}},
		{name: "default is date", sortBy: "", wantNames: []string{"earlier", "middle", "later"}},
		{name: "unknown key falls back to date", sortBy: "bogus", wantNames: []string{"earlier", "middle", "later"}},
		{name: "by category", sortBy: "category", wantNames: []string{"earlier", "middle", "later"}},
		{name: "by reminder", sortBy: "reminder", wantNames: []string{"earlier", "later", "middle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.List("alice", tt.sortBy)
			if len(got) != len(tt.wantNames) {
				t.Fatalf("List() returned %d events, want %d", len(got), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if got[i].Name != want {
					t.Errorf("List(%q)[%d].Name = %q, want %q", tt.sortBy, i, got[i].Name, want)
				}
			}
		})
	}
}

func TestListReminderSortPartition(t *testing.T) {
	svc, _ := newTestService(t)

	for i, req := range []models.EventRequest{
		{Name: "r1", Date: "2026-09-10T15:00:00Z", Category: "a", ReminderTime: "2026-09-10T14:00:00Z"},
		{Name: "p1", Date: "2026-09-10T15:00:00Z", Category: "b"},
		{Name: "r2", Date: "2026-09-10T15:00:00Z", Category: "c", ReminderTime: "2026-09-10T13:00:00Z"},
		{Name: "p2", Date: "2026-09-10T15:00:00Z", Category: "d"},
	} {
		if _, err := svc.Create("alice", req); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}

	got := svc.List("alice", "reminder")
	wantNames := []string{"p1", "p2", "r1", "r2"}
	for i, want := range wantNames {
		if got[i].Name != want {
			t.Errorf("List(reminder)[%d].Name = %q, want %q (stable partition)", i, got[i].Name, want)
		}
	}
}

func TestListStableOnEqualKeys(t *testing.T) {
	svc, _ := newTestService(t)

	// Same date for all three: insertion order must survive the sort.
	for _, name := range []string{"first", "second", "third"} {
		mustCreate(t, svc, "alice", models.EventRequest{
			Name: name, Date: "2026-09-10T15:00:00Z", Category: "same",
		})
	}

	for _, sortBy := range []string{"date", "category", "reminder"} {
		got := svc.List("alice", sortBy)
		for i, want := range []string{"first", "second", "third"} {
			if got[i].Name != want {
				t.Errorf("List(%q)[%d].Name = %q, want %q", sortBy, i, got[i].Name, want)
			}
		}
	}
}

func TestListDoesNotMutateStore(t *testing.T) {
	svc, repo := newTestService(t)

	mustCreate(t, svc, "alice", models.EventRequest{
		Name: "z", Date: "2026-09-12T15:00:00Z", Category: "z",
	})
	mustCreate(t, svc, "alice", models.EventRequest{
		Name: "a", Date: "2026-09-10T15:00:00Z", Category: "a",
	})

	svc.List("alice", "date")

	all := repo.LoadAll()
	if all[0].Name != "z" || all[1].Name != "a" {
		t.Error("List() reordered the persisted collection")
	}
}
