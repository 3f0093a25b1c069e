package model

import (
	"errors"
	"strings"
	"time"
)

type Task struct {
	ID                string
	Title             string
	Completed         bool
	Archived          bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	CompletedAt       *time.Time
	ArchivedAt        *time.Time
	ReminderAt        *time.Time
	ReminderCancelled bool
	NotificationID    string
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Archived && !t.Completed {
		return errors.New("model: archived task must be completed")
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	if t.ReminderAt == nil && t.ReminderCancelled {
		return errors.New("model: reminder_cancelled requires a reminder")
	}
	return nil
}

// HasLiveReminder reports whether the task still expects its reminder to
// fire: a future trigger time, not cancelled, on a task that is neither
// completed nor archived.
func (t Task) HasLiveReminder(now time.Time) bool {
	if t.ReminderAt == nil || t.ReminderCancelled {
		return false
	}
	if t.Completed || t.Archived {
		return false
	}
	return t.ReminderAt.After(now)
}
