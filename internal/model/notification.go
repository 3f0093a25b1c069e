package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidStatus = errors.New("model: invalid notification status")

type NotificationStatus string

const (
	StatusPending              NotificationStatus = "Pending"
	StatusSent                 NotificationStatus = "Sent"
	StatusCancelled            NotificationStatus = "Cancelled"
	StatusReplacedAndCancelled NotificationStatus = "ReplacedAndCancelled"
)

func (s NotificationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusCancelled, StatusReplacedAndCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s NotificationStatus) IsTerminal() bool {
	switch s {
	case StatusSent, StatusCancelled, StatusReplacedAndCancelled:
		return true
	default:
		return false
	}
}

// CanAdvanceTo reports whether a record may move from s to next. Only
// Pending advances, and only to a terminal status. Everything else is a
// silent no-op for the caller: late or duplicate delivery callbacks must
// never reopen or rewrite settled records.
func (s NotificationStatus) CanAdvanceTo(next NotificationStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	return s == StatusPending && next.IsTerminal()
}

type Notification struct {
	ID           string
	Title        string
	Body         string
	FireAt       time.Time
	CategoryIcon string
	Status       NotificationStatus
	Read         bool
	CreatedAt    time.Time
}

func (n Notification) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("model: notification id is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("model: notification title is required")
	}
	if n.FireAt.IsZero() {
		return errors.New("model: notification fire_at is required")
	}
	if !n.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, n.Status)
	}
	return nil
}
