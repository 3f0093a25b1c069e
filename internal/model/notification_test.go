package model

import (
	"errors"
	"testing"
	"time"
)

func TestNotificationStatusTerminal(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Fatal("Pending must not be terminal")
	}
	for _, s := range []NotificationStatus{StatusSent, StatusCancelled, StatusReplacedAndCancelled} {
		if !s.IsTerminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}

func TestNotificationStatusCanAdvanceTo(t *testing.T) {
	terminal := []NotificationStatus{StatusSent, StatusCancelled, StatusReplacedAndCancelled}

	for _, next := range terminal {
		if !StatusPending.CanAdvanceTo(next) {
			t.Errorf("Pending -> %s must be allowed", next)
		}
	}
	if StatusPending.CanAdvanceTo(StatusPending) {
		t.Error("Pending -> Pending must be rejected")
	}
	// Terminal states absorb every attempted transition.
	for _, from := range terminal {
		for _, next := range []NotificationStatus{StatusPending, StatusSent, StatusCancelled, StatusReplacedAndCancelled} {
			if from.CanAdvanceTo(next) {
				t.Errorf("%s -> %s must be rejected", from, next)
			}
		}
	}
	if NotificationStatus("bogus").CanAdvanceTo(StatusSent) {
		t.Error("invalid source status must not advance")
	}
	if StatusPending.CanAdvanceTo(NotificationStatus("bogus")) {
		t.Error("invalid target status must not be reachable")
	}
}

func TestNotificationValidate(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	n := Notification{
		ID:        "ntf-1",
		Title:     "Buy milk",
		Body:      "Reminder",
		FireAt:    now.Add(10 * time.Minute),
		Status:    StatusPending,
		CreatedAt: now,
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("expected valid notification, got: %v", err)
	}

	n.Status = NotificationStatus("Exploded")
	err := n.Validate()
	if err == nil || !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}
}
