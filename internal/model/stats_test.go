package model

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	at := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	if got := DayKey(at); got != "2026-08-31" {
		t.Fatalf("DayKey = %q, want 2026-08-31", got)
	}
}

func TestCompletionTimeFloorsAtZero(t *testing.T) {
	created := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	if got := CompletionTime(created, created.Add(90*time.Second)); got != 90_000 {
		t.Fatalf("CompletionTime = %d, want 90000", got)
	}
	if got := CompletionTime(created, created.Add(-time.Minute)); got != 0 {
		t.Fatalf("CompletionTime with skewed clock = %d, want 0", got)
	}
}

func TestStatDeltaIsZero(t *testing.T) {
	if !(StatDelta{}).IsZero() {
		t.Fatal("empty delta must be zero")
	}
	if (StatDelta{Completed: 1}).IsZero() {
		t.Fatal("non-empty delta must not be zero")
	}
}
