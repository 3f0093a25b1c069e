package model

import (
	"errors"
	"strings"
	"time"
)

type Birthday struct {
	ID             string
	Name           string
	BirthDate      time.Time
	Phone          string
	Note           string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	NotificationID string
	GreetingSent   bool
	GreetingYear   int
}

func (b Birthday) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("model: birthday id is required")
	}
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("model: birthday name is required")
	}
	if b.BirthDate.IsZero() {
		return errors.New("model: birthday date is required")
	}
	if b.CreatedAt.IsZero() {
		return errors.New("model: birthday created_at is required")
	}
	return nil
}

// GreetingSentThisYear reports whether a greeting was recorded for the
// year containing now. The stored flag is only meaningful for the year
// it was written in.
func (b Birthday) GreetingSentThisYear(now time.Time) bool {
	return b.GreetingSent && b.GreetingYear == now.Year()
}

// NextOccurrence returns the next time the birthday's month/day falls at
// the given local clock time, strictly after now. A this-year occurrence
// that has already passed rolls forward one year. Feb 29 normalizes to
// Mar 1 in non-leap years via time.Date.
func NextOccurrence(birthDate, now time.Time, hour, minute int) time.Time {
	loc := now.Location()
	candidate := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), hour, minute, 0, 0, loc)
	if !candidate.After(now) {
		candidate = time.Date(now.Year()+1, birthDate.Month(), birthDate.Day(), hour, minute, 0, 0, loc)
	}
	return candidate
}

// DaysUntil counts whole days from today's local midnight to the next
// occurrence of the birthday's month/day. Today's birthday yields 0; a
// passed occurrence rolls to next year and never yields a negative count.
func DaysUntil(birthDate, now time.Time) int {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	occurrence := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	if occurrence.Before(today) {
		occurrence = time.Date(now.Year()+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}
	return daysBetween(today, occurrence)
}

// Age returns full years since the birth date, one less before this
// year's occurrence has been reached.
func Age(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	occurred := now.Month() > birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() >= birthDate.Day())
	if !occurred {
		years--
	}
	return years
}

func daysBetween(from, to time.Time) int {
	days := 0
	for cursor := from; cursor.Before(to); cursor = cursor.AddDate(0, 0, 1) {
		days++
	}
	return days
}
