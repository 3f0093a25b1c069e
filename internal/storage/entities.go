package storage

import "time"

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

type Notification struct {
	ID           string
	Title        string
	Body         string
	FireAt       time.Time
	CategoryIcon string
	Status       string
	Read         bool
	CreatedAt    time.Time
}

type StatDelta struct {
	Created          int
	Completed        int
	Deleted          int
	Archived         int
	CompletionTimeMs int64
}

type StatTotals struct {
	Created          int
	Completed        int
	Deleted          int
	Archived         int
	CompletionTimeMs int64
}

type StatDay struct {
	Day              string
	Created          int
	Completed        int
	Deleted          int
	Archived         int
	CompletionTimeMs int64
}

type TaskListFilter struct {
	Completed *bool
	Archived  *bool
	Limit     int
	Offset    int
}

type BirthdayListFilter struct {
	Limit  int
	Offset int
}

type NotificationListFilter struct {
	Status string
	Read   *bool
	Limit  int
	Offset int
}
