package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateBirthday(ctx context.Context, in Birthday) error
	GetBirthday(ctx context.Context, id string) (Birthday, error)
	UpdateBirthday(ctx context.Context, in Birthday) error
	DeleteBirthday(ctx context.Context, id string) error
	ListBirthdays(ctx context.Context, filter BirthdayListFilter) ([]Birthday, error)

	CreateNotification(ctx context.Context, in Notification) error
	GetNotification(ctx context.Context, id string) (Notification, error)
	UpdateNotification(ctx context.Context, in Notification) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllNotifications(ctx context.Context) error
	ListNotifications(ctx context.Context, filter NotificationListFilter) ([]Notification, error)
	MarkAllNotificationsRead(ctx context.Context) error
	CountUnreadNotifications(ctx context.Context) (int, error)

	// ApplyStatDelta increments the aggregate totals and the given day
	// bucket atomically, so the two collections can never diverge even
	// if the process dies mid-operation.
	ApplyStatDelta(ctx context.Context, day string, delta StatDelta) error
	GetStatTotals(ctx context.Context) (StatTotals, error)
	GetStatDay(ctx context.Context, day string) (StatDay, error)
	ListStatDays(ctx context.Context) ([]StatDay, error)
}
