package reminder

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmdv/remindd/internal/model"
	"github.com/mmdv/remindd/internal/storage"
)

const taskReminderBody = "Task reminder"

type AddTaskParams struct {
	Title      string
	ReminderAt *time.Time
	// NotificationID is the handle from a Schedule call the caller
	// already made. Scheduling happens before persistence so a crash
	// can never lose a fired notification silently; recording the
	// pointer is local and synchronous.
	NotificationID string
}

type EditTaskParams struct {
	ID             string
	Title          string
	ReminderAt     *time.Time
	NotificationID string
}

// ScheduleTaskReminder asks the scheduler for a task-reminder handle.
// Callers invoke this before AddTask/EditTask and pass the handle in.
// An empty handle means the fire time was already past; the task is
// created without a reminder.
func (c *Coordinator) ScheduleTaskReminder(ctx context.Context, title string, fireAt time.Time) (string, error) {
	return c.sched.Schedule(ctx, title, taskReminderBody, fireAt)
}

func (c *Coordinator) AddTask(ctx context.Context, p AddTaskParams) (storage.Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return storage.Task{}, errors.New("reminder: task title is required")
	}
	if p.NotificationID != "" && p.ReminderAt == nil {
		return storage.Task{}, errors.New("reminder: notification handle without a reminder time")
	}

	now := c.cfg.Now()
	task := storage.Task{
		ID:             uuid.NewString(),
		Title:          title,
		CreatedAt:      now,
		ReminderAt:     p.ReminderAt,
		NotificationID: p.NotificationID,
	}

	if p.NotificationID != "" {
		err := c.reg.Add(ctx, model.Notification{
			ID:        p.NotificationID,
			Title:     title,
			Body:      taskReminderBody,
			FireAt:    *p.ReminderAt,
			Status:    model.StatusPending,
			CreatedAt: now,
		})
		if err != nil {
			return storage.Task{}, err
		}
	}

	if err := c.repo.CreateTask(ctx, task); err != nil {
		return storage.Task{}, err
	}
	if err := c.recordStats(ctx, now, storage.StatDelta{Created: 1}); err != nil {
		return storage.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task. A pending reminder is cancelled with the
// scheduler (detached, best-effort) and its registry record deleted so
// the record can never outlive the task as Pending. Unknown ids no-op.
func (c *Coordinator) DeleteTask(ctx context.Context, id string) error {
	task, err := c.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	if !task.Completed && task.NotificationID != "" {
		status, ok, err := c.reg.Status(ctx, task.NotificationID)
		if err != nil {
			return err
		}
		if ok && status == model.StatusPending {
			c.cancelDetached(task.NotificationID)
			if err := c.reg.Remove(ctx, task.NotificationID); err != nil {
				return err
			}
		}
	}

	if err := c.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	// Deletion is accounted to today, not the task's creation day.
	return c.recordStats(ctx, c.cfg.Now(), storage.StatDelta{Deleted: 1})
}

func (c *Coordinator) EditTask(ctx context.Context, p EditTaskParams) (storage.Task, error) {
	task, err := c.repo.GetTask(ctx, p.ID)
	if err != nil {
		return storage.Task{}, err
	}
	// A closed task must never point at a Pending registry record.
	if (task.Completed || task.Archived) && p.ReminderAt != nil && !equalTime(task.ReminderAt, p.ReminderAt) {
		return storage.Task{}, errors.New("reminder: completed or archived tasks cannot take a new reminder")
	}

	now := c.cfg.Now()
	if title := strings.TrimSpace(p.Title); title != "" {
		task.Title = title
	}

	switch {
	case p.ReminderAt == nil:
		// Reminder removed: clear the pointer and the cancelled flag,
		// consistent with "reminder present implies not cancelled".
		task.ReminderAt = nil
		task.NotificationID = ""
		task.ReminderCancelled = false
	case !equalTime(task.ReminderAt, p.ReminderAt):
		task.ReminderAt = p.ReminderAt
		task.NotificationID = p.NotificationID
		task.ReminderCancelled = false
		if p.NotificationID != "" {
			err := c.reg.Add(ctx, model.Notification{
				ID:        p.NotificationID,
				Title:     task.Title,
				Body:      taskReminderBody,
				FireAt:    *p.ReminderAt,
				Status:    model.StatusPending,
				CreatedAt: now,
			})
			if err != nil {
				return storage.Task{}, err
			}
		}
	}

	task.UpdatedAt = &now
	if err := c.repo.UpdateTask(ctx, task); err != nil {
		return storage.Task{}, err
	}
	return task, nil
}

// ToggleComplete flips a task's completion state. Completing cancels and
// deletes any pending reminder (a completed task must never fire a stale
// notification) and records completion statistics. Un-completing leaves
// statistics untouched: completion is a monotonic historical event.
func (c *Coordinator) ToggleComplete(ctx context.Context, id string) (storage.Task, error) {
	task, err := c.repo.GetTask(ctx, id)
	if err != nil {
		return storage.Task{}, err
	}

	now := c.cfg.Now()
	if !task.Completed {
		if task.NotificationID != "" {
			status, ok, err := c.reg.Status(ctx, task.NotificationID)
			if err != nil {
				return storage.Task{}, err
			}
			if ok && status == model.StatusPending {
				c.cancelDetached(task.NotificationID)
				if err := c.reg.Remove(ctx, task.NotificationID); err != nil {
					return storage.Task{}, err
				}
			}
			task.NotificationID = ""
		}
		task.Completed = true
		task.CompletedAt = &now
		task.UpdatedAt = &now
		if err := c.repo.UpdateTask(ctx, task); err != nil {
			return storage.Task{}, err
		}
		delta := storage.StatDelta{
			Completed:        1,
			CompletionTimeMs: model.CompletionTime(task.CreatedAt, now),
		}
		if err := c.recordStats(ctx, now, delta); err != nil {
			return storage.Task{}, err
		}
		return task, nil
	}

	task.Completed = false
	task.CompletedAt = nil
	if task.Archived {
		task.Archived = false
		task.ArchivedAt = nil
	}
	task.UpdatedAt = &now
	if err := c.repo.UpdateTask(ctx, task); err != nil {
		return storage.Task{}, err
	}
	return task, nil
}

func (c *Coordinator) Archive(ctx context.Context, id string) (storage.Task, error) {
	task, err := c.repo.GetTask(ctx, id)
	if err != nil {
		return storage.Task{}, err
	}
	if !task.Completed {
		return storage.Task{}, ErrTaskNotCompleted
	}
	if task.Archived {
		return task, nil
	}

	now := c.cfg.Now()
	task.Archived = true
	task.ArchivedAt = &now
	task.UpdatedAt = &now
	if err := c.repo.UpdateTask(ctx, task); err != nil {
		return storage.Task{}, err
	}
	if err := c.recordStats(ctx, now, storage.StatDelta{Archived: 1}); err != nil {
		return storage.Task{}, err
	}
	return task, nil
}

func (c *Coordinator) ArchiveAllCompleted(ctx context.Context) (int, error) {
	completed := true
	archived := false
	tasks, err := c.repo.ListTasks(ctx, storage.TaskListFilter{Completed: &completed, Archived: &archived})
	if err != nil {
		return 0, err
	}

	now := c.cfg.Now()
	count := 0
	for _, task := range tasks {
		task.Archived = true
		task.ArchivedAt = &now
		task.UpdatedAt = &now
		if err := c.repo.UpdateTask(ctx, task); err != nil {
			return count, err
		}
		count++
	}
	if count > 0 {
		if err := c.recordStats(ctx, now, storage.StatDelta{Archived: count}); err != nil {
			return count, err
		}
	}
	return count, nil
}

// ClearArchive purges archived tasks. Archived tasks are soft-deleted,
// so removing them is accounted as deletion.
func (c *Coordinator) ClearArchive(ctx context.Context) (int, error) {
	archived := true
	tasks, err := c.repo.ListTasks(ctx, storage.TaskListFilter{Archived: &archived})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, task := range tasks {
		if err := c.repo.DeleteTask(ctx, task.ID); err != nil {
			return count, err
		}
		count++
	}
	if count > 0 {
		if err := c.recordStats(ctx, c.cfg.Now(), storage.StatDelta{Deleted: count}); err != nil {
			return count, err
		}
	}
	return count, nil
}

// CancelAllReminders flags every live future reminder as cancelled
// without touching the registry. Used when the user globally disables
// notifications; the scheduler-side mass cancel is a separate call made
// by the platform layer.
func (c *Coordinator) CancelAllReminders(ctx context.Context) (int, error) {
	tasks, err := c.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		return 0, err
	}

	now := c.cfg.Now()
	count := 0
	for _, task := range tasks {
		m := model.Task{
			Completed:         task.Completed,
			Archived:          task.Archived,
			ReminderAt:        task.ReminderAt,
			ReminderCancelled: task.ReminderCancelled,
		}
		if !m.HasLiveReminder(now) {
			continue
		}
		task.ReminderCancelled = true
		task.UpdatedAt = &now
		if err := c.repo.UpdateTask(ctx, task); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (c *Coordinator) Tasks(ctx context.Context, filter storage.TaskListFilter) ([]storage.Task, error) {
	return c.repo.ListTasks(ctx, filter)
}

// HandleDelivery maps a scheduler delivery callback onto the registry.
// Unknown ids and records that already reached a terminal status are
// absorbed silently.
func (c *Coordinator) HandleDelivery(ctx context.Context, id string) error {
	return c.reg.UpdateStatus(ctx, id, model.StatusSent)
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
