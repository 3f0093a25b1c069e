package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmdv/remindd/internal/model"
	"github.com/mmdv/remindd/internal/storage"
)

const birthdayCategoryIcon = "birthday"

type AddBirthdayParams struct {
	Name      string
	BirthDate time.Time
	Phone     string
	Note      string
}

// BirthdayView decorates a stored birthday with the derived recurrence
// fields the UI sorts and filters on.
type BirthdayView struct {
	storage.Birthday
	DaysUntil int
	Age       int
}

func (c *Coordinator) AddBirthday(ctx context.Context, p AddBirthdayParams) (storage.Birthday, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return storage.Birthday{}, errors.New("reminder: birthday name is required")
	}
	if p.BirthDate.IsZero() {
		return storage.Birthday{}, errors.New("reminder: birthday date is required")
	}

	now := c.cfg.Now()
	fireAt := model.NextOccurrence(p.BirthDate, now, c.cfg.BirthdayHour, c.cfg.BirthdayMinute)

	// Scheduling is awaited on the creation path so we never persist a
	// handle that was not actually issued.
	handle, err := c.sched.Schedule(ctx, birthdayTitle(name), birthdayBody(name), fireAt)
	if err != nil {
		c.log.Warn("birthday schedule failed, proceeding without reminder", "name", name, "err", err)
		handle = ""
	}

	if handle != "" {
		err := c.reg.Add(ctx, model.Notification{
			ID:           handle,
			Title:        birthdayTitle(name),
			Body:         birthdayBody(name),
			FireAt:       fireAt,
			CategoryIcon: birthdayCategoryIcon,
			Status:       model.StatusPending,
			CreatedAt:    now,
		})
		if err != nil {
			return storage.Birthday{}, err
		}
	}

	entity := storage.Birthday{
		ID:             uuid.NewString(),
		Name:           name,
		BirthDate:      p.BirthDate,
		Phone:          strings.TrimSpace(p.Phone),
		Note:           strings.TrimSpace(p.Note),
		CreatedAt:      now,
		NotificationID: handle,
	}
	if err := c.repo.CreateBirthday(ctx, entity); err != nil {
		return storage.Birthday{}, err
	}
	return entity, nil
}

func (c *Coordinator) DeleteBirthday(ctx context.Context, id string) error {
	entity, err := c.repo.GetBirthday(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	if entity.NotificationID != "" {
		status, ok, err := c.reg.Status(ctx, entity.NotificationID)
		if err != nil {
			return err
		}
		if ok && status == model.StatusPending {
			c.cancelDetached(entity.NotificationID)
		}
		if err := c.reg.Remove(ctx, entity.NotificationID); err != nil {
			return err
		}
	}
	return c.repo.DeleteBirthday(ctx, id)
}

// RescheduleNotification replaces a birthday's notification with one for
// newDate. A still-pending predecessor ends as ReplacedAndCancelled, not
// Cancelled: history distinguishes "the user cancelled it" from "the
// system moved it".
func (c *Coordinator) RescheduleNotification(ctx context.Context, id string, newDate time.Time) (storage.Birthday, error) {
	entity, err := c.repo.GetBirthday(ctx, id)
	if err != nil {
		return storage.Birthday{}, err
	}

	if entity.NotificationID != "" {
		status, ok, err := c.reg.Status(ctx, entity.NotificationID)
		if err != nil {
			return storage.Birthday{}, err
		}
		if ok && status == model.StatusPending {
			if err := c.reg.UpdateStatus(ctx, entity.NotificationID, model.StatusReplacedAndCancelled); err != nil {
				return storage.Birthday{}, err
			}
			c.cancelDetached(entity.NotificationID)
		}
	}

	handle, err := c.sched.Schedule(ctx, birthdayTitle(entity.Name), birthdayBody(entity.Name), newDate)
	if err != nil {
		c.log.Warn("birthday reschedule failed, proceeding without reminder", "name", entity.Name, "err", err)
		handle = ""
	}
	if handle != "" {
		err := c.reg.Add(ctx, model.Notification{
			ID:           handle,
			Title:        birthdayTitle(entity.Name),
			Body:         birthdayBody(entity.Name),
			FireAt:       newDate,
			CategoryIcon: birthdayCategoryIcon,
			Status:       model.StatusPending,
			CreatedAt:    c.cfg.Now(),
		})
		if err != nil {
			return storage.Birthday{}, err
		}
	}

	now := c.cfg.Now()
	entity.NotificationID = handle
	entity.UpdatedAt = &now
	if err := c.repo.UpdateBirthday(ctx, entity); err != nil {
		return storage.Birthday{}, err
	}
	return entity, nil
}

// MarkGreetingSent records that the user greeted the person this year,
// a fact distinct from notification delivery. A still-pending
// notification is cancelled: the greeting already happened.
func (c *Coordinator) MarkGreetingSent(ctx context.Context, id string) (storage.Birthday, error) {
	entity, err := c.repo.GetBirthday(ctx, id)
	if err != nil {
		return storage.Birthday{}, err
	}

	if entity.NotificationID != "" {
		status, ok, err := c.reg.Status(ctx, entity.NotificationID)
		if err != nil {
			return storage.Birthday{}, err
		}
		if ok && status == model.StatusPending {
			if err := c.reg.UpdateStatus(ctx, entity.NotificationID, model.StatusCancelled); err != nil {
				return storage.Birthday{}, err
			}
			c.cancelDetached(entity.NotificationID)
		}
	}

	now := c.cfg.Now()
	entity.GreetingSent = true
	entity.GreetingYear = now.Year()
	entity.UpdatedAt = &now
	if err := c.repo.UpdateBirthday(ctx, entity); err != nil {
		return storage.Birthday{}, err
	}
	return entity, nil
}

// ResetGreetingForNewYear clears greeting flags written in earlier
// years. Safe to run any number of times per year.
func (c *Coordinator) ResetGreetingForNewYear(ctx context.Context) (int, error) {
	entities, err := c.repo.ListBirthdays(ctx, storage.BirthdayListFilter{})
	if err != nil {
		return 0, err
	}

	now := c.cfg.Now()
	count := 0
	for _, entity := range entities {
		if !entity.GreetingSent || entity.GreetingYear >= now.Year() {
			continue
		}
		entity.GreetingSent = false
		entity.UpdatedAt = &now
		if err := c.repo.UpdateBirthday(ctx, entity); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// UpcomingBirthdays returns every birthday decorated with recurrence
// fields, sorted soonest first.
func (c *Coordinator) UpcomingBirthdays(ctx context.Context) ([]BirthdayView, error) {
	entities, err := c.repo.ListBirthdays(ctx, storage.BirthdayListFilter{})
	if err != nil {
		return nil, err
	}

	now := c.cfg.Now()
	out := make([]BirthdayView, 0, len(entities))
	for _, entity := range entities {
		out = append(out, BirthdayView{
			Birthday:  entity,
			DaysUntil: model.DaysUntil(entity.BirthDate, now),
			Age:       model.Age(entity.BirthDate, now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	return out, nil
}

func (c *Coordinator) TodaysBirthdays(ctx context.Context) ([]BirthdayView, error) {
	all, err := c.UpcomingBirthdays(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BirthdayView, 0)
	for _, v := range all {
		if v.DaysUntil == 0 {
			out = append(out, v)
		}
	}
	return out, nil
}

// UpcomingWindow returns birthdays strictly after today and within the
// configured window (30 days by default).
func (c *Coordinator) UpcomingWindow(ctx context.Context) ([]BirthdayView, error) {
	all, err := c.UpcomingBirthdays(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BirthdayView, 0)
	for _, v := range all {
		if v.DaysUntil > 0 && v.DaysUntil <= c.cfg.UpcomingWindowDays {
			out = append(out, v)
		}
	}
	return out, nil
}

func birthdayTitle(name string) string {
	return fmt.Sprintf("Birthday: %s", name)
}

func birthdayBody(name string) string {
	return fmt.Sprintf("%s has a birthday today. Send your greetings!", name)
}
