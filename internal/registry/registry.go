// Package registry tracks every notification the app has asked the
// scheduler to fire, together with its delivery status and read state.
// Entities hold weak references into the registry by id: a record may be
// removed while an entity still points at it, and consumers must treat a
// missing lookup as unknown/cancelled.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmdv/remindd/internal/model"
	"github.com/mmdv/remindd/internal/storage"
)

var ErrDuplicateID = errors.New("registry: duplicate notification id")

type Registry struct {
	repo storage.Repository
}

func New(repo storage.Repository) *Registry {
	return &Registry{repo: repo}
}

// Add inserts a new record. The caller picks the initial status: Pending
// for scheduled notifications, Sent for ones recorded after the fact.
func (r *Registry) Add(ctx context.Context, in model.Notification) error {
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := r.repo.GetNotification(ctx, in.ID)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, in.ID)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return r.repo.CreateNotification(ctx, toStorage(in))
}

// UpdateStatus advances a record along the status machine. Unknown ids
// and non-forward transitions are silent no-ops: delivery callbacks can
// arrive late, duplicated, or after local state has already moved on.
func (r *Registry) UpdateStatus(ctx context.Context, id string, status model.NotificationStatus) error {
	rec, err := r.repo.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	current := model.NotificationStatus(rec.Status)
	if !current.CanAdvanceTo(status) {
		return nil
	}
	rec.Status = string(status)
	return r.repo.UpdateNotification(ctx, rec)
}

// Status resolves a record's status. The second return value is false
// when the record no longer exists.
func (r *Registry) Status(ctx context.Context, id string) (model.NotificationStatus, bool, error) {
	rec, err := r.repo.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return model.NotificationStatus(rec.Status), true, nil
}

func (r *Registry) MarkRead(ctx context.Context, id string) error {
	rec, err := r.repo.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if rec.Read {
		return nil
	}
	rec.Read = true
	return r.repo.UpdateNotification(ctx, rec)
}

func (r *Registry) MarkAllRead(ctx context.Context) error {
	return r.repo.MarkAllNotificationsRead(ctx)
}

// Remove deletes a record. Entities still pointing at the id keep their
// dangling reference; lookups resolve it as unknown.
func (r *Registry) Remove(ctx context.Context, id string) error {
	err := r.repo.DeleteNotification(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

func (r *Registry) Clear(ctx context.Context) error {
	return r.repo.DeleteAllNotifications(ctx)
}

func (r *Registry) UnreadCount(ctx context.Context) (int, error) {
	return r.repo.CountUnreadNotifications(ctx)
}

func (r *Registry) Get(ctx context.Context, id string) (model.Notification, error) {
	rec, err := r.repo.GetNotification(ctx, id)
	if err != nil {
		return model.Notification{}, err
	}
	return fromStorage(rec), nil
}

func (r *Registry) List(ctx context.Context, filter storage.NotificationListFilter) ([]model.Notification, error) {
	recs, err := r.repo.ListNotifications(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Notification, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromStorage(rec))
	}
	return out, nil
}

func toStorage(in model.Notification) storage.Notification {
	return storage.Notification{
		ID:           in.ID,
		Title:        in.Title,
		Body:         in.Body,
		FireAt:       in.FireAt,
		CategoryIcon: in.CategoryIcon,
		Status:       string(in.Status),
		Read:         in.Read,
		CreatedAt:    in.CreatedAt,
	}
}

func fromStorage(in storage.Notification) model.Notification {
	return model.Notification{
		ID:           in.ID,
		Title:        in.Title,
		Body:         in.Body,
		FireAt:       in.FireAt,
		CategoryIcon: in.CategoryIcon,
		Status:       model.NotificationStatus(in.Status),
		Read:         in.Read,
		CreatedAt:    in.CreatedAt,
	}
}
