// Package reminder orchestrates the reminder lifecycle for tasks and
// birthdays: it talks to the notification scheduler, keeps the registry
// and entity stores consistent, and records usage statistics for every
// task mutation. Local persisted state is authoritative; the scheduler
// is a best-effort collaborator whose failures never block a mutation.
package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmdv/remindd/internal/model"
	"github.com/mmdv/remindd/internal/registry"
	"github.com/mmdv/remindd/internal/storage"
)

var ErrTaskNotCompleted = errors.New("reminder: task is not completed")

// Scheduler is the contract the coordinator expects from the platform
// notification service. Schedule returns an empty handle when fireAt is
// not strictly in the future. Cancel is best-effort: errors are logged
// and otherwise ignored.
type Scheduler interface {
	Schedule(ctx context.Context, title, body string, fireAt time.Time) (string, error)
	Cancel(ctx context.Context, id string) error
}

type Config struct {
	// BirthdayHour/BirthdayMinute is the local clock time birthday
	// notifications fire at.
	BirthdayHour       int
	BirthdayMinute     int
	UpcomingWindowDays int
	Now                func() time.Time
}

func DefaultConfig() Config {
	return Config{
		BirthdayHour:       9,
		UpcomingWindowDays: 30,
		Now:                time.Now,
	}
}

type Coordinator struct {
	repo  storage.Repository
	reg   *registry.Registry
	sched Scheduler
	log   *slog.Logger
	cfg   Config
	wg    sync.WaitGroup
}

func NewCoordinator(repo storage.Repository, reg *registry.Registry, sched Scheduler, logger *slog.Logger, cfg Config) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.UpcomingWindowDays <= 0 {
		cfg.UpcomingWindowDays = 30
	}
	return &Coordinator{
		repo:  repo,
		reg:   reg,
		sched: sched,
		log:   logger,
		cfg:   cfg,
	}
}

func (c *Coordinator) Registry() *registry.Registry {
	return c.reg
}

func (c *Coordinator) Config() Config {
	return c.cfg
}

// Wait blocks until all detached cancellation requests have finished.
// Used on shutdown and in tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// cancelDetached requests a scheduler-side cancellation without blocking
// the caller. The local stores have already moved on; a failure here
// only means the platform may still fire a ghost notification, which the
// registry absorbs as an unknown-id no-op.
func (c *Coordinator) cancelDetached(id string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.sched.Cancel(context.Background(), id); err != nil {
			c.log.Warn("scheduler cancel failed", "notification_id", id, "err", err)
		}
	}()
}

func (c *Coordinator) recordStats(ctx context.Context, at time.Time, delta storage.StatDelta) error {
	return c.repo.ApplyStatDelta(ctx, model.DayKey(at), delta)
}

func (c *Coordinator) StatTotals(ctx context.Context) (storage.StatTotals, error) {
	return c.repo.GetStatTotals(ctx)
}

func (c *Coordinator) StatDays(ctx context.Context) ([]storage.StatDay, error) {
	return c.repo.ListStatDays(ctx)
}
