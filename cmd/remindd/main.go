package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmdv/remindd/internal/logging"
	"github.com/mmdv/remindd/internal/registry"
	"github.com/mmdv/remindd/internal/reminder"
	"github.com/mmdv/remindd/internal/scheduler"
	"github.com/mmdv/remindd/internal/storage"
	"github.com/mmdv/remindd/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "remindd failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogPath)

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	coordCfg := reminder.DefaultConfig()
	coordCfg.BirthdayHour = cfg.BirthdayHour
	coordCfg.UpcomingWindowDays = cfg.UpcomingWindowDays
	coord := reminder.NewCoordinator(repo, registry.New(repo), engine, logger, coordCfg)
	defer coord.Wait()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	logger.Info("starting", "db", cfg.DBPath, "scheduler_buffer", cfg.SchedulerBuffer)
	program := tea.NewProgram(update.NewModel(coord, engine, notifier, cfg))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
