package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	DBPath               string
	LogLevel             string
	LogPath              string
	DesktopNotifications bool
	SchedulerBuffer      int
	BirthdayHour         int
	UpcomingWindowDays   int
}

func DefaultRuntimeConfig() RuntimeConfig {
	home, _ := os.UserHomeDir()
	return RuntimeConfig{
		DBPath:               filepath.Join(home, ".remindd", "remindd.db"),
		LogLevel:             "info",
		LogPath:              filepath.Join(home, ".remindd", "remindd.log"),
		DesktopNotifications: false,
		SchedulerBuffer:      64,
		BirthdayHour:         9,
		UpcomingWindowDays:   30,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("REMINDD_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("REMINDD_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("REMINDD_LOG_PATH")); v != "" {
		cfg.LogPath = v
	}
	if v, ok := getEnvBool("REMINDD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("REMINDD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvInt("REMINDD_BIRTHDAY_HOUR"); ok && v >= 0 && v <= 23 {
		cfg.BirthdayHour = v
	}
	if v, ok := getEnvInt("REMINDD_UPCOMING_WINDOW_DAYS"); ok && v > 0 {
		cfg.UpcomingWindowDays = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
