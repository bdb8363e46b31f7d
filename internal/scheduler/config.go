package scheduler

import (
	"strings"
	"time"

	"github.com/smallbiznis/payables/internal/config"
)

// Config controls the due sweep.
type Config struct {
	// Schedule is a standard five-field cron expression. Empty or "off"
	// disables the sweep.
	Schedule   string
	Location   *time.Location
	JobTimeout time.Duration
	LockTTL    time.Duration
	RunOnStart bool
}

func DefaultConfig() Config {
	return Config{
		Schedule:   "0 7 * * *",
		Location:   time.UTC,
		JobTimeout: 30 * time.Second,
		LockTTL:    5 * time.Minute,
		RunOnStart: true,
	}
}

// ProvideConfig derives the scheduler config from the application config.
func ProvideConfig(cfg config.Config) Config {
	c := DefaultConfig()
	c.Schedule = strings.TrimSpace(cfg.DueSweepSchedule)
	c.Location = cfg.Location()
	return c
}

func (c Config) enabled() bool {
	s := strings.ToLower(strings.TrimSpace(c.Schedule))
	return s != "" && s != "off"
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Location == nil {
		c.Location = defaults.Location
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}
