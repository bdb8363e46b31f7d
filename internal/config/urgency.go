package config

import (
	"errors"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// UrgencyConfig holds the day thresholds used to rank open invoices by how
// close their due date is.
type UrgencyConfig struct {
	CriticalDays int `mapstructure:"criticalDays"`
	UpcomingDays int `mapstructure:"upcomingDays"`
}

func DefaultUrgencyConfig() UrgencyConfig {
	return UrgencyConfig{
		CriticalDays: 5,
		UpcomingDays: 10,
	}
}

type UrgencyConfigHolder struct {
	current atomic.Value // holds UrgencyConfig
}

// NewStaticUrgencyConfigHolder returns a holder that never reloads.
func NewStaticUrgencyConfigHolder(cfg UrgencyConfig) *UrgencyConfigHolder {
	holder := &UrgencyConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewUrgencyConfigHolder(cfg Config) (*UrgencyConfigHolder, error) {
	v := viper.New()

	if path := strings.TrimSpace(cfg.UrgencyConfigPath); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("urgency")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/payables")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PAYABLES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultUrgencyConfig()
	v.SetDefault("urgency.criticalDays", defaults.CriticalDays)
	v.SetDefault("urgency.upcomingDays", defaults.UpcomingDays)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
		watch = false
	}

	var urgency UrgencyConfig
	if err := v.UnmarshalKey("urgency", &urgency); err != nil {
		return nil, err
	}
	if err := validateUrgencyConfig(urgency); err != nil {
		return nil, err
	}

	holder := NewStaticUrgencyConfigHolder(urgency)
	if !watch {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated UrgencyConfig
		if err := v.UnmarshalKey("urgency", &updated); err != nil {
			log.Printf("[urgency-config] reload failed: %v", err)
			return
		}
		if err := validateUrgencyConfig(updated); err != nil {
			log.Printf("[urgency-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[urgency-config] reloaded from %s", filepath.Base(e.Name))
	})

	return holder, nil
}

func (h *UrgencyConfigHolder) Get() UrgencyConfig {
	if h == nil {
		return DefaultUrgencyConfig()
	}
	cfg, ok := h.current.Load().(UrgencyConfig)
	if !ok {
		return DefaultUrgencyConfig()
	}
	return cfg
}

func validateUrgencyConfig(cfg UrgencyConfig) error {
	if cfg.CriticalDays < 1 {
		return errors.New("urgency.criticalDays must be at least 1")
	}
	if cfg.UpcomingDays <= cfg.CriticalDays {
		return errors.New("urgency.upcomingDays must be greater than urgency.criticalDays")
	}
	return nil
}

func isMissingFile(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no such file")
}
