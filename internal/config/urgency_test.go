package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUrgencyConfigDefaultsWithoutFile(t *testing.T) {
	holder, err := NewUrgencyConfigHolder(Config{UrgencyConfigPath: filepath.Join(t.TempDir(), "missing.yml")})
	require.NoError(t, err)
	assert.Equal(t, DefaultUrgencyConfig(), holder.Get())
}

func TestUrgencyConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urgency.yml")
	require.NoError(t, os.WriteFile(path, []byte("urgency:\n  criticalDays: 3\n  upcomingDays: 7\n"), 0o600))

	holder, err := NewUrgencyConfigHolder(Config{UrgencyConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, UrgencyConfig{CriticalDays: 3, UpcomingDays: 7}, holder.Get())
}

func TestUrgencyConfigRejectsInvertedThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urgency.yml")
	require.NoError(t, os.WriteFile(path, []byte("urgency:\n  criticalDays: 10\n  upcomingDays: 5\n"), 0o600))

	_, err := NewUrgencyConfigHolder(Config{UrgencyConfigPath: path})
	assert.Error(t, err)
}

func TestNilHolderFallsBackToDefaults(t *testing.T) {
	var holder *UrgencyConfigHolder
	assert.Equal(t, DefaultUrgencyConfig(), holder.Get())
}
