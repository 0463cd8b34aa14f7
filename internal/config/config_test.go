package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "Chimera", cfg.Server.Name)
	assert.Equal(t, 200*time.Millisecond, cfg.Loop.TickRate)
	assert.Equal(t, 60, cfg.Scheduler.ReportingWindow)
	assert.Equal(t, []string{"standard"}, cfg.Scheduler.TrackActivePhases)
	assert.NotZero(t, cfg.Server.StartTime)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chimera.toml")
	src := `
[server]
name = "TestRig"
id = 9

[scheduler]
reporting_window = 10
frame_budget_ms = 33.3
track_active_phases = ["standard", "late"]
watchdog_threshold = 3

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "TestRig", cfg.Server.Name)
	assert.Equal(t, 9, cfg.Server.ID)
	assert.Equal(t, 10, cfg.Scheduler.ReportingWindow)
	assert.InDelta(t, 33.3, cfg.Scheduler.FrameBudgetMs, 1e-9)
	assert.Equal(t, []string{"standard", "late"}, cfg.Scheduler.TrackActivePhases)
	assert.Equal(t, 3, cfg.Scheduler.WatchdogThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 50*time.Millisecond, cfg.Loop.FixedStep)
	assert.False(t, cfg.Scripts.Enabled)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nname="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
