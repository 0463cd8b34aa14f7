package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Loop      LoopConfig      `toml:"loop"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Scripts   ScriptsConfig   `toml:"scripts"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	StartTime int64  // set at boot, not from config
}

type LoopConfig struct {
	TickRate      time.Duration `toml:"tick_rate"`
	FixedStep     time.Duration `toml:"fixed_step"`
	MaxFixedSteps int           `toml:"max_fixed_steps"` // accumulator clamp after a stall
}

type SchedulerConfig struct {
	ReportingWindow   int      `toml:"reporting_window"` // frames per cost report
	FrameBudgetMs     float64  `toml:"frame_budget_ms"`  // health threshold
	TrackActivePhases []string `toml:"track_active_phases"`
	WatchdogThreshold int      `toml:"watchdog_threshold"` // consecutive faulting frames before auto-unregister
}

type ScriptsConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads the toml file over defaults. A missing file is not an error; the
// daemon runs on defaults alone.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Server.StartTime = time.Now().Unix()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "Chimera",
			ID:   1,
		},
		Loop: LoopConfig{
			TickRate:      200 * time.Millisecond,
			FixedStep:     50 * time.Millisecond,
			MaxFixedSteps: 8,
		},
		Scheduler: SchedulerConfig{
			ReportingWindow:   60,
			FrameBudgetMs:     1000.0 / 60.0,
			TrackActivePhases: []string{"standard"},
			WatchdogThreshold: 0, // 0 = watchdog disabled
		},
		Scripts: ScriptsConfig{
			Enabled: false,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
