package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/engine"
	apperrors "github.com/julianstephens/pausa/internal/errors"
	"github.com/julianstephens/pausa/internal/utils"
)

// Duration is a time.Duration written as a Go duration string ("5s", "1m30s").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the runtime configuration read from pausa.toml. User settings
// (reminder config, work schedule) live in the store, not here.
type Config struct {
	// Store is a sqlite path or a PostgreSQL connection string.
	Store    string       `toml:"store"`
	Debug    bool         `toml:"debug"`
	LogLevel string       `toml:"log_level,omitempty"`
	Engine   EngineConfig `toml:"engine"`
	Agent    AgentConfig  `toml:"agent"`
}

type EngineConfig struct {
	TickInterval     Duration `toml:"tick_interval"`
	ResumeGap        Duration `toml:"resume_gap"`
	Cooldown         Duration `toml:"cooldown"`
	StaleAfter       Duration `toml:"stale_after"`
	Suppression      Duration `toml:"suppression"`
	QuickSuppression Duration `toml:"quick_suppression"`
	BackupInterval   Duration `toml:"backup_interval"`
	Snooze           Duration `toml:"snooze"`
}

type AgentConfig struct {
	Enabled   bool   `toml:"enabled"`
	Listen    string `toml:"listen"`
	QueueSize int    `toml:"queue_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: constants.DefaultConfigPath,
		Engine: EngineConfig{
			TickInterval:     Duration(constants.DefaultTickInterval),
			ResumeGap:        Duration(constants.DefaultResumeGap),
			Cooldown:         Duration(constants.DefaultNotifyCooldown),
			StaleAfter:       Duration(constants.DefaultStaleAfter),
			Suppression:      Duration(constants.DefaultSuppressionWindow),
			QuickSuppression: Duration(constants.DefaultQuickSuppression),
			BackupInterval:   Duration(constants.DefaultBackupInterval),
			Snooze:           Duration(constants.DefaultSnoozeDuration),
		},
		Agent: AgentConfig{
			Enabled:   true,
			Listen:    "127.0.0.1:0",
			QueueSize: constants.DefaultAgentQueueSize,
		},
	}
}

// Load reads path over the defaults and applies PAUSA_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := utils.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(expanded)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", expanded, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, apperrors.Configf("failed to parse %s: %v", expanded, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	overrideString(&cfg.Store, "PAUSA_STORE")
	overrideString(&cfg.LogLevel, "PAUSA_LOG_LEVEL")
	overrideString(&cfg.Agent.Listen, "PAUSA_AGENT_LISTEN")

	for _, o := range []struct {
		key string
		fn  func(string) error
	}{
		{"PAUSA_DEBUG", boolSetter(&cfg.Debug)},
		{"PAUSA_AGENT_ENABLED", boolSetter(&cfg.Agent.Enabled)},
		{"PAUSA_AGENT_QUEUE_SIZE", intSetter(&cfg.Agent.QueueSize)},
		{"PAUSA_TICK_INTERVAL", cfg.Engine.TickInterval.setter()},
		{"PAUSA_RESUME_GAP", cfg.Engine.ResumeGap.setter()},
		{"PAUSA_COOLDOWN", cfg.Engine.Cooldown.setter()},
		{"PAUSA_STALE_AFTER", cfg.Engine.StaleAfter.setter()},
		{"PAUSA_SUPPRESSION", cfg.Engine.Suppression.setter()},
		{"PAUSA_QUICK_SUPPRESSION", cfg.Engine.QuickSuppression.setter()},
		{"PAUSA_BACKUP_INTERVAL", cfg.Engine.BackupInterval.setter()},
		{"PAUSA_SNOOZE", cfg.Engine.Snooze.setter()},
	} {
		val := os.Getenv(o.key)
		if val == "" {
			continue
		}
		if err := o.fn(val); err != nil {
			return apperrors.Configf("%s=%q: %v", o.key, val, err)
		}
	}
	return nil
}

func overrideString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func boolSetter(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func (d *Duration) setter() func(string) error {
	return func(v string) error { return d.UnmarshalText([]byte(v)) }
}

// Validate rejects non-positive timings and an empty store.
func (c *Config) Validate() error {
	if c.Store == "" {
		return apperrors.Configf("store must not be empty")
	}
	durations := []struct {
		name string
		d    Duration
	}{
		{"tick_interval", c.Engine.TickInterval},
		{"resume_gap", c.Engine.ResumeGap},
		{"cooldown", c.Engine.Cooldown},
		{"stale_after", c.Engine.StaleAfter},
		{"suppression", c.Engine.Suppression},
		{"quick_suppression", c.Engine.QuickSuppression},
		{"backup_interval", c.Engine.BackupInterval},
		{"snooze", c.Engine.Snooze},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return apperrors.Configf("engine.%s must be positive, got %s", d.name, d.d.Std())
		}
	}
	if c.Agent.QueueSize < 1 {
		return apperrors.Configf("agent.queue_size must be at least 1, got %d", c.Agent.QueueSize)
	}
	return nil
}

// EngineOptions converts the engine section into engine timing options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Cooldown:         c.Engine.Cooldown.Std(),
		StaleAfter:       c.Engine.StaleAfter.Std(),
		Suppression:      c.Engine.Suppression.Std(),
		QuickSuppression: c.Engine.QuickSuppression.Std(),
		BackupInterval:   c.Engine.BackupInterval.Std(),
		SnoozeDuration:   c.Engine.Snooze.Std(),
	}
}

// Write saves cfg as TOML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(expanded, data, 0600)
}
