package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	apperrors "github.com/julianstephens/pausa/internal/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pausa.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store != constants.DefaultConfigPath {
		t.Errorf("Store = %q, want default", cfg.Store)
	}
	if cfg.Engine.TickInterval.Std() != time.Second {
		t.Errorf("TickInterval = %v, want 1s", cfg.Engine.TickInterval.Std())
	}
	if !cfg.Agent.Enabled {
		t.Error("agent should be enabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
store = "/tmp/pausa-test.db"
debug = true

[engine]
cooldown = "10s"
snooze = "2m"

[agent]
enabled = false
listen = "127.0.0.1:9911"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store != "/tmp/pausa-test.db" || !cfg.Debug {
		t.Errorf("top level = %+v", cfg)
	}
	if cfg.Engine.Cooldown.Std() != 10*time.Second || cfg.Engine.Snooze.Std() != 2*time.Minute {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.StaleAfter.Std() != constants.DefaultStaleAfter {
		t.Error("keys absent from the file keep their defaults")
	}
	if cfg.Agent.Enabled || cfg.Agent.Listen != "127.0.0.1:9911" {
		t.Errorf("agent = %+v", cfg.Agent)
	}

	opts := cfg.EngineOptions()
	if opts.Cooldown != 10*time.Second || opts.SnoozeDuration != 2*time.Minute {
		t.Errorf("EngineOptions() = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `store = `},
		{"bad duration", "[engine]\ncooldown = \"soon\""},
		{"non-positive duration", "[engine]\ntick_interval = \"0s\""},
		{"empty store", `store = ""`},
		{"queue too small", "[agent]\nqueue_size = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, apperrors.ErrConfiguration) {
				t.Errorf("error %v should be a configuration error", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PAUSA_STORE", "postgres://me@localhost/pausa")
	t.Setenv("PAUSA_DEBUG", "true")
	t.Setenv("PAUSA_COOLDOWN", "1m")
	t.Setenv("PAUSA_AGENT_ENABLED", "false")

	cfg, err := Load(writeFile(t, "store = \"/tmp/file.db\"\n[engine]\ncooldown = \"10s\""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != "postgres://me@localhost/pausa" {
		t.Errorf("Store = %q, env should win over the file", cfg.Store)
	}
	if !cfg.Debug || cfg.Agent.Enabled {
		t.Errorf("bool overrides not applied: %+v", cfg)
	}
	if cfg.Engine.Cooldown.Std() != time.Minute {
		t.Errorf("Cooldown = %v, want 1m", cfg.Engine.Cooldown.Std())
	}

	t.Setenv("PAUSA_SNOOZE", "later")
	if _, err := Load(""); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Errorf("bad env duration error = %v, want configuration error", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pausa.toml")
	cfg := Default()
	cfg.Store = "/tmp/rt.db"
	cfg.Engine.BackupInterval = Duration(45 * time.Second)

	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Store != "/tmp/rt.db" || got.Engine.BackupInterval.Std() != 45*time.Second {
		t.Errorf("round trip = %+v", got)
	}
}
