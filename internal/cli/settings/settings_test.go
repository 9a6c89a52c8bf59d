package settings

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/engine"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/storage/sqlite"
)

// Monday, inside default work hours.
var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "pausa.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store, Now: func() time.Time { return testNow }}
}

func reopen(ctx *cli.Context) *engine.Engine {
	return ctx.NewSession(engine.Deps{}).Engine
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestSettingsCmdList(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmdUpdate(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &SettingsCmd{
		EyeInterval: intPtr(30),
		Sound:       boolPtr(false),
		Tone:        strPtr("bell"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	cfg := reopen(ctx).Config()
	if cfg.EyeInterval != 30 || cfg.SoundEnabled || cfg.NotificationTone != models.ToneBell {
		t.Errorf("settings not persisted: %+v", cfg)
	}
	if cfg.StretchInterval != models.DefaultReminderConfig().StretchInterval {
		t.Error("untouched fields should keep their values")
	}
}

func TestSettingsCmdRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"zero interval", SettingsCmd{EyeInterval: intPtr(0)}},
		{"volume too high", SettingsCmd{SoundVolume: intPtr(150)}},
		{"unknown tone", SettingsCmd{Tone: strPtr("kazoo")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
			if got := reopen(ctx).Config(); got != models.DefaultReminderConfig() {
				t.Errorf("rejected update was persisted: %+v", got)
			}
		})
	}
}

func TestSettingsCmdEdit(t *testing.T) {
	orig := runForm
	defer func() { runForm = orig }()
	runForm = func(func() error) error { return nil }

	ctx := setupTestDB(t)
	if err := (&SettingsCmd{Edit: true}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if got := reopen(ctx).Config(); got != models.DefaultReminderConfig() {
		t.Errorf("unchanged form should keep settings, got %+v", got)
	}

	runForm = func(func() error) error { return errors.New("user aborted") }
	if err := (&SettingsCmd{Edit: true}).Run(ctx); err == nil {
		t.Error("aborted form should return an error")
	}
}

func TestScheduleCmd(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &ScheduleCmd{
		Start:    strPtr("09:00"),
		End:      strPtr("18:00"),
		Days:     "mon,wed,fri",
		Exercise: strPtr("moderate"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("schedule update failed: %v", err)
	}

	ws := reopen(ctx).WorkSchedule()
	if !ws.IsConfigured || ws.StartTime != "09:00" || ws.EndTime != "18:00" {
		t.Errorf("schedule not persisted: %+v", ws)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(ws.WorkDays) != len(want) {
		t.Fatalf("WorkDays = %v, want %v", ws.WorkDays, want)
	}
	for i := range want {
		if ws.WorkDays[i] != want[i] {
			t.Errorf("WorkDays = %v, want %v", ws.WorkDays, want)
		}
	}
	if ws.ExerciseProfile != models.ExerciseModerate {
		t.Errorf("ExerciseProfile = %s", ws.ExerciseProfile)
	}
}

func TestScheduleCmdErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  ScheduleCmd
	}{
		{"bad days", ScheduleCmd{Days: "mon,funday"}},
		{"end before start", ScheduleCmd{Start: strPtr("18:00"), End: strPtr("09:00")}},
		{"bad profile", ScheduleCmd{Exercise: strPtr("marathon")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
			if reopen(ctx).WorkSchedule().IsConfigured {
				t.Error("failed update should leave the schedule unconfigured")
			}
		})
	}
}

func TestScheduleCmdNoChanges(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&ScheduleCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&ScheduleCmd{List: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if reopen(ctx).WorkSchedule().IsConfigured {
		t.Error("no flags should not configure the schedule")
	}
}

func TestSetupCmdAppliesOptimalIntervals(t *testing.T) {
	orig := runForm
	defer func() { runForm = orig }()
	runForm = func(func() error) error { return nil }

	ctx := setupTestDB(t)
	if err := (&SetupCmd{}).Run(ctx); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	eng := reopen(ctx)
	if !eng.WorkSchedule().IsConfigured {
		t.Fatal("setup should mark the schedule configured")
	}
	// testNow falls inside the default work hours, so optimal intervals apply at once.
	opt := eng.OptimalIntervals()
	if got := eng.Config(); got.EyeInterval != opt.EyeInterval || got.WaterInterval != opt.WaterInterval {
		t.Errorf("config %+v should use optimal intervals %+v", got, opt)
	}
}
