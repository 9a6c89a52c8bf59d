package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "pausa.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitCreatesSchema(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"kv", "break_events", "schema_version"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%q) error = %v", table, err)
		}
		if !exists {
			t.Errorf("table %q missing after Init", table)
		}
	}

	if err := store.Init(); err != nil {
		t.Errorf("second Init() should be a no-op, got %v", err)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() should fail before init")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pausa.db")
	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatal(err)
	}
	if err := first.SetValue("timersRunning", "false"); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer second.Close()

	got, err := second.GetValue("timersRunning")
	if err != nil || got != "false" {
		t.Errorf("GetValue() = %q, %v; want \"false\"", got, err)
	}
}

func TestKeyValue(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.GetValue("reminderConfig"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetValue() on missing key error = %v, want ErrNotFound", err)
	}

	if err := store.SetValue("reminderConfig", `{"eyeInterval":20}`); err != nil {
		t.Fatal(err)
	}
	if err := store.SetValue("reminderConfig", `{"eyeInterval":25}`); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetValue("reminderConfig")
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"eyeInterval":25}` {
		t.Errorf("GetValue() = %q, last write should win", got)
	}

	err = store.SetValues(map[string]string{
		"timersRunning":    "true",
		"optimalAppliedOn": "2026-01-05",
	})
	if err != nil {
		t.Fatal(err)
	}
	all, err := store.GetAllValues()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all["optimalAppliedOn"] != "2026-01-05" {
		t.Errorf("GetAllValues() = %v", all)
	}
}

func TestBreakEvents(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 1, 5, 9, 20, 0, 0, time.UTC)
	events := []models.BreakEvent{
		models.NewBreakEvent(models.BreakEye, base.UnixMilli(), base.Add(3*time.Second)),
		models.NewBreakEvent(models.BreakWater, base.UnixMilli(), base.Add(time.Minute)),
		models.NewBreakEvent(models.BreakStretch, base.AddDate(0, 0, 2).UnixMilli(), base.AddDate(0, 0, 2)),
	}
	for _, ev := range events {
		if err := store.AddBreakEvent(ev); err != nil {
			t.Fatalf("AddBreakEvent() error = %v", err)
		}
	}

	tests := []struct {
		name       string
		start, end string
		want       []models.BreakType
	}{
		{"single day", "2026-01-05", "2026-01-05", []models.BreakType{models.BreakEye, models.BreakWater}},
		{"range", "2026-01-01", "2026-01-31", []models.BreakType{models.BreakEye, models.BreakWater, models.BreakStretch}},
		{"empty", "2026-02-01", "2026-02-28", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetBreakEvents(tt.start, tt.end)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.want))
			}
			for i, typ := range tt.want {
				if got[i].ReminderType != typ {
					t.Errorf("event %d type = %s, want %s", i, got[i].ReminderType, typ)
				}
			}
		})
	}

	got, _ := store.GetBreakEvents("2026-01-05", "2026-01-05")
	if got[1].DelayMs != time.Minute.Milliseconds() {
		t.Errorf("DelayMs = %d, want %d", got[1].DelayMs, time.Minute.Milliseconds())
	}
	if !got[0].ScheduledFor.Equal(base) {
		t.Errorf("ScheduledFor = %v, want %v", got[0].ScheduledFor, base)
	}

	if err := store.AddBreakEvent(events[0]); err == nil {
		t.Error("duplicate event id should be rejected")
	}
}
