package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/storage/sqlite"
)

func setupTestStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pausa.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.SetValue(constants.KeyTimersRunning, "true"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dbPath
}

func fixedClock(t *testing.T, start time.Time, step time.Duration) {
	t.Helper()
	orig := nowFunc
	t.Cleanup(func() { nowFunc = orig })
	next := start
	nowFunc = func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

func TestCreate(t *testing.T) {
	_, dbPath := setupTestStore(t)
	fixedClock(t, time.Date(2026, 3, 2, 9, 30, 15, 0, time.Local), time.Minute)

	m := NewManager(dbPath)
	snap, err := m.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := filepath.Join(m.Dir(), "pausa-20260302-093015.db"); snap.Path != want {
		t.Errorf("Path = %s, want %s", snap.Path, want)
	}
	if snap.Size == 0 {
		t.Error("snapshot should not be empty")
	}
	if err := verify(snap.Path); err != nil {
		t.Errorf("snapshot is not a valid database: %v", err)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestUniqueNames(t *testing.T) {
	_, dbPath := setupTestStore(t)
	fixedClock(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local), 0)

	m := NewManager(dbPath)
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		snap, err := m.Create()
		if err != nil {
			t.Fatal(err)
		}
		if seen[snap.Path] {
			t.Fatalf("duplicate backup path %s", snap.Path)
		}
		seen[snap.Path] = true
	}

	snaps, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 3 {
		t.Errorf("List() = %d snapshots, want 3", len(snaps))
	}
}

func TestPrune(t *testing.T) {
	_, dbPath := setupTestStore(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	fixedClock(t, start, time.Hour)

	m := NewManager(dbPath)
	m.Keep = 3
	for i := 0; i < 5; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 3 {
		t.Fatalf("kept %d snapshots, want 3", len(snaps))
	}
	if want := start.Add(4 * time.Hour); !snaps[0].Timestamp.Equal(want) {
		t.Errorf("newest = %v, want %v", snaps[0].Timestamp, want)
	}
	if want := start.Add(2 * time.Hour); !snaps[2].Timestamp.Equal(want) {
		t.Errorf("oldest kept = %v, want %v", snaps[2].Timestamp, want)
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	_, dbPath := setupTestStore(t)
	m := NewManager(dbPath)

	if snaps, err := m.List(); err != nil || len(snaps) != 0 {
		t.Fatalf("List() on missing dir = %v, %v", snaps, err)
	}

	if err := os.MkdirAll(m.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "pausa-garbage.db", "other-20260302-090000.db"} {
		if err := os.WriteFile(filepath.Join(m.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if snaps, _ := m.List(); len(snaps) != 0 {
		t.Errorf("foreign files listed: %v", snaps)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"pausa-20260302-093015.db", true},
		{"pausa-20260302-093015-2.db", true},
		{"pausa-20260302.db", false},
		{"pausa-20260302-093015.sqlite", false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestRestore(t *testing.T) {
	store, dbPath := setupTestStore(t)
	fixedClock(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local), time.Minute)

	m := NewManager(dbPath)
	snap, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SetValue(constants.KeyTimersRunning, "false"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	previous, err := m.Restore(snap.Path)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if previous.Path == "" || !fileExists(previous.Path) {
		t.Error("the replaced database should be snapshotted first")
	}

	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.GetValue(constants.KeyTimersRunning); v != "true" {
		t.Errorf("timersRunning = %q after restore, want true", v)
	}
}

func TestRestoreRejectsInvalid(t *testing.T) {
	_, dbPath := setupTestStore(t)
	m := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{bogus, filepath.Join(t.TempDir(), "missing.db")} {
		if _, err := m.Restore(path); err == nil {
			t.Errorf("Restore(%s) should fail", path)
		}
	}
}
