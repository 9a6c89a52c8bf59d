package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	if _, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("NewRunner() should reject an unknown driver")
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name      string
		files     fstest.MapFS
		want      []int
		wantError string
	}{
		{
			name: "sorted by version",
			files: fstest.MapFS{
				"002_second.sql": {Data: []byte("SELECT 2;")},
				"001_first.sql":  {Data: []byte("SELECT 1;")},
				"README.md":      {Data: []byte("ignored")},
			},
			want: []int{1, 2},
		},
		{
			name:      "bad filename",
			files:     fstest.MapFS{"init.sql": {Data: []byte("SELECT 1;")}},
			wantError: "invalid migration filename",
		},
		{
			name:      "zero version",
			files:     fstest.MapFS{"000_init.sql": {Data: []byte("SELECT 1;")}},
			wantError: "must be at least 1",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"001_a.sql":  {Data: []byte("SELECT 1;")},
				"0001_b.sql": {Data: []byte("SELECT 1;")},
			},
			wantError: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRunner(nil, tt.files, DriverSQLite)
			if err != nil {
				t.Fatal(err)
			}
			got, err := r.ReadMigrationFiles()
			if tt.wantError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantError) {
					t.Fatalf("ReadMigrationFiles() error = %v, want %q", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(got), len(tt.want))
			}
			for i, v := range tt.want {
				if got[i].Version != v {
					t.Errorf("migration %d version = %d, want %d", i, got[i].Version, v)
				}
			}
		})
	}
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)
	files := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"002_more.sql": {Data: []byte("CREATE TABLE b (id INTEGER PRIMARY KEY);")},
	}
	r, err := NewRunner(db, files, DriverSQLite)
	if err != nil {
		t.Fatal(err)
	}

	var logs []string
	n, err := r.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if n != 2 {
		t.Errorf("applied %d, want 2", n)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	v, err := r.GetCurrentVersion()
	if err != nil || v != 2 {
		t.Errorf("GetCurrentVersion() = %d, %v; want 2", v, err)
	}

	n, err = r.ApplyMigrations(nil)
	if err != nil || n != 0 {
		t.Errorf("second ApplyMigrations() = %d, %v; want 0, nil", n, err)
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := openTestDB(t)
	files := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE nope (;")},
	}
	r, _ := NewRunner(db, files, DriverSQLite)

	n, err := r.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if n != 1 {
		t.Errorf("applied %d before failure, want 1", n)
	}
	if v, _ := r.GetCurrentVersion(); v != 1 {
		t.Errorf("version after failure = %d, want 1", v)
	}
}

func TestValidateVersion(t *testing.T) {
	db := openTestDB(t)
	files := fstest.MapFS{"001_init.sql": {Data: []byte("SELECT 1;")}}
	r, _ := NewRunner(db, files, DriverSQLite)

	if err := r.ValidateVersion(); err != nil {
		t.Errorf("fresh database should validate: %v", err)
	}
	if err := r.SetVersion(5); err != nil {
		t.Fatal(err)
	}
	if err := r.ValidateVersion(); err == nil {
		t.Error("a database newer than the binary should fail validation")
	}
	if _, err := r.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should refuse a newer database")
	}
}
