package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/pausa/internal/agent"
	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/models"
)

// Mock Process
type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}

	expectedDefault := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/pausa/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestParseLockfile(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantErr    string
		wantSecret string
	}{
		{"old two part format", "8080|12345", "malformed", ""},
		{"garbage", "invalid", "malformed", ""},
		{"empty secret", "8080|12345|", "secret", ""},
		{"empty port", "|12345|testsecret123", "port", ""},
		{"port out of range", "99999|12345|testsecret123", "range", ""},
		{"bad pid", "8080|abc|testsecret123", "process ID", ""},
		{"valid", "8080|12345|testsecret123\n", "", "testsecret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ParseLockfile(tt.content)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseLockfile(%q) error = %v, want mention of %q", tt.content, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.Port != 8080 || l.PID != 12345 || l.Secret != tt.wantSecret {
				t.Errorf("ParseLockfile() = %+v", l)
			}
		})
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", constants.EngineLockfileName)
	l := NewLockfile(4242)
	if l.PID != os.Getpid() || l.Secret == "" {
		t.Fatalf("NewLockfile() = %+v", l)
	}

	if err := WriteLockfile(path, l); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLockfile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != l {
		t.Errorf("ReadLockfile() = %+v, want %+v", got, l)
	}

	if err := RemoveLockfile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lockfile should be removed")
	}
	if err := RemoveLockfile(path); err != nil {
		t.Errorf("removing a missing lockfile should succeed, got %v", err)
	}
}

func TestRemoveLockfileKeepsForeignLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.EngineLockfileName)
	if err := WriteLockfile(path, Lockfile{Port: 1, PID: os.Getpid() + 1, Secret: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := RemoveLockfile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("a lockfile owned by another process should be kept")
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, err := findAndValidateTrayProcess(lockfilePath); err == nil || !strings.Contains(err.Error(), "not running") {
		t.Errorf("expected not running error for missing lockfile, got %v", err)
	}

	if err := os.WriteFile(lockfilePath, []byte("8080|12345|testsecret123"), 0644); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return nil, nil
	}
	if _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing process")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "pausa-tray"}, nil
	}
	lock, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Port != 8080 || lock.Secret != "testsecret123" {
		t.Errorf("unexpected lockfile %+v", lock)
	}
}

type received struct {
	path    string
	payload WebhookPayload
	message agent.Message
}

// installTray points the notifier at an httptest server posing as pausa-tray.
func installTray(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}

	configDir := t.TempDir()
	lockDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := WriteLockfile(filepath.Join(lockDir, constants.NotifierLockfileName), Lockfile{Port: port, PID: 777, Secret: "test-secret"}); err != nil {
		t.Fatal(err)
	}

	oldUserConfigDirFunc, oldFindProcessFunc, oldRetryDelay := userConfigDirFunc, findProcessFunc, retryDelay
	t.Cleanup(func() {
		userConfigDirFunc, findProcessFunc, retryDelay = oldUserConfigDirFunc, oldFindProcessFunc, oldRetryDelay
	})
	userConfigDirFunc = func() (string, error) { return configDir, nil }
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "pausa-tray"}, nil
	}
	retryDelay = 0
}

func TestNotifyAndDeliver(t *testing.T) {
	got := make(chan received, 4)
	installTray(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(constants.SecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}

		rec := received{path: r.URL.Path}
		var err error
		if r.URL.Path == constants.AgentEndpointPath {
			err = json.NewDecoder(r.Body).Decode(&rec.message)
		} else {
			err = json.NewDecoder(r.Body).Decode(&rec.payload)
		}
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if rec.payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		got <- rec
		w.WriteHeader(http.StatusOK)
	})

	n := New()
	if !n.Available() {
		t.Fatal("tray should be available")
	}

	if err := n.Notify("Eye break", "Look away"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	rec := <-got
	if rec.path != "/" || rec.payload.Title != "Eye break" || rec.payload.DurationMs != constants.NotificationDurationMs {
		t.Errorf("unexpected notification %+v", rec)
	}

	if err := n.Deliver(context.Background(), agent.ResetCooldown(models.BreakEye)); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	rec = <-got
	if rec.path != constants.AgentEndpointPath || rec.message.Type != agent.TypeResetCooldown || rec.message.ReminderType != models.BreakEye {
		t.Errorf("unexpected agent message %+v", rec)
	}

	err := n.Notify("Eye break", "fail")
	if err == nil {
		t.Fatal("expected error for server failure")
	}
	if status, ok := err.(*StatusError); !ok || status.Code != http.StatusInternalServerError {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestUnavailableWithoutTray(t *testing.T) {
	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	dir := t.TempDir()
	userConfigDirFunc = func() (string, error) { return dir, nil }

	n := New()
	if n.Available() {
		t.Error("no lockfile means no tray")
	}
	if err := n.Notify("t", "b"); err == nil {
		t.Error("Notify should fail without a tray")
	}
}
