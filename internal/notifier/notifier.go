package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/pausa/internal/agent"
	"github.com/julianstephens/pausa/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
	retryDelay        = constants.NotifyRetryDelay
)

// Notifier talks to the pausa-tray companion over its loopback webhook.
type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: constants.DefaultAgentDeliverTimeout}}
}

// Available reports whether a live tray process published a valid lockfile.
func (n *Notifier) Available() bool {
	_, err := locateTray()
	return err == nil
}

// Notify shows a platform notification through the tray, auto-dismissed after
// NotificationDurationMs.
func (n *Notifier) Notify(title, body string) error {
	lock, err := locateTray()
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Title:      title,
		Text:       body,
		DurationMs: constants.NotificationDurationMs,
	}

	var lastErr error
	for attempt := 0; attempt < constants.NotifyMaxRetries; attempt++ {
		lastErr = n.post(context.Background(), lock, constants.NotificationEndpointPath, payload)
		if lastErr == nil {
			return nil
		}
		var status *StatusError
		if errors.As(lastErr, &status) {
			return lastErr
		}
		time.Sleep(retryDelay)
	}
	return lastErr
}

// Deliver forwards an engine message to the tray's background agent endpoint.
func (n *Notifier) Deliver(ctx context.Context, msg agent.Message) error {
	lock, err := locateTray()
	if err != nil {
		return err
	}
	return n.post(ctx, lock, constants.AgentEndpointPath, msg)
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// settings.json may point the lockfile elsewhere
	settingsPath := filepath.Join(trayConfigDir, "settings.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
			return *store.Settings.LockfileDir, nil
		}
	}

	return trayConfigDir, nil
}

func locateTray() (Lockfile, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return Lockfile{}, err
	}
	return findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
}

func findAndValidateTrayProcess(lockfilePath string) (Lockfile, error) {
	lock, err := ReadLockfile(lockfilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Lockfile{}, fmt.Errorf("%s is not running", constants.TrayExecutablePrefix)
		}
		return Lockfile{}, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return Lockfile{}, fmt.Errorf("%s process not running", constants.TrayExecutablePrefix)
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return Lockfile{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.PID, constants.TrayExecutablePrefix, process.Executable())
	}

	return lock, nil
}

// StatusError is a non-200 answer from the tray.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tray request failed with status %d: %s", e.Code, e.Body)
}

func (n *Notifier) post(ctx context.Context, lock Lockfile, path string, v interface{}) error {
	url := fmt.Sprintf("http://127.0.0.1:%d%s", lock.Port, path)

	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.SecretHeader, lock.Secret)

	client := n.client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return &StatusError{Code: res.StatusCode, Body: string(body)}
}
