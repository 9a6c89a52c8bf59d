package tone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

var (
	lookPathFunc = exec.LookPath
	sleepFunc    = time.Sleep
)

// ErrUnavailable is returned by a feature the host does not support.
var ErrUnavailable = errors.New("feature unavailable")

// Audio plays a rendered WAV file.
type Audio interface {
	Available() bool
	Play(ctx context.Context, wavPath string) error
}

// Haptics plays a vibration pattern of alternating on/off durations.
type Haptics interface {
	Available() bool
	Vibrate(pattern []time.Duration) error
}

// Alerts delivers platform notifications.
type Alerts interface {
	Available() bool
	Permitted() bool
	Notify(title, body string) error
}

// Capabilities is the set of side effects the host supports.
type Capabilities struct {
	Audio   Audio
	Haptics Haptics
	Alerts  Alerts
}

// Unavailable returns capabilities where every feature is missing.
func Unavailable() Capabilities {
	return Capabilities{Audio: noAudio{}, Haptics: noHaptics{}, Alerts: noAlerts{}}
}

type noAudio struct{}

func (noAudio) Available() bool                    { return false }
func (noAudio) Play(context.Context, string) error { return ErrUnavailable }

type noHaptics struct{}

func (noHaptics) Available() bool               { return false }
func (noHaptics) Vibrate([]time.Duration) error { return ErrUnavailable }

type noAlerts struct{}

func (noAlerts) Available() bool             { return false }
func (noAlerts) Permitted() bool             { return false }
func (noAlerts) Notify(string, string) error { return ErrUnavailable }

// players are tried in order.
var players = []string{"paplay", "aplay", "afplay"}

// ExecAudio plays WAV files with the first system player found on PATH.
type ExecAudio struct {
	once   sync.Once
	player string
}

func (a *ExecAudio) resolve() string {
	a.once.Do(func() {
		for _, name := range players {
			if path, err := lookPathFunc(name); err == nil {
				a.player = path
				return
			}
		}
	})
	return a.player
}

func (a *ExecAudio) Available() bool {
	return a.resolve() != ""
}

func (a *ExecAudio) Play(ctx context.Context, wavPath string) error {
	player := a.resolve()
	if player == "" {
		return ErrUnavailable
	}
	if out, err := exec.CommandContext(ctx, player, wavPath).CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", player, err, out)
	}
	return nil
}

// BellHaptics approximates vibration with the terminal bell: one bell per
// "on" step, silence for each "off" step.
type BellHaptics struct {
	Out io.Writer
}

func (h BellHaptics) Available() bool {
	return h.Out != nil
}

func (h BellHaptics) Vibrate(pattern []time.Duration) error {
	if h.Out == nil {
		return ErrUnavailable
	}
	for i, d := range pattern {
		if i%2 == 0 {
			if _, err := io.WriteString(h.Out, "\a"); err != nil {
				return err
			}
		}
		sleepFunc(d)
	}
	return nil
}

// Notifier is the tray transport used for platform alerts.
type Notifier interface {
	Available() bool
	Notify(title, body string) error
}

// TrayAlerts delivers alerts through the pausa-tray companion. Permission is
// granted while the tray is running.
type TrayAlerts struct {
	Tray Notifier
}

func (a TrayAlerts) Available() bool {
	return a.Tray != nil
}

func (a TrayAlerts) Permitted() bool {
	return a.Tray != nil && a.Tray.Available()
}

func (a TrayAlerts) Notify(title, body string) error {
	if a.Tray == nil {
		return ErrUnavailable
	}
	return a.Tray.Notify(title, body)
}
