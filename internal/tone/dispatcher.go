package tone

import (
	"context"
	"os"
	"sync"
	"time"

	apperrors "github.com/julianstephens/pausa/internal/errors"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/models"
)

// HapticPattern is the on/off vibration pattern of a due break.
var HapticPattern = []time.Duration{200 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

const (
	toastBuffer = 16
	playTimeout = 10 * time.Second
)

// Toast is an in-app notification.
type Toast struct {
	Type  models.BreakType
	Title string
	Body  string
}

// Dispatcher plays the side effects of due breaks. Every effect runs in its
// own goroutine and fails independently.
type Dispatcher struct {
	caps   Capabilities
	toasts chan Toast

	deniedOnce sync.Once
	wg         sync.WaitGroup
}

// NewDispatcher builds a dispatcher over caps. Nil features are treated as unavailable.
func NewDispatcher(caps Capabilities) *Dispatcher {
	none := Unavailable()
	if caps.Audio == nil {
		caps.Audio = none.Audio
	}
	if caps.Haptics == nil {
		caps.Haptics = none.Haptics
	}
	if caps.Alerts == nil {
		caps.Alerts = none.Alerts
	}
	return &Dispatcher{caps: caps, toasts: make(chan Toast, toastBuffer)}
}

// Toasts delivers in-app notifications for the presentation layer.
func (d *Dispatcher) Toasts() <-chan Toast {
	return d.toasts
}

// Dispatch fires sound, haptics and a notification for a due break of type t.
// It returns without waiting on any of them.
func (d *Dispatcher) Dispatch(t models.BreakType, cfg models.ReminderConfig) {
	msg := MessageFor(t)

	if cfg.SoundFor(t) && d.caps.Audio.Available() {
		d.goEffect("sound", func() error {
			return d.play(context.Background(), cfg.NotificationTone, cfg.SoundVolume)
		})
	}

	if d.caps.Haptics.Available() {
		d.goEffect("haptics", func() error {
			return d.caps.Haptics.Vibrate(HapticPattern)
		})
	}

	// Checking permission may read the tray lockfile and scan processes.
	d.goEffect("notification", func() error {
		if !d.caps.Alerts.Permitted() {
			d.announceDenied()
			d.toast(Toast{Type: t, Title: msg.Title, Body: msg.Body})
			return nil
		}
		if err := d.caps.Alerts.Notify(msg.Title, msg.Body); err != nil {
			d.toast(Toast{Type: t, Title: msg.Title, Body: msg.Body})
			return err
		}
		return nil
	})
}

// RequestPermission reports whether platform notifications can be shown.
func (d *Dispatcher) RequestPermission() bool {
	if d.caps.Alerts.Permitted() {
		return true
	}
	d.announceDenied()
	return false
}

// Preview plays a preset synchronously.
func (d *Dispatcher) Preview(ctx context.Context, name models.NotificationTone, volume int) error {
	if !d.caps.Audio.Available() {
		return apperrors.SideEffect("sound", ErrUnavailable)
	}
	return d.play(ctx, name, volume)
}

// Wait blocks until every in-flight effect has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) play(ctx context.Context, name models.NotificationTone, volume int) error {
	preset, err := Lookup(name)
	if err != nil {
		return err
	}
	path, err := writeTemp(preset, volume)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	ctx, cancel := context.WithTimeout(ctx, playTimeout)
	defer cancel()
	return d.caps.Audio.Play(ctx, path)
}

func (d *Dispatcher) goEffect(effect string, fn func() error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Debug("Side effect panicked", "effect", effect, "panic", r)
			}
		}()
		if err := fn(); err != nil {
			logger.Debug("Side effect failed", "error", apperrors.SideEffect(effect, err))
		}
	}()
}

func (d *Dispatcher) announceDenied() {
	d.deniedOnce.Do(func() {
		logger.Warn("Desktop notifications unavailable, falling back to in-app alerts", "error", apperrors.ErrPermissionDenied)
		d.toast(Toast{
			Title: "Desktop notifications unavailable",
			Body:  "Start pausa-tray to get system notifications. Reminders will show here instead.",
		})
	})
}

func (d *Dispatcher) toast(t Toast) {
	select {
	case d.toasts <- t:
	default:
	}
}
