package engine

import (
	"fmt"
	"time"

	"github.com/julianstephens/pausa/internal/agent"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/workhours"
)

// ToggleRunning pauses or resumes every timer and returns the new run state.
func (e *Engine) ToggleRunning(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		e.timers.Pause(now)
	} else {
		e.timers.Resume(now)
	}
	e.running = !e.running

	e.persistTimers()
	e.deps.Store.SaveRunning(e.running)
	e.deps.Outbox.Send(agent.ScheduleAll(e.running))
	e.refresh(now)

	logger.Debug("Timers toggled", "running", e.running)
	return e.running
}

// ResetTimers re-initialises every deadline from the current config and
// clears all notified flags and modals.
func (e *Engine) ResetTimers(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetAll(now)
	e.persistTimers()
	e.deps.Outbox.Send(agent.ScheduleAll(e.running))
	e.refresh(now)
}

// UpdateConfig applies a partial config update. Types whose interval changed
// restart from a full interval.
func (e *Engine) UpdateConfig(patch models.ConfigPatch, now time.Time) (models.ReminderConfig, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.cfg.Apply(patch)
	if err := next.Validate(); err != nil {
		return e.cfg, err
	}

	var changed []models.BreakType
	for _, t := range models.BreakTypes {
		if next.IntervalMinutes(t) != e.cfg.IntervalMinutes(t) {
			changed = append(changed, t)
		}
	}
	e.cfg = next
	e.deps.Store.SaveConfig(e.cfg)

	if len(changed) > 0 {
		for _, t := range changed {
			e.timers.ResetOne(t, e.cfg, now)
			e.notified[t] = false
			e.state.SetModal(t, false)
		}
		e.persistTimers()
		e.deps.Outbox.Send(agent.ScheduleAll(e.running))
	}
	e.refresh(now)
	return e.cfg, nil
}

// UpdateWorkSchedule applies a partial schedule update. Reconfiguring while
// working re-applies the optimal intervals at once.
func (e *Engine) UpdateWorkSchedule(patch models.WorkSchedulePatch, now time.Time) (models.WorkSchedule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.schedule.Apply(patch)
	cal, err := workhours.New(next)
	if err != nil {
		return e.schedule, err
	}
	e.schedule = next
	e.cal = cal
	e.deps.Store.SaveSchedule(e.schedule)

	status := e.cal.Status(now)
	if e.schedule.IsConfigured && status == models.StatusWorking {
		e.applyOptimal(now)
	}
	e.prevStatus = status
	e.refresh(now)
	return e.schedule, nil
}

// CloseModal acknowledges a break of type t: it closes the modal, records the
// completion and starts the next cycle.
func (e *Engine) CloseModal(t models.BreakType, now time.Time) error {
	if !t.Valid() {
		return fmt.Errorf("unknown break type %q", t)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	wasDue := e.state.ModalOpen(t) || e.timers.Expired(t, now)
	deadline := e.timers.Timestamps().EndTime(t)

	e.state.SetModal(t, false)
	e.timers.ResetOne(t, e.cfg, now)
	e.notified[t] = false
	e.persistTimers()

	if wasDue {
		if err := e.deps.Recorder.Record(models.NewBreakEvent(t, deadline, now)); err != nil {
			logger.Warn("Failed to record break", "type", t, "error", err)
		}
	}

	e.deps.Outbox.Send(agent.ResetCooldown(t))
	e.deps.Outbox.Send(agent.ScheduleNotification(t, e.cfg.Interval(t)))
	e.refresh(now)
	return nil
}

// CloseEyeModal, CloseStretchModal and CloseWaterModal acknowledge one break
// type. CloseModal only fails for unknown types, so they return nothing.
func (e *Engine) CloseEyeModal(now time.Time) { e.closeKnown(models.BreakEye, now) }

func (e *Engine) CloseStretchModal(now time.Time) { e.closeKnown(models.BreakStretch, now) }

func (e *Engine) CloseWaterModal(now time.Time) { e.closeKnown(models.BreakWater, now) }

func (e *Engine) closeKnown(t models.BreakType, now time.Time) {
	if err := e.CloseModal(t, now); err != nil {
		logger.Error("Failed to acknowledge break", "type", t, "error", err)
	}
}

// RequestNotificationPermission asks the dispatcher for platform notification access.
func (e *Engine) RequestNotificationPermission() bool {
	return e.deps.Dispatcher.RequestPermission()
}

// HandleAgentMessage applies a message received from the background agent.
func (e *Engine) HandleAgentMessage(msg agent.Message, now time.Time) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if !msg.Inbound() {
		return fmt.Errorf("unexpected outbound message %s", msg.Type)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch msg.Type {
	case agent.TypeNotificationSent:
		if !e.running {
			return nil
		}
		e.notified[msg.ReminderType] = true
		e.lastNotified[msg.ReminderType] = now
		e.state.SetModal(msg.ReminderType, true)
	case agent.TypeSnoozeRequested:
		t := msg.ReminderType
		e.timers.Delay(t, e.opts.SnoozeDuration, now)
		e.state.SetModal(t, false)
		e.notified[t] = false
		e.persistTimers()
		e.deps.Outbox.Send(agent.ScheduleNotification(t, e.opts.SnoozeDuration))
		logger.Info("Break snoozed", "type", t, "for", e.opts.SnoozeDuration)
	case agent.TypePong:
		e.agentLastSeen = now
	}
	e.refresh(now)
	return nil
}
