package engine

import (
	"time"

	"github.com/julianstephens/pausa/internal/agent"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/optimizer"
	"github.com/julianstephens/pausa/internal/timers"
	"github.com/julianstephens/pausa/internal/utils"
)

// Tick recomputes time left and fires every break that became due.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}

	status := e.cal.Status(now)
	e.maybeApplyOptimal(now, status)
	e.prevStatus = status

	if e.running && e.gateOpen(now) {
		e.clearFutureNotified(now)
		if now.Before(e.suppressUntil) {
			if !e.cfg.NotifyOnResume {
				e.advanceExpiredSilently(now)
			}
		} else {
			for _, t := range models.BreakTypes {
				if e.due(t, now) {
					e.fire(t, now)
				}
			}
		}
	}

	if now.Sub(e.lastBackup) >= e.opts.BackupInterval {
		e.backup(now)
		e.deps.Outbox.Send(agent.Ping())
	}

	e.refresh(now)
}

// HandleResume restarts the suppression window after the session regains the
// foreground or the host wakes up.
func (e *Engine) HandleResume(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}

	e.openSuppressionWindow(now)

	if e.running {
		if e.cfg.NotifyOnResume {
			e.reloadPersisted(now)
		} else {
			e.advanceExpiredSilently(now)
		}
		e.clearFutureNotified(now)
		e.persistTimers()
	}

	e.deps.Outbox.Send(agent.ScheduleAll(e.running))
	e.refresh(now)
	logger.Debug("Session resumed", "suppress_until", e.suppressUntil)
}

// HandleBlur stamps a backup when the session loses the foreground and asks the
// agent to take over checking.
func (e *Engine) HandleBlur(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	e.backup(now)
	e.deps.Outbox.Send(agent.CheckTimers())
}

// gateOpen reports whether the work schedule allows reminders at now.
func (e *Engine) gateOpen(now time.Time) bool {
	return !e.schedule.IsConfigured || e.cal.IsWithinWorkHours(now)
}

func (e *Engine) suppressionWindow() time.Duration {
	if e.cfg.NotifyOnResume {
		return e.opts.QuickSuppression
	}
	return e.opts.Suppression
}

func (e *Engine) openSuppressionWindow(now time.Time) {
	e.suppressUntil = now.Add(e.suppressionWindow())
}

func (e *Engine) due(t models.BreakType, now time.Time) bool {
	if !e.timers.Expired(t, now) {
		return false
	}
	if e.state.ModalOpen(t) || e.notified[t] {
		return false
	}
	last, ok := e.lastNotified[t]
	return !ok || now.Sub(last) >= e.opts.Cooldown
}

func (e *Engine) fire(t models.BreakType, now time.Time) {
	e.notified[t] = true
	e.lastNotified[t] = now
	e.state.SetModal(t, true)
	e.deps.Dispatcher.Dispatch(t, e.cfg)
	logger.Info("Break due", "type", t)
}

// clearFutureNotified drops the notified flag of every type whose deadline is
// back in the future.
func (e *Engine) clearFutureNotified(now time.Time) {
	for _, t := range models.BreakTypes {
		if !e.timers.Expired(t, now) {
			e.notified[t] = false
		}
	}
}

// advanceExpiredSilently moves expired deadlines of types without an open modal
// to now plus their interval.
func (e *Engine) advanceExpiredSilently(now time.Time) {
	var advanced []models.BreakType
	for _, t := range models.BreakTypes {
		if e.state.ModalOpen(t) || !e.timers.Expired(t, now) {
			continue
		}
		e.timers.ResetOne(t, e.cfg, now)
		e.notified[t] = false
		advanced = append(advanced, t)
	}
	if len(advanced) > 0 {
		logger.Debug("Skipped breaks that expired while suspended", "types", advanced)
		e.persistTimers()
	}
}

// reloadPersisted picks up durable deadlines written elsewhere so breaks that
// expired while dormant are still honoured, unless any of them is stale. A
// persisted deadline earlier than the one in memory is ignored.
func (e *Engine) reloadPersisted(now time.Time) {
	ts, ok := e.deps.Store.LoadTimestamps()
	if ok && !ts.IsZero() && !ts.Paused() && !timers.AnyStale(ts, now, e.opts.StaleAfter) {
		e.timers.Merge(ts)
		return
	}
	if recovered := e.timers.RecoverStale(e.cfg, now, e.opts.StaleAfter); len(recovered) > 0 {
		logger.Info("Recovered stale timers on resume", "types", recovered)
	}
}

// maybeApplyOptimal applies the schedule-derived intervals once per day, when
// the work status enters working.
func (e *Engine) maybeApplyOptimal(now time.Time, status models.WorkStatus) {
	if !e.schedule.IsConfigured || status != models.StatusWorking || e.prevStatus == models.StatusWorking {
		return
	}
	if e.appliedDay == utils.DayString(now) {
		return
	}
	e.applyOptimal(now)
}

func (e *Engine) applyOptimal(now time.Time) {
	intervals := optimizer.Compute(e.cal.TotalWorkMinutes(), e.schedule.ExerciseProfile)
	e.cfg = e.cfg.WithIntervals(intervals)
	e.appliedDay = utils.DayString(now)
	e.resetAll(now)

	e.deps.Store.SaveConfig(e.cfg)
	e.deps.Store.SaveAppliedDay(e.appliedDay)
	e.persistTimers()
	e.deps.Outbox.Send(agent.ScheduleAll(e.running))

	logger.Info("Applied optimal intervals",
		"eye", intervals.EyeInterval,
		"stretch", intervals.StretchInterval,
		"water", intervals.WaterInterval)
}

// resetAll re-initialises every deadline while keeping the run state.
func (e *Engine) resetAll(now time.Time) {
	e.timers.Reset(e.cfg, now)
	if !e.running {
		e.timers.Pause(now)
	}
	for _, t := range models.BreakTypes {
		e.notified[t] = false
		e.state.SetModal(t, false)
	}
}

func (e *Engine) backup(now time.Time) {
	ts := e.timers.Timestamps()
	saved := now.UnixMilli()
	ts.SavedAt = &saved
	e.deps.Store.SaveTimestamps(ts)
	e.lastBackup = now
}

// refresh rebuilds the derived state, keeping modal flags.
func (e *Engine) refresh(now time.Time) {
	s := e.state
	s.IsRunning = e.running
	s.WorkStatus = e.cal.Status(now)
	s.TimeUntilNextWork = e.cal.TimeUntilNextWork(now)
	s.InWorkHours = e.gateOpen(now)

	gated := e.running && !s.InWorkHours
	for _, t := range models.BreakTypes {
		if gated {
			s.SetTimeLeft(t, s.TimeUntilNextWork)
			continue
		}
		s.SetTimeLeft(t, e.timers.TimeLeft(t, now))
	}
	e.state = s
}
