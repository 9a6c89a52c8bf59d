package engine

import (
	"sync"
	"time"

	"github.com/julianstephens/pausa/internal/agent"
	"github.com/julianstephens/pausa/internal/clock"
	"github.com/julianstephens/pausa/internal/constants"
	apperrors "github.com/julianstephens/pausa/internal/errors"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/optimizer"
	"github.com/julianstephens/pausa/internal/timers"
	"github.com/julianstephens/pausa/internal/workhours"
)

// Persistence is the durable key/value state the engine mirrors every mutation to.
// Loads fall back to defaults; saves are best effort and must not block.
type Persistence interface {
	LoadConfig() models.ReminderConfig
	LoadTimestamps() (models.TimerTimestamps, bool)
	LoadRunning() bool
	LoadSchedule() models.WorkSchedule
	LoadAppliedDay() string

	SaveConfig(models.ReminderConfig)
	SaveTimestamps(models.TimerTimestamps)
	SaveRunning(bool)
	SaveSchedule(models.WorkSchedule)
	SaveAppliedDay(string)
}

// Dispatcher plays the side effects of a due break.
type Dispatcher interface {
	Dispatch(t models.BreakType, cfg models.ReminderConfig)
	RequestPermission() bool
}

// Outbox forwards messages to the background agent without blocking.
type Outbox interface {
	Send(agent.Message)
}

// Recorder stores completed breaks.
type Recorder interface {
	Record(models.BreakEvent) error
}

// Deps are the engine's collaborators. Nil collaborators are replaced with no-ops.
type Deps struct {
	Store      Persistence
	Dispatcher Dispatcher
	Outbox     Outbox
	Recorder   Recorder
}

// Options tunes engine timing.
type Options struct {
	Cooldown         time.Duration // minimum gap between two notifications of one type
	StaleAfter       time.Duration // deadlines older than this are re-initialised
	Suppression      time.Duration // window after start/resume
	QuickSuppression time.Duration // window when notifyOnResume is set
	BackupInterval   time.Duration
	SnoozeDuration   time.Duration
}

// DefaultOptions returns the standard timing.
func DefaultOptions() Options {
	return Options{
		Cooldown:         constants.DefaultNotifyCooldown,
		StaleAfter:       constants.DefaultStaleAfter,
		Suppression:      constants.DefaultSuppressionWindow,
		QuickSuppression: constants.DefaultQuickSuppression,
		BackupInterval:   constants.DefaultBackupInterval,
		SnoozeDuration:   constants.DefaultSnoozeDuration,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Cooldown <= 0 {
		o.Cooldown = d.Cooldown
	}
	if o.StaleAfter <= 0 {
		o.StaleAfter = d.StaleAfter
	}
	if o.Suppression <= 0 {
		o.Suppression = d.Suppression
	}
	if o.QuickSuppression <= 0 {
		o.QuickSuppression = d.QuickSuppression
	}
	if o.BackupInterval <= 0 {
		o.BackupInterval = d.BackupInterval
	}
	if o.SnoozeDuration <= 0 {
		o.SnoozeDuration = d.SnoozeDuration
	}
	return o
}

// Engine is the reminder scheduling state machine. One instance is built per
// process and shared by handle with the presentation layer.
type Engine struct {
	mu   sync.Mutex
	deps Deps
	opts Options

	started  bool
	cfg      models.ReminderConfig
	schedule models.WorkSchedule
	cal      *workhours.Calendar
	timers   *timers.Store
	running  bool
	state    models.ReminderState

	notified      map[models.BreakType]bool
	lastNotified  map[models.BreakType]time.Time
	suppressUntil time.Time
	prevStatus    models.WorkStatus
	appliedDay    string
	lastBackup    time.Time
	agentLastSeen time.Time
}

// New builds an engine. Call Start before delivering ticks.
func New(deps Deps, opts Options) *Engine {
	if deps.Store == nil {
		deps.Store = memoryStore{}
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = nopDispatcher{}
	}
	if deps.Outbox == nil {
		deps.Outbox = nopOutbox{}
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}

	return &Engine{
		deps:         deps,
		opts:         opts.withDefaults(),
		cfg:          models.DefaultReminderConfig(),
		schedule:     models.DefaultWorkSchedule(),
		cal:          workhours.MustNew(models.DefaultWorkSchedule()),
		timers:       timers.New(models.TimerTimestamps{}),
		running:      true,
		notified:     make(map[models.BreakType]bool),
		lastNotified: make(map[models.BreakType]time.Time),
	}
}

// Attach registers the engine's tick and resume handlers on sched.
func (e *Engine) Attach(sched clock.Scheduler) {
	sched.OnTick(e.Tick)
	sched.OnResume(e.HandleResume)
}

// Start loads persisted state, recovers stale deadlines and opens the startup
// suppression window.
func (e *Engine) Start(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = e.deps.Store.LoadConfig()
	if err := e.cfg.Validate(); err != nil {
		logger.Warn("Persisted reminder config rejected, using defaults", "error", err)
		e.cfg = models.DefaultReminderConfig()
	}

	e.schedule = e.deps.Store.LoadSchedule()
	cal, err := workhours.New(e.schedule)
	if err != nil {
		logger.Warn("Persisted work schedule rejected, using defaults", "error", err)
		e.schedule = models.DefaultWorkSchedule()
		cal = workhours.MustNew(e.schedule)
	}
	e.cal = cal

	e.running = e.deps.Store.LoadRunning()
	ts, ok := e.deps.Store.LoadTimestamps()
	e.timers = timers.New(ts)
	if !ok || ts.IsZero() {
		e.timers.Reset(e.cfg, now)
	}
	switch {
	case e.running && e.timers.Paused():
		e.timers.Resume(now)
	case !e.running:
		e.timers.Pause(now)
	}

	if recovered := e.timers.RecoverStale(e.cfg, now, e.opts.StaleAfter); len(recovered) > 0 {
		logger.Info("Recovered stale timers", "types", recovered, "error", apperrors.ErrStaleState)
	}

	e.appliedDay = e.deps.Store.LoadAppliedDay()
	e.prevStatus = ""
	e.notified = make(map[models.BreakType]bool)
	e.lastNotified = make(map[models.BreakType]time.Time)
	e.state = models.ReminderState{}
	e.lastBackup = now
	e.started = true

	e.openSuppressionWindow(now)
	e.persistTimers()
	e.deps.Store.SaveRunning(e.running)
	e.deps.Outbox.Send(agent.StartChecking())
	e.deps.Outbox.Send(agent.ScheduleAll(e.running))
	e.refresh(now)

	logger.Debug("Engine started", "running", e.running, "configured", e.schedule.IsConfigured)
}

// State returns the derived state as of the last tick or operation.
func (e *Engine) State() models.ReminderState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Config returns the active reminder config.
func (e *Engine) Config() models.ReminderConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// WorkSchedule returns the active work schedule.
func (e *Engine) WorkSchedule() models.WorkSchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.schedule
}

// OptimalIntervals returns the intervals derived from the current schedule.
func (e *Engine) OptimalIntervals() models.OptimalIntervals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return optimizer.Compute(e.cal.TotalWorkMinutes(), e.schedule.ExerciseProfile)
}

// Timestamps returns the current deadlines.
func (e *Engine) Timestamps() models.TimerTimestamps {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timers.Timestamps()
}

// RemainingWorkMinutes returns productive minutes left today.
func (e *Engine) RemainingWorkMinutes(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cal.RemainingWorkMinutes(now)
}

// AgentLastSeen returns when the agent last answered a ping.
func (e *Engine) AgentLastSeen() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.agentLastSeen
}

// Suppressed reports whether due evaluation is held back at now.
func (e *Engine) Suppressed(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return now.Before(e.suppressUntil)
}

func (e *Engine) persistTimers() {
	e.deps.Store.SaveTimestamps(e.timers.Timestamps())
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(models.BreakType, models.ReminderConfig) {}
func (nopDispatcher) RequestPermission() bool                          { return false }

type nopOutbox struct{}

func (nopOutbox) Send(agent.Message) {}

type nopRecorder struct{}

func (nopRecorder) Record(models.BreakEvent) error { return nil }

type memoryStore struct{}

func (memoryStore) LoadConfig() models.ReminderConfig { return models.DefaultReminderConfig() }
func (memoryStore) LoadTimestamps() (models.TimerTimestamps, bool) {
	return models.TimerTimestamps{}, false
}
func (memoryStore) LoadRunning() bool                     { return true }
func (memoryStore) LoadSchedule() models.WorkSchedule     { return models.DefaultWorkSchedule() }
func (memoryStore) LoadAppliedDay() string                { return "" }
func (memoryStore) SaveConfig(models.ReminderConfig)      {}
func (memoryStore) SaveTimestamps(models.TimerTimestamps) {}
func (memoryStore) SaveRunning(bool)                      {}
func (memoryStore) SaveSchedule(models.WorkSchedule)      {}
func (memoryStore) SaveAppliedDay(string)                 {}
