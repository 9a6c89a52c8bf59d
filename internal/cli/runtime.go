package cli

import (
	"context"
	"sync"

	"github.com/julianstephens/pausa/internal/agent"
	"github.com/julianstephens/pausa/internal/clock"
	"github.com/julianstephens/pausa/internal/config"
	"github.com/julianstephens/pausa/internal/engine"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/notifier"
	"github.com/julianstephens/pausa/internal/stats"
	"github.com/julianstephens/pausa/internal/tone"
)

// Runtime is a fully wired engine with its background workers.
type Runtime struct {
	*Session
	Scheduler  *clock.Ticker
	Dispatcher *tone.Dispatcher
	Outbox     *agent.Outbox // nil when the agent is disabled
	Recorder   *stats.Recorder
	Tray       *notifier.Notifier
}

// NewRuntime wires the engine to the tray, the tone dispatcher, the break
// event recorder and a wall-clock scheduler. haptics may be nil.
func (c *Context) NewRuntime(haptics tone.Haptics) *Runtime {
	cfg := c.Config
	if cfg == nil {
		cfg = config.Default()
	}

	tray := notifier.New()
	rt := &Runtime{
		Tray: tray,
		Dispatcher: tone.NewDispatcher(tone.Capabilities{
			Audio:   &tone.ExecAudio{},
			Haptics: haptics,
			Alerts:  tone.TrayAlerts{Tray: tray},
		}),
		Recorder: stats.NewRecorder(c.Store, 0),
	}

	deps := engine.Deps{Dispatcher: rt.Dispatcher, Recorder: rt.Recorder}
	if cfg.Agent.Enabled {
		rt.Outbox = agent.NewOutbox(tray, cfg.Agent.QueueSize)
		deps.Outbox = rt.Outbox
	}

	rt.Session = c.NewSession(deps)
	rt.Scheduler = clock.NewTicker(clock.System, cfg.Engine.TickInterval.Std(), cfg.Engine.ResumeGap.Std())
	rt.Engine.Attach(rt.Scheduler)
	return rt
}

// Start runs the scheduler and workers until ctx is cancelled. The returned
// function waits for them to stop and flushes pending writes.
func (rt *Runtime) Start(ctx context.Context) func() error {
	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Worker stopped", "worker", name, "error", err)
			}
		}()
	}

	run("writer", rt.Writer().Run)
	run("recorder", rt.Recorder.Run)
	if rt.Outbox != nil {
		run("outbox", rt.Outbox.Run)
	}
	run("scheduler", rt.Scheduler.Run)

	return func() error {
		wg.Wait()
		rt.Dispatcher.Wait()
		return rt.Close()
	}
}
