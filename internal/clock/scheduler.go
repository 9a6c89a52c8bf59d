package clock

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/pausa/internal/logger"
)

// Handler receives the instant of a tick or resume event.
type Handler func(now time.Time)

// Scheduler delivers periodic ticks and resume notifications.
type Scheduler interface {
	OnTick(Handler)
	OnResume(Handler)
	Run(ctx context.Context) error
}

type handlers struct {
	mu     sync.Mutex
	tick   []Handler
	resume []Handler
}

func (h *handlers) OnTick(fn Handler) {
	h.mu.Lock()
	h.tick = append(h.tick, fn)
	h.mu.Unlock()
}

func (h *handlers) OnResume(fn Handler) {
	h.mu.Lock()
	h.resume = append(h.resume, fn)
	h.mu.Unlock()
}

func (h *handlers) fireTick(now time.Time) {
	h.mu.Lock()
	fns := append([]Handler(nil), h.tick...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(now)
	}
}

func (h *handlers) fireResume(now time.Time) {
	h.mu.Lock()
	fns := append([]Handler(nil), h.resume...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(now)
	}
}

type tickerHandle struct {
	C    <-chan time.Time
	stop func()
}

var tickerFactory = func(d time.Duration) tickerHandle {
	t := time.NewTicker(d)
	return tickerHandle{
		C:    t.C,
		stop: t.Stop,
	}
}

// Ticker is the wall-clock scheduler. A gap between two ticks longer than
// interval+resumeGap is reported as a resume before the tick is delivered.
type Ticker struct {
	handlers

	clock     Clock
	interval  time.Duration
	resumeGap time.Duration
	resumeCh  chan struct{}
}

// NewTicker builds a scheduler ticking every interval.
func NewTicker(clk Clock, interval, resumeGap time.Duration) *Ticker {
	if clk == nil {
		clk = System
	}
	return &Ticker{
		clock:     clk,
		interval:  interval,
		resumeGap: resumeGap,
		resumeCh:  make(chan struct{}, 1),
	}
}

// Resume requests a resume event on the scheduler goroutine.
func (t *Ticker) Resume() {
	select {
	case t.resumeCh <- struct{}{}:
	default:
	}
}

// Run delivers events until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := tickerFactory(t.interval)
	defer ticker.stop()

	// Wall-clock readings, so time spent in system suspend shows up as a gap.
	last := t.clock.Now().Round(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.resumeCh:
			now := t.clock.Now()
			last = now.Round(0)
			t.fireResume(now)
		case <-ticker.C:
			now := t.clock.Now()
			wall := now.Round(0)
			if gap := wall.Sub(last); gap > t.interval+t.resumeGap {
				logger.Debug("Wall clock gap detected", "gap", gap)
				t.fireResume(now)
			}
			last = wall
			t.fireTick(now)
		}
	}
}

// Manual is a scheduler driven explicitly by tests.
type Manual struct {
	handlers
}

// NewManual returns a scheduler that only fires when told to.
func NewManual() *Manual {
	return &Manual{}
}

// Tick delivers a tick at now.
func (m *Manual) Tick(now time.Time) {
	m.fireTick(now)
}

// Resume delivers a resume event at now.
func (m *Manual) Resume(now time.Time) {
	m.fireResume(now)
}

// Run blocks until ctx is cancelled.
func (m *Manual) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}
