package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/tone"
)

const (
	toastLifetime = 6 * time.Second
	barWidth      = 40
)

// Engine is the part of the scheduling engine the UI drives.
type Engine interface {
	State() models.ReminderState
	Config() models.ReminderConfig
	ToggleRunning(now time.Time) bool
	ResetTimers(now time.Time)
	CloseModal(t models.BreakType, now time.Time) error
	HandleBlur(now time.Time)
	RemainingWorkMinutes(now time.Time) int
}

type toastEntry struct {
	tone.Toast
	until time.Time
}

type Model struct {
	engine Engine
	resume func()
	now    func() time.Time
	toasts <-chan tone.Toast

	keys KeyMap
	help help.Model
	bars map[models.BreakType]progress.Model

	state     models.ReminderState
	cfg       models.ReminderConfig
	remaining int
	active    []toastEntry
	focused   bool
	quitting  bool
	width     int
	height    int
}

// NewModel builds the UI over eng. resume is called when the terminal regains
// focus; toasts may be nil.
func NewModel(eng Engine, resume func(), now func() time.Time, toasts <-chan tone.Toast) Model {
	if now == nil {
		now = time.Now
	}
	if resume == nil {
		resume = func() {}
	}
	bars := make(map[models.BreakType]progress.Model, len(models.BreakTypes))
	for _, t := range models.BreakTypes {
		bars[t] = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage())
	}

	m := Model{
		engine:  eng,
		resume:  resume,
		now:     now,
		toasts:  toasts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		bars:    bars,
		focused: true,
	}
	m.sync(now())
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Toggle, m.keys.Reset}
	if m.openModal() != "" {
		keys = append(keys, m.keys.Ack)
	}
	return append(keys, m.keys.Help, m.keys.Quit)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Toggle, m.keys.Reset, m.keys.Help, m.keys.Quit},
		{m.keys.AckEye, m.keys.AckStretch, m.keys.AckWater, m.keys.Ack},
	}
}

type tickMsg time.Time

type toastMsg tone.Toast

func (t toastMsg) toast() tone.Toast { return tone.Toast(t) }

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForToast(ch <-chan tone.Toast) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg(t)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForToast(m.toasts))
}

// sync copies the engine's view of the world into the model.
func (m *Model) sync(now time.Time) {
	m.state = m.engine.State()
	m.cfg = m.engine.Config()
	m.remaining = m.engine.RemainingWorkMinutes(now)

	kept := m.active[:0]
	for _, t := range m.active {
		if now.Before(t.until) {
			kept = append(kept, t)
		}
	}
	m.active = kept
}

// openModal returns the first break type whose modal is showing.
func (m Model) openModal() models.BreakType {
	for _, t := range models.BreakTypes {
		if m.state.ModalOpen(t) {
			return t
		}
	}
	return ""
}

func (m Model) fraction(t models.BreakType) float64 {
	total := m.cfg.Interval(t).Seconds()
	if total <= 0 {
		return 0
	}
	f := float64(m.state.TimeLeft(t)) / total
	if f > 1 {
		return 1
	}
	return f
}
