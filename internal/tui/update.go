package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.sync(m.now())
		return m, tick()

	case toastMsg:
		m.active = append(m.active, toastEntry{Toast: msg.toast(), until: m.now().Add(toastLifetime)})
		return m, waitForToast(m.toasts)

	case tea.FocusMsg:
		m.focused = true
		m.resume()
		m.sync(m.now())
		return m, nil

	case tea.BlurMsg:
		m.focused = false
		m.engine.HandleBlur(m.now())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.now()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		m.engine.ToggleRunning(now)
	case key.Matches(msg, m.keys.Reset):
		m.engine.ResetTimers(now)
	case key.Matches(msg, m.keys.Ack):
		if t := m.openModal(); t != "" {
			m.acknowledge(t)
		}
	case key.Matches(msg, m.keys.AckEye):
		m.acknowledge(models.BreakEye)
	case key.Matches(msg, m.keys.AckStretch):
		m.acknowledge(models.BreakStretch)
	case key.Matches(msg, m.keys.AckWater):
		m.acknowledge(models.BreakWater)
	default:
		return m, nil
	}
	m.sync(now)
	return m, nil
}

func (m *Model) acknowledge(t models.BreakType) {
	if !m.state.ModalOpen(t) {
		return
	}
	if err := m.engine.CloseModal(t, m.now()); err != nil {
		logger.Warn("Failed to close break", "type", t, "error", err)
	}
}
