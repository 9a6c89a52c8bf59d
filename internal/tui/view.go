package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/tone"
	"github.com/julianstephens/pausa/internal/utils"
)

var breakLabels = map[models.BreakType]string{
	models.BreakEye:     "Eyes",
	models.BreakStretch: "Stretch",
	models.BreakWater:   "Water",
}

var statusLabels = map[models.WorkStatus]string{
	models.StatusBeforeWork: "before work",
	models.StatusWorking:    "working",
	models.StatusLunch:      "lunch",
	models.StatusAfterWork:  "after work",
	models.StatusDayOff:     "day off",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{titleStyle.Render("pausa"), m.statusView(), "", m.barsView()}

	if t := m.openModal(); t != "" {
		sections = append(sections, "", m.modalView(t))
	}
	for _, t := range m.active {
		sections = append(sections, toastStyle.Render(toastText(t.Toast)))
	}

	sections = append(sections, "", m.help.View(m))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) statusView() string {
	var parts []string
	if m.state.IsRunning {
		parts = append(parts, "running")
	} else {
		parts = append(parts, pausedStyle.Render("paused"))
	}

	if label, ok := statusLabels[m.state.WorkStatus]; ok {
		parts = append(parts, label)
	}
	switch {
	case m.state.InWorkHours && m.remaining > 0:
		parts = append(parts, fmt.Sprintf("%dh%02dm left today", m.remaining/60, m.remaining%60))
	case !m.state.InWorkHours && m.state.TimeUntilNextWork > 0:
		parts = append(parts, "work in "+utils.FormatClock(m.state.TimeUntilNextWork))
	}
	if !m.focused {
		parts = append(parts, "unfocused")
	}
	return statusStyle.Render(strings.Join(parts, " · "))
}

func (m Model) barsView() string {
	rows := make([]string, 0, len(models.BreakTypes))
	for _, t := range models.BreakTypes {
		row := lipgloss.JoinHorizontal(lipgloss.Center,
			labelStyle.Render(breakLabels[t]),
			m.bars[t].ViewAs(m.fraction(t)),
			clockStyle.Render(utils.FormatClock(m.state.TimeLeft(t))),
		)
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) modalView(t models.BreakType) string {
	msg := tone.MessageFor(t)
	body := lipgloss.JoinVertical(lipgloss.Center,
		msg.Title,
		"",
		msg.Body,
		"",
		"press enter when done",
	)
	box := modalStyle.Render(body)
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width-4, lipgloss.Center, box)
	}
	return box
}

func toastText(t tone.Toast) string {
	if t.Body == "" {
		return t.Title
	}
	return t.Title + ": " + t.Body
}
