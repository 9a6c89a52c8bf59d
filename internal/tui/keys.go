package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	AckEye     key.Binding
	AckStretch key.Binding
	AckWater   key.Binding
	Ack        key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause/resume"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset timers"),
		),
		AckEye: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "eye break done"),
		),
		AckStretch: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stretch done"),
		),
		AckWater: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "water done"),
		),
		Ack: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "acknowledge"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
