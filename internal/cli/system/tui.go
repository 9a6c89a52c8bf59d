package system

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/tone"
	"github.com/julianstephens/pausa/internal/tui"
)

type TuiCmd struct {
	NoBell bool `help:"Do not ring the terminal bell when a break is due."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	var haptics tone.Haptics
	if !c.NoBell {
		haptics = tone.BellHaptics{Out: os.Stderr}
	}
	ctx.AutoBackup()
	rt := ctx.NewRuntime(haptics)
	rt.Engine.RequestNotificationPermission()

	runCtx, cancel := context.WithCancel(context.Background())
	wait := rt.Start(runCtx)

	model := tui.NewModel(rt.Engine, rt.Scheduler.Resume, ctx.Clock(), rt.Dispatcher.Toasts())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, runErr := p.Run()

	cancel()
	if err := wait(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("tui exited: %w", runErr)
	}
	return nil
}
