package settings

import (
	"fmt"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/engine"
	"github.com/julianstephens/pausa/internal/tui"
)

type SetupCmd struct{}

// Run walks through the work schedule wizard and saves a configured schedule.
func (c *SetupCmd) Run(ctx *cli.Context) error {
	s := ctx.NewSession(engine.Deps{})
	defer s.Close()

	fm := tui.NewSetupFormModel(s.Engine.WorkSchedule())
	if err := runForm(tui.NewSetupForm(fm).Run); err != nil {
		return err
	}
	p, err := fm.Patch()
	if err != nil {
		return err
	}

	ws, err := s.Engine.UpdateWorkSchedule(p, ctx.Clock()())
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	fmt.Println("✓ Work schedule saved.")
	printSchedule(ws, s.Engine.OptimalIntervals())
	return nil
}
