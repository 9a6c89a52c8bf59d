package system

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/engine"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/utils"
)

type StatusCmd struct {
	JSON bool `help:"Print the derived state as JSON."`
}

type statusReport struct {
	State            models.ReminderState    `json:"state"`
	Config           models.ReminderConfig   `json:"config"`
	Schedule         models.WorkSchedule     `json:"schedule"`
	Optimal          models.OptimalIntervals `json:"optimalIntervals"`
	RemainingMinutes int                     `json:"remainingWorkMinutes"`
}

// Run prints a read-only snapshot; nothing is written back to the store.
func (c *StatusCmd) Run(ctx *cli.Context) error {
	s := ctx.NewSession(engine.Deps{})
	now := ctx.Clock()()
	s.Engine.Tick(now)

	r := statusReport{
		State:            s.Engine.State(),
		Config:           s.Engine.Config(),
		Schedule:         s.Engine.WorkSchedule(),
		Optimal:          s.Engine.OptimalIntervals(),
		RemainingMinutes: s.Engine.RemainingWorkMinutes(now),
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if r.State.IsRunning {
		fmt.Println("Timers:      running")
	} else {
		fmt.Println("Timers:      paused")
	}
	for _, t := range models.BreakTypes {
		due := ""
		if r.State.ModalOpen(t) {
			due = "  (due)"
		}
		fmt.Printf("  %-8s %8s of %3d min%s\n", t, utils.FormatClock(r.State.TimeLeft(t)), r.Config.IntervalMinutes(t), due)
	}

	fmt.Printf("Work status: %s\n", r.State.WorkStatus)
	if !r.Schedule.IsConfigured {
		fmt.Println("  schedule not configured, run 'pausa setup'")
	} else {
		fmt.Printf("  %s-%s on %s, lunch %s for %d min\n", r.Schedule.StartTime, r.Schedule.EndTime,
			utils.FormatWeekdays(r.Schedule.WorkDays), r.Schedule.LunchStart, r.Schedule.LunchDuration)
	}
	if r.State.InWorkHours {
		fmt.Printf("  %d min of work left today\n", r.RemainingMinutes)
	} else if r.State.TimeUntilNextWork > 0 {
		fmt.Printf("  work starts in %s\n", utils.FormatClock(r.State.TimeUntilNextWork))
	}
	fmt.Printf("Optimal:     eye %d, stretch %d, water %d min\n",
		r.Optimal.EyeInterval, r.Optimal.StretchInterval, r.Optimal.WaterInterval)
	return nil
}
