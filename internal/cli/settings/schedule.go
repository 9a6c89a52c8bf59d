package settings

import (
	"fmt"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/engine"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/utils"
)

type ScheduleCmd struct {
	List bool `help:"Show the work schedule."`

	Start         *string `help:"Work start (HH:MM)."`
	End           *string `help:"Work end (HH:MM)."`
	LunchStart    *string `help:"Lunch start (HH:MM)."`
	LunchDuration *int    `help:"Lunch length in minutes."`
	Days          string  `help:"Work days, e.g. mon,tue,wed or 1,2,3."`
	Exercise      *string `help:"Exercise profile (none, light, moderate, intense)."`
}

func (c *ScheduleCmd) patch() (models.WorkSchedulePatch, error) {
	p := models.WorkSchedulePatch{
		StartTime:     c.Start,
		EndTime:       c.End,
		LunchStart:    c.LunchStart,
		LunchDuration: c.LunchDuration,
	}
	if c.Days != "" {
		days, err := utils.ParseWeekdays(c.Days)
		if err != nil {
			return p, err
		}
		p.WorkDays = days
	}
	if c.Exercise != nil {
		e := models.ExerciseProfile(*c.Exercise)
		p.ExerciseProfile = &e
	}
	return p, nil
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	s := ctx.NewSession(engine.Deps{})
	defer s.Close()

	if c.List {
		printSchedule(s.Engine.WorkSchedule(), s.Engine.OptimalIntervals())
		return nil
	}

	p, err := c.patch()
	if err != nil {
		return err
	}
	if p.StartTime == nil && p.EndTime == nil && p.LunchStart == nil && p.LunchDuration == nil &&
		p.WorkDays == nil && p.ExerciseProfile == nil {
		fmt.Println("No changes specified. Use --list to view the schedule or flags to update it.")
		return nil
	}
	configured := true
	p.IsConfigured = &configured

	ws, err := s.Engine.UpdateWorkSchedule(p, ctx.Clock()())
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	fmt.Println("Schedule updated successfully.")
	printSchedule(ws, s.Engine.OptimalIntervals())
	return nil
}

func printSchedule(ws models.WorkSchedule, opt models.OptimalIntervals) {
	fmt.Println("Work Schedule:")
	fmt.Printf("  Configured:  %v\n", ws.IsConfigured)
	fmt.Printf("  Hours:       %s-%s\n", ws.StartTime, ws.EndTime)
	fmt.Printf("  Lunch:       %s for %d min\n", ws.LunchStart, ws.LunchDuration)
	fmt.Printf("  Days:        %s\n", utils.FormatWeekdays(ws.WorkDays))
	fmt.Printf("  Exercise:    %s\n", ws.ExerciseProfile)
	fmt.Println("\nOptimal Intervals:")
	fmt.Printf("  Eye:         %d min\n", opt.EyeInterval)
	fmt.Printf("  Stretch:     %d min\n", opt.StretchInterval)
	fmt.Printf("  Water:       %d min\n", opt.WaterInterval)
}
