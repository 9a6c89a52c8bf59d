package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/models"
	breakstats "github.com/julianstephens/pausa/internal/stats"
)

type StatsCmd struct {
	Days int  `help:"Number of days to include, ending today." default:"7"`
	JSON bool `help:"Print the report as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	report, err := breakstats.Summarize(ctx.Store, ctx.Clock()(), c.Days)
	if err != nil {
		return fmt.Errorf("failed to load break history: %w", err)
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("%-10s %5s %8s %6s %6s  %s\n", "Day", "Eye", "Stretch", "Water", "Total", "Avg delay")
	for _, d := range report.Days {
		delay := "-"
		if d.Total > 0 {
			delay = d.AverageDelay.Round(time.Second).String()
		}
		fmt.Printf("%-10s %5d %8d %6d %6d  %s\n", d.Day,
			d.Completed[models.BreakEye], d.Completed[models.BreakStretch], d.Completed[models.BreakWater],
			d.Total, delay)
	}
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%-10s %5d %8d %6d %6d\n", "Total",
		report.Totals[models.BreakEye], report.Totals[models.BreakStretch], report.Totals[models.BreakWater],
		report.Total)
	fmt.Printf("\nAverage %.1f breaks per day", report.AveragePerDay)
	if report.Total > 0 {
		fmt.Printf(", mostly %s", report.Busiest()[0])
	}
	fmt.Println()
	return nil
}
