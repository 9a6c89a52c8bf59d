package workhours

import (
	"fmt"
	"time"

	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/utils"
)

// daysAhead bounds the search for the next work day.
const daysAhead = 7

// Calendar answers work-hours questions for a validated WorkSchedule.
// All arithmetic is on local minute-of-day integers.
type Calendar struct {
	schedule models.WorkSchedule

	start    int
	lunch    int
	lunchEnd int
	end      int
}

// New validates the schedule and pre-parses its boundaries.
func New(ws models.WorkSchedule) (*Calendar, error) {
	if err := ws.Validate(); err != nil {
		return nil, err
	}

	start, err := utils.ParseTimeToMinutes(ws.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	lunch, err := utils.ParseTimeToMinutes(ws.LunchStart)
	if err != nil {
		return nil, fmt.Errorf("invalid lunch start: %w", err)
	}
	end, err := utils.ParseTimeToMinutes(ws.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}

	return &Calendar{
		schedule: ws,
		start:    start,
		lunch:    lunch,
		lunchEnd: lunch + ws.LunchDuration,
		end:      end,
	}, nil
}

// MustNew is New for schedules known to be valid, such as the defaults.
func MustNew(ws models.WorkSchedule) *Calendar {
	c, err := New(ws)
	if err != nil {
		panic(err)
	}
	return c
}

// Schedule returns the schedule the calendar was built from.
func (c *Calendar) Schedule() models.WorkSchedule {
	return c.schedule
}

// Configured reports whether the schedule gates reminders.
func (c *Calendar) Configured() bool {
	return c.schedule.IsConfigured
}

// IsWorkDay is true when the schedule is unconfigured or now's weekday is a work day.
func (c *Calendar) IsWorkDay(now time.Time) bool {
	if !c.schedule.IsConfigured {
		return true
	}
	return c.schedule.HasWorkDay(now.Weekday())
}

// IsWithinWorkHours reports whether now falls in the morning or afternoon block.
func (c *Calendar) IsWithinWorkHours(now time.Time) bool {
	return c.Status(now) == models.StatusWorking
}

// Status classifies now relative to the work day.
func (c *Calendar) Status(now time.Time) models.WorkStatus {
	if !c.IsWorkDay(now) {
		return models.StatusDayOff
	}

	m := utils.MinuteOfDay(now)
	switch {
	case m < c.start:
		return models.StatusBeforeWork
	case m >= c.end:
		return models.StatusAfterWork
	case m >= c.lunch && m < c.lunchEnd:
		return models.StatusLunch
	default:
		return models.StatusWorking
	}
}

// TimeUntilNextWork returns the seconds until work resumes, or 0 while working.
func (c *Calendar) TimeUntilNextWork(now time.Time) int {
	var next time.Time
	switch c.Status(now) {
	case models.StatusWorking:
		return 0
	case models.StatusBeforeWork:
		next = utils.AtMinute(now, c.start)
	case models.StatusLunch:
		next = utils.AtMinute(now, c.lunchEnd)
	default:
		var ok bool
		next, ok = c.nextWorkStart(now)
		if !ok {
			return 0
		}
	}

	secs := int(next.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// nextWorkStart finds the start of the first work day after now's calendar day.
func (c *Calendar) nextWorkStart(now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	for i := 1; i <= daysAhead; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, now.Location())
		if c.IsWorkDay(day) {
			return utils.AtMinute(day, c.start), true
		}
	}
	return time.Time{}, false
}

// RemainingWorkMinutes returns productive minutes left today, excluding lunch.
func (c *Calendar) RemainingWorkMinutes(now time.Time) int {
	if !c.IsWorkDay(now) {
		return 0
	}

	m := utils.MinuteOfDay(now)
	switch {
	case m < c.start:
		return c.TotalWorkMinutes()
	case m < c.lunch:
		return (c.lunch - m) + (c.end - c.lunchEnd)
	case m < c.lunchEnd:
		return c.end - c.lunchEnd
	case m < c.end:
		return c.end - m
	default:
		return 0
	}
}

// TotalWorkMinutes is the length of the work day minus lunch.
func (c *Calendar) TotalWorkMinutes() int {
	return (c.end - c.start) - c.schedule.LunchDuration
}
