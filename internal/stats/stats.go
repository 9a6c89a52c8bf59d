package stats

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/models"
)

// ErrQueueFull is returned by Record when events arrive faster than they are stored.
var ErrQueueFull = errors.New("break event queue is full")

// Store persists break events.
type Store interface {
	AddBreakEvent(models.BreakEvent) error
	GetBreakEvents(startDay, endDay string) ([]models.BreakEvent, error)
}

// Recorder queues completed breaks and writes them from Run's goroutine.
type Recorder struct {
	store Store
	queue chan models.BreakEvent
}

func NewRecorder(store Store, size int) *Recorder {
	if size <= 0 {
		size = constants.DefaultPersistQueueSize
	}
	return &Recorder{store: store, queue: make(chan models.BreakEvent, size)}
}

// Record queues ev without blocking.
func (r *Recorder) Record(ev models.BreakEvent) error {
	select {
	case r.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run stores queued events until ctx is cancelled, then drains the queue.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return nil
		case ev := <-r.queue:
			r.save(ev)
		}
	}
}

func (r *Recorder) drain() {
	for {
		select {
		case ev := <-r.queue:
			r.save(ev)
		default:
			return
		}
	}
}

func (r *Recorder) save(ev models.BreakEvent) {
	if err := r.store.AddBreakEvent(ev); err != nil {
		logger.Warn("Failed to store break event", "type", ev.ReminderType, "error", err)
	}
}

// DailyStats aggregates the breaks completed on one day.
type DailyStats struct {
	Day          string                   `json:"day"`
	Completed    map[models.BreakType]int `json:"completed"`
	Total        int                      `json:"total"`
	AverageDelay time.Duration            `json:"averageDelay"`
}

// Report covers a contiguous range of days, oldest first. Days without
// breaks are included with zero counts.
type Report struct {
	Days          []DailyStats             `json:"days"`
	Totals        map[models.BreakType]int `json:"totals"`
	Total         int                      `json:"total"`
	AveragePerDay float64                  `json:"averagePerDay"`
}

// Summarize builds a report for the days days ending on today.
func Summarize(store Store, today time.Time, days int) (Report, error) {
	if days < 1 {
		days = 1
	}
	end := today.Format(constants.DateFormat)
	start := today.AddDate(0, 0, -(days - 1)).Format(constants.DateFormat)

	events, err := store.GetBreakEvents(start, end)
	if err != nil {
		return Report{}, err
	}
	return Aggregate(events, today, days), nil
}

// Aggregate groups events into a Report for the days days ending on today.
func Aggregate(events []models.BreakEvent, today time.Time, days int) Report {
	if days < 1 {
		days = 1
	}
	byDay := make(map[string]*DailyStats, days)
	delays := make(map[string]int64, days)
	report := Report{Totals: make(map[models.BreakType]int)}

	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(constants.DateFormat)
		report.Days = append(report.Days, DailyStats{Day: day, Completed: make(map[models.BreakType]int)})
	}
	for i := range report.Days {
		byDay[report.Days[i].Day] = &report.Days[i]
	}

	for _, ev := range events {
		d, ok := byDay[ev.Day]
		if !ok {
			continue
		}
		d.Completed[ev.ReminderType]++
		d.Total++
		delays[ev.Day] += ev.DelayMs
		report.Totals[ev.ReminderType]++
		report.Total++
	}

	for day, d := range byDay {
		if d.Total > 0 {
			d.AverageDelay = time.Duration(delays[day]/int64(d.Total)) * time.Millisecond
		}
	}
	report.AveragePerDay = float64(report.Total) / float64(days)
	return report
}

// Busiest returns the break types ordered by completions, most first.
func (r Report) Busiest() []models.BreakType {
	types := append([]models.BreakType(nil), models.BreakTypes...)
	sort.SliceStable(types, func(i, j int) bool {
		return r.Totals[types[i]] > r.Totals[types[j]]
	})
	return types
}
