package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/pausa/internal/models"
)

type memStore struct {
	mu     sync.Mutex
	events []models.BreakEvent
	err    error
}

func (m *memStore) AddBreakEvent(ev models.BreakEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memStore) GetBreakEvents(start, end string) ([]models.BreakEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.BreakEvent
	for _, ev := range m.events {
		if ev.Day >= start && ev.Day <= end {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func event(t models.BreakType, at time.Time, delay time.Duration) models.BreakEvent {
	return models.NewBreakEvent(t, at.Add(-delay).UnixMilli(), at)
}

func TestAggregate(t *testing.T) {
	today := time.Date(2026, 1, 7, 15, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)
	events := []models.BreakEvent{
		event(models.BreakEye, today, 2*time.Second),
		event(models.BreakEye, today.Add(-time.Hour), 4*time.Second),
		event(models.BreakWater, today, 0),
		event(models.BreakStretch, yesterday, time.Minute),
		event(models.BreakStretch, today.AddDate(0, 0, -10), 0),
	}

	r := Aggregate(events, today, 3)

	if len(r.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(r.Days))
	}
	wantDays := []string{"2026-01-05", "2026-01-06", "2026-01-07"}
	for i, d := range wantDays {
		if r.Days[i].Day != d {
			t.Errorf("day %d = %s, want %s", i, r.Days[i].Day, d)
		}
	}

	tests := []struct {
		day      int
		total    int
		eye      int
		avgDelay time.Duration
	}{
		{0, 0, 0, 0},
		{1, 1, 0, time.Minute},
		{2, 3, 2, 2 * time.Second},
	}
	for _, tt := range tests {
		d := r.Days[tt.day]
		if d.Total != tt.total || d.Completed[models.BreakEye] != tt.eye || d.AverageDelay != tt.avgDelay {
			t.Errorf("%s = total %d eye %d delay %v; want %d %d %v",
				d.Day, d.Total, d.Completed[models.BreakEye], d.AverageDelay, tt.total, tt.eye, tt.avgDelay)
		}
	}

	if r.Total != 4 {
		t.Errorf("Total = %d, want 4 (events outside the range are ignored)", r.Total)
	}
	if r.AveragePerDay < 1.33 || r.AveragePerDay > 1.34 {
		t.Errorf("AveragePerDay = %v", r.AveragePerDay)
	}
	if got := r.Busiest(); got[0] != models.BreakEye {
		t.Errorf("Busiest() = %v, want eye first", got)
	}
}

func TestSummarize(t *testing.T) {
	store := &memStore{}
	today := time.Date(2026, 1, 7, 15, 0, 0, 0, time.Local)
	store.AddBreakEvent(event(models.BreakWater, today, 0))

	r, err := Summarize(store, today, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Days) != 1 || r.Total != 1 {
		t.Errorf("Summarize() = %+v, want a single day with one break", r)
	}

	store.err = errors.New("db gone")
	if _, err := Summarize(store, today, 7); err == nil {
		t.Error("Summarize() should surface store errors")
	}
}

func TestRecorder(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, 2)
	now := time.Now()

	if err := rec.Record(event(models.BreakEye, now, 0)); err != nil {
		t.Fatal(err)
	}
	if err := rec.Record(event(models.BreakEye, now, 0)); err != nil {
		t.Fatal(err)
	}
	if err := rec.Record(event(models.BreakEye, now, 0)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Record() on full queue = %v, want ErrQueueFull", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rec.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if store.len() != 2 {
		t.Errorf("stored %d events, want 2 drained on shutdown", store.len())
	}
}
