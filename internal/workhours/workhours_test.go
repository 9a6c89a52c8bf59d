package workhours

import (
	"testing"
	"time"

	"github.com/julianstephens/pausa/internal/models"
)

// Jan 5 2026 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, 1, day, hour, minute, 0, 0, time.Local)
}

func configured() models.WorkSchedule {
	ws := models.DefaultWorkSchedule()
	ws.IsConfigured = true
	return ws
}

func TestNewRejectsMalformedSchedule(t *testing.T) {
	ws := configured()
	ws.StartTime = "9 o'clock"
	if _, err := New(ws); err == nil {
		t.Fatal("expected error for malformed start time")
	}
}

func TestStatus(t *testing.T) {
	cal := MustNew(configured())

	tests := []struct {
		name string
		now  time.Time
		want models.WorkStatus
	}{
		{"before work", at(5, 7, 59), models.StatusBeforeWork},
		{"start boundary", at(5, 8, 0), models.StatusWorking},
		{"morning", at(5, 11, 59), models.StatusWorking},
		{"lunch start", at(5, 12, 0), models.StatusLunch},
		{"lunch end", at(5, 13, 0), models.StatusWorking},
		{"end boundary", at(5, 17, 0), models.StatusAfterWork},
		{"saturday", at(10, 10, 0), models.StatusDayOff},
		{"sunday", at(11, 10, 0), models.StatusDayOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.Status(tt.now); got != tt.want {
				t.Errorf("Status(%v) = %q, want %q", tt.now, got, tt.want)
			}
			if got, want := cal.IsWithinWorkHours(tt.now), tt.want == models.StatusWorking; got != want {
				t.Errorf("IsWithinWorkHours(%v) = %v, want %v", tt.now, got, want)
			}
		})
	}
}

func TestUnconfiguredScheduleEveryDayIsWorkDay(t *testing.T) {
	cal := MustNew(models.DefaultWorkSchedule())
	if !cal.IsWorkDay(at(10, 10, 0)) {
		t.Error("unconfigured schedule should treat Saturday as a work day")
	}
	if cal.Configured() {
		t.Error("default schedule is not configured")
	}
}

func TestTimeUntilNextWork(t *testing.T) {
	cal := MustNew(configured())

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"working", at(5, 9, 0), 0},
		{"before work", at(5, 7, 30), 30 * 60},
		{"lunch", at(5, 12, 15), 45 * 60},
		{"after work monday", at(5, 18, 0), 14 * 3600},
		{"friday evening", at(9, 17, 0), (7 + 48 + 8) * 3600},
		{"saturday noon", at(10, 12, 0), (12 + 24 + 8) * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.TimeUntilNextWork(tt.now); got != tt.want {
				t.Errorf("TimeUntilNextWork(%v) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestRemainingWorkMinutes(t *testing.T) {
	cal := MustNew(configured())

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before work", at(5, 6, 0), 480},
		{"first minute", at(5, 8, 0), 480},
		{"mid morning", at(5, 10, 0), 120 + 240},
		{"lunch", at(5, 12, 30), 240},
		{"afternoon", at(5, 16, 0), 60},
		{"after work", at(5, 17, 30), 0},
		{"day off", at(11, 10, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.RemainingWorkMinutes(tt.now); got != tt.want {
				t.Errorf("RemainingWorkMinutes(%v) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}

	if got := cal.TotalWorkMinutes(); got != 480 {
		t.Errorf("TotalWorkMinutes() = %d, want 480", got)
	}
}

func TestNoLunch(t *testing.T) {
	ws := configured()
	ws.LunchDuration = 0
	cal := MustNew(ws)

	if got := cal.Status(at(5, 12, 0)); got != models.StatusWorking {
		t.Errorf("zero-length lunch should not interrupt work, got %q", got)
	}
	if got := cal.TotalWorkMinutes(); got != 540 {
		t.Errorf("TotalWorkMinutes() = %d, want 540", got)
	}
}
