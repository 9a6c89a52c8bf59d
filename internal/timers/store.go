package timers

import (
	"time"

	"github.com/julianstephens/pausa/internal/models"
)

// Store owns the three deadlines and the pause marker.
// It is not safe for concurrent use; the engine serialises access.
type Store struct {
	ts models.TimerTimestamps
}

// New wraps previously persisted timestamps.
func New(ts models.TimerTimestamps) *Store {
	return &Store{ts: copyTimestamps(ts)}
}

// Timestamps returns a copy of the current deadlines.
func (s *Store) Timestamps() models.TimerTimestamps {
	return copyTimestamps(s.ts)
}

// Set replaces every deadline and the pause marker.
func (s *Store) Set(ts models.TimerTimestamps) {
	s.ts = copyTimestamps(ts)
	s.ts.SavedAt = nil
}

// Merge adopts each deadline of ts that is later than the current one.
// Deadlines never move backwards and the pause marker is kept.
func (s *Store) Merge(ts models.TimerTimestamps) {
	for _, t := range models.BreakTypes {
		if end := ts.EndTime(t); end > s.ts.EndTime(t) {
			s.ts.SetEndTime(t, end)
		}
	}
}

// Paused reports whether the pause marker is set.
func (s *Store) Paused() bool {
	return s.ts.Paused()
}

// EndTime returns the deadline for t.
func (s *Store) EndTime(t models.BreakType) time.Time {
	return time.UnixMilli(s.ts.EndTime(t))
}

// Reset sets every deadline to now plus its interval and clears the pause marker.
func (s *Store) Reset(cfg models.ReminderConfig, now time.Time) {
	s.ts.LastPausedAt = nil
	for _, t := range models.BreakTypes {
		s.ResetOne(t, cfg, now)
	}
}

// ResetOne gives t a full interval. While paused the interval is measured from
// the pause marker so the frozen display shows the whole interval.
func (s *Store) ResetOne(t models.BreakType, cfg models.ReminderConfig, now time.Time) {
	s.ts.SetEndTime(t, s.reference(now)+cfg.Interval(t).Milliseconds())
}

// Delay sets the deadline for t to d from now, or from the pause marker while paused.
func (s *Store) Delay(t models.BreakType, d time.Duration, now time.Time) {
	s.ts.SetEndTime(t, s.reference(now)+d.Milliseconds())
}

// Pause records now as the pause marker. Pausing twice keeps the first marker.
func (s *Store) Pause(now time.Time) {
	if s.ts.LastPausedAt != nil {
		return
	}
	ms := now.UnixMilli()
	s.ts.LastPausedAt = &ms
}

// Resume shifts every deadline forward by the paused duration and clears the marker.
func (s *Store) Resume(now time.Time) {
	if s.ts.LastPausedAt == nil {
		return
	}
	shift := now.UnixMilli() - *s.ts.LastPausedAt
	if shift < 0 {
		shift = 0
	}
	for _, t := range models.BreakTypes {
		s.ts.SetEndTime(t, s.ts.EndTime(t)+shift)
	}
	s.ts.LastPausedAt = nil
}

// TimeLeft returns whole seconds until the deadline for t, never negative.
// While paused the remaining time is frozen at the pause marker.
func (s *Store) TimeLeft(t models.BreakType, now time.Time) int {
	left := s.ts.EndTime(t) - s.reference(now)
	if left <= 0 {
		return 0
	}
	return int(left / 1000)
}

// Expired reports whether the deadline for t is at or before now.
func (s *Store) Expired(t models.BreakType, now time.Time) bool {
	return s.ts.EndTime(t) <= now.UnixMilli()
}

// RecoverStale advances every deadline older than staleAfter to now plus its interval
// and returns the recovered types.
func (s *Store) RecoverStale(cfg models.ReminderConfig, now time.Time, staleAfter time.Duration) []models.BreakType {
	ref := s.reference(now)
	var recovered []models.BreakType
	for _, t := range models.BreakTypes {
		if isStale(s.ts.EndTime(t), ref, staleAfter) {
			s.ts.SetEndTime(t, ref+cfg.Interval(t).Milliseconds())
			recovered = append(recovered, t)
		}
	}
	return recovered
}

// AdvanceExpired moves every deadline at or before now to now plus its interval
// and returns the advanced types.
func (s *Store) AdvanceExpired(cfg models.ReminderConfig, now time.Time) []models.BreakType {
	var advanced []models.BreakType
	for _, t := range models.BreakTypes {
		if s.Expired(t, now) {
			s.ResetOne(t, cfg, now)
			advanced = append(advanced, t)
		}
	}
	return advanced
}

// AnyStale reports whether any deadline in ts is more than staleAfter before now.
func AnyStale(ts models.TimerTimestamps, now time.Time, staleAfter time.Duration) bool {
	ref := now.UnixMilli()
	if ts.LastPausedAt != nil {
		ref = *ts.LastPausedAt
	}
	for _, t := range models.BreakTypes {
		if isStale(ts.EndTime(t), ref, staleAfter) {
			return true
		}
	}
	return false
}

func isStale(endMs, refMs int64, staleAfter time.Duration) bool {
	return refMs-endMs > staleAfter.Milliseconds()
}

func (s *Store) reference(now time.Time) int64 {
	if s.ts.LastPausedAt != nil {
		return *s.ts.LastPausedAt
	}
	return now.UnixMilli()
}

func copyTimestamps(ts models.TimerTimestamps) models.TimerTimestamps {
	out := ts
	if ts.LastPausedAt != nil {
		v := *ts.LastPausedAt
		out.LastPausedAt = &v
	}
	if ts.SavedAt != nil {
		v := *ts.SavedAt
		out.SavedAt = &v
	}
	return out
}
