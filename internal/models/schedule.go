package models

import (
	"sort"
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	apperrors "github.com/julianstephens/pausa/internal/errors"
	"github.com/julianstephens/pausa/internal/utils"
)

// ExerciseProfile describes how physically active the user is during the day.
type ExerciseProfile string

const (
	ExerciseNone     ExerciseProfile = "none"
	ExerciseLight    ExerciseProfile = "light"
	ExerciseModerate ExerciseProfile = "moderate"
	ExerciseIntense  ExerciseProfile = "intense"
)

// ExerciseProfiles lists the known profiles.
var ExerciseProfiles = []ExerciseProfile{ExerciseNone, ExerciseLight, ExerciseModerate, ExerciseIntense}

// Valid reports whether p is a known profile.
func (p ExerciseProfile) Valid() bool {
	switch p {
	case ExerciseNone, ExerciseLight, ExerciseModerate, ExerciseIntense:
		return true
	}
	return false
}

// WorkStatus is where "now" falls relative to the configured work day.
type WorkStatus string

const (
	StatusBeforeWork WorkStatus = "before_work"
	StatusWorking    WorkStatus = "working"
	StatusLunch      WorkStatus = "lunch"
	StatusAfterWork  WorkStatus = "after_work"
	StatusDayOff     WorkStatus = "day_off"
)

// WorkSchedule is the user's work calendar.
type WorkSchedule struct {
	StartTime       string          `json:"startTime"`     // HH:MM
	LunchStart      string          `json:"lunchStart"`    // HH:MM
	LunchDuration   int             `json:"lunchDuration"` // minutes
	EndTime         string          `json:"endTime"`       // HH:MM
	WorkDays        []time.Weekday  `json:"workDays"`      // 0 = Sunday
	ExerciseProfile ExerciseProfile `json:"exerciseProfile"`
	IsConfigured    bool            `json:"isConfigured"`
}

// DefaultWorkSchedule returns the unconfigured 08:00-17:00 Monday to Friday template.
func DefaultWorkSchedule() WorkSchedule {
	return WorkSchedule{
		StartTime:       constants.DefaultWorkStart,
		LunchStart:      constants.DefaultLunchStart,
		LunchDuration:   constants.DefaultLunchDuration,
		EndTime:         constants.DefaultWorkEnd,
		WorkDays:        []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		ExerciseProfile: ExerciseNone,
		IsConfigured:    false,
	}
}

// HasWorkDay reports whether wd is one of the configured work days.
func (s WorkSchedule) HasWorkDay(wd time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == wd {
			return true
		}
	}
	return false
}

// Validate rejects malformed times and inconsistent day layouts.
func (s WorkSchedule) Validate() error {
	start, err := utils.ParseTimeToMinutes(s.StartTime)
	if err != nil {
		return apperrors.Configf("invalid start time %q (expected HH:MM)", s.StartTime)
	}
	end, err := utils.ParseTimeToMinutes(s.EndTime)
	if err != nil {
		return apperrors.Configf("invalid end time %q (expected HH:MM)", s.EndTime)
	}
	lunch, err := utils.ParseTimeToMinutes(s.LunchStart)
	if err != nil {
		return apperrors.Configf("invalid lunch start %q (expected HH:MM)", s.LunchStart)
	}
	if end <= start {
		return apperrors.Configf("end time %s must be after start time %s", s.EndTime, s.StartTime)
	}
	if s.LunchDuration < 0 {
		return apperrors.Configf("lunch duration %d must not be negative", s.LunchDuration)
	}
	if lunch < start || lunch+s.LunchDuration > end {
		return apperrors.Configf("lunch %s+%dmin must fall within %s-%s", s.LunchStart, s.LunchDuration, s.StartTime, s.EndTime)
	}
	for _, d := range s.WorkDays {
		if d < time.Sunday || d > time.Saturday {
			return apperrors.Configf("invalid weekday %d (expected 0-6)", int(d))
		}
	}
	if s.IsConfigured && len(s.WorkDays) == 0 {
		return apperrors.Configf("a configured schedule needs at least one work day")
	}
	if !s.ExerciseProfile.Valid() {
		return apperrors.Configf("unknown exercise profile %q", s.ExerciseProfile)
	}
	return nil
}

// WorkSchedulePatch is a partial WorkSchedule update; nil fields are left untouched.
type WorkSchedulePatch struct {
	StartTime       *string
	LunchStart      *string
	LunchDuration   *int
	EndTime         *string
	WorkDays        []time.Weekday
	ExerciseProfile *ExerciseProfile
	IsConfigured    *bool
}

// Apply returns s with the patch applied. The result is not validated.
func (s WorkSchedule) Apply(p WorkSchedulePatch) WorkSchedule {
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.LunchStart != nil {
		s.LunchStart = *p.LunchStart
	}
	if p.LunchDuration != nil {
		s.LunchDuration = *p.LunchDuration
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.WorkDays != nil {
		days := append([]time.Weekday(nil), p.WorkDays...)
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		s.WorkDays = days
	}
	if p.ExerciseProfile != nil {
		s.ExerciseProfile = *p.ExerciseProfile
	}
	if p.IsConfigured != nil {
		s.IsConfigured = *p.IsConfigured
	}
	return s
}
