package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pausa/internal/constants"
)

// TimerTimestamps holds the three absolute deadlines in epoch milliseconds.
type TimerTimestamps struct {
	EyeEndTime     int64  `json:"eyeEndTime"`
	StretchEndTime int64  `json:"stretchEndTime"`
	WaterEndTime   int64  `json:"waterEndTime"`
	LastPausedAt   *int64 `json:"lastPausedAt"`
	SavedAt        *int64 `json:"savedAt,omitempty"`
}

// EndTime returns the deadline for t.
func (ts TimerTimestamps) EndTime(t BreakType) int64 {
	switch t {
	case BreakEye:
		return ts.EyeEndTime
	case BreakStretch:
		return ts.StretchEndTime
	case BreakWater:
		return ts.WaterEndTime
	}
	return 0
}

// SetEndTime sets the deadline for t.
func (ts *TimerTimestamps) SetEndTime(t BreakType, ms int64) {
	switch t {
	case BreakEye:
		ts.EyeEndTime = ms
	case BreakStretch:
		ts.StretchEndTime = ms
	case BreakWater:
		ts.WaterEndTime = ms
	}
}

// IsZero reports whether no deadline has ever been set.
func (ts TimerTimestamps) IsZero() bool {
	return ts.EyeEndTime == 0 && ts.StretchEndTime == 0 && ts.WaterEndTime == 0
}

// Paused reports whether a pause marker is set.
func (ts TimerTimestamps) Paused() bool {
	return ts.LastPausedAt != nil
}

// ReminderState is derived every tick and never persisted.
type ReminderState struct {
	EyeTimeLeft       int        `json:"eyeTimeLeft"`     // seconds
	StretchTimeLeft   int        `json:"stretchTimeLeft"` // seconds
	WaterTimeLeft     int        `json:"waterTimeLeft"`   // seconds
	IsRunning         bool       `json:"isRunning"`
	ShowEyeModal      bool       `json:"showEyeModal"`
	ShowStretchModal  bool       `json:"showStretchModal"`
	ShowWaterModal    bool       `json:"showWaterModal"`
	WorkStatus        WorkStatus `json:"workStatus"`
	TimeUntilNextWork int        `json:"timeUntilNextWork"` // seconds
	InWorkHours       bool       `json:"inWorkHours"`
}

// TimeLeft returns the seconds left for t.
func (s ReminderState) TimeLeft(t BreakType) int {
	switch t {
	case BreakEye:
		return s.EyeTimeLeft
	case BreakStretch:
		return s.StretchTimeLeft
	case BreakWater:
		return s.WaterTimeLeft
	}
	return 0
}

// SetTimeLeft stores the seconds left for t.
func (s *ReminderState) SetTimeLeft(t BreakType, seconds int) {
	switch t {
	case BreakEye:
		s.EyeTimeLeft = seconds
	case BreakStretch:
		s.StretchTimeLeft = seconds
	case BreakWater:
		s.WaterTimeLeft = seconds
	}
}

// ModalOpen reports whether the modal for t is visible.
func (s ReminderState) ModalOpen(t BreakType) bool {
	switch t {
	case BreakEye:
		return s.ShowEyeModal
	case BreakStretch:
		return s.ShowStretchModal
	case BreakWater:
		return s.ShowWaterModal
	}
	return false
}

// SetModal shows or hides the modal for t.
func (s *ReminderState) SetModal(t BreakType, open bool) {
	switch t {
	case BreakEye:
		s.ShowEyeModal = open
	case BreakStretch:
		s.ShowStretchModal = open
	case BreakWater:
		s.ShowWaterModal = open
	}
}

// BreakEvent records one completed break.
type BreakEvent struct {
	ID           string    `json:"id"`
	ReminderType BreakType `json:"reminderType"`
	Day          string    `json:"day"` // YYYY-MM-DD
	CompletedAt  time.Time `json:"completedAt"`
	ScheduledFor time.Time `json:"scheduledFor"` // the acknowledged deadline
	DelayMs      int64     `json:"delayMs"`      // completion latency after the deadline
}

// NewBreakEvent builds a completion event for a break acknowledged at now.
func NewBreakEvent(t BreakType, deadlineMs int64, now time.Time) BreakEvent {
	scheduled := time.UnixMilli(deadlineMs)
	delay := now.UnixMilli() - deadlineMs
	if delay < 0 {
		delay = 0
	}
	return BreakEvent{
		ID:           uuid.New().String(),
		ReminderType: t,
		Day:          now.Format(constants.DateFormat),
		CompletedAt:  now,
		ScheduledFor: scheduled,
		DelayMs:      delay,
	}
}
