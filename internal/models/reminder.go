package models

import (
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	apperrors "github.com/julianstephens/pausa/internal/errors"
)

// BreakType identifies one of the three independent reminders.
type BreakType string

const (
	BreakEye     BreakType = "eye"
	BreakStretch BreakType = "stretch"
	BreakWater   BreakType = "water"
)

// BreakTypes lists every break type in evaluation order.
var BreakTypes = []BreakType{BreakEye, BreakStretch, BreakWater}

// Valid reports whether t is a known break type.
func (t BreakType) Valid() bool {
	switch t {
	case BreakEye, BreakStretch, BreakWater:
		return true
	}
	return false
}

// NotificationTone names a sound preset.
type NotificationTone string

const (
	ToneSoftBeep NotificationTone = "soft-beep"
	ToneChime    NotificationTone = "chime"
	ToneBell     NotificationTone = "bell"
	ToneDigital  NotificationTone = "digital"
	ToneGentle   NotificationTone = "gentle"
	ToneAlert    NotificationTone = "alert"
)

// NotificationTones lists the closed set of presets.
var NotificationTones = []NotificationTone{ToneSoftBeep, ToneChime, ToneBell, ToneDigital, ToneGentle, ToneAlert}

// Valid reports whether tone is a known preset.
func (tone NotificationTone) Valid() bool {
	for _, known := range NotificationTones {
		if tone == known {
			return true
		}
	}
	return false
}

// ReminderConfig holds per-installation reminder settings.
type ReminderConfig struct {
	EyeInterval      int              `json:"eyeInterval"`     // minutes
	StretchInterval  int              `json:"stretchInterval"` // minutes
	WaterInterval    int              `json:"waterInterval"`   // minutes
	SoundEnabled     bool             `json:"soundEnabled"`
	SoundVolume      int              `json:"soundVolume"` // 0-100
	EyeSound         bool             `json:"eyeSound"`
	StretchSound     bool             `json:"stretchSound"`
	WaterSound       bool             `json:"waterSound"`
	NotificationTone NotificationTone `json:"notificationTone"`
	NotifyOnResume   bool             `json:"notifyOnResume"`
}

// DefaultReminderConfig returns the out-of-the-box reminder settings.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		EyeInterval:      constants.DefaultEyeInterval,
		StretchInterval:  constants.DefaultStretchInterval,
		WaterInterval:    constants.DefaultWaterInterval,
		SoundEnabled:     constants.DefaultSoundEnabled,
		SoundVolume:      constants.DefaultSoundVolume,
		EyeSound:         true,
		StretchSound:     true,
		WaterSound:       true,
		NotificationTone: constants.DefaultNotificationTone,
		NotifyOnResume:   constants.DefaultNotifyOnResume,
	}
}

// IntervalMinutes returns the configured interval for t in minutes.
func (c ReminderConfig) IntervalMinutes(t BreakType) int {
	switch t {
	case BreakEye:
		return c.EyeInterval
	case BreakStretch:
		return c.StretchInterval
	case BreakWater:
		return c.WaterInterval
	}
	return 0
}

// Interval returns the configured interval for t.
func (c ReminderConfig) Interval(t BreakType) time.Duration {
	return time.Duration(c.IntervalMinutes(t)) * time.Minute
}

// SoundFor reports whether a due break of type t should make a sound.
func (c ReminderConfig) SoundFor(t BreakType) bool {
	if !c.SoundEnabled {
		return false
	}
	switch t {
	case BreakEye:
		return c.EyeSound
	case BreakStretch:
		return c.StretchSound
	case BreakWater:
		return c.WaterSound
	}
	return false
}

// WithIntervals returns a copy of c using the given intervals.
func (c ReminderConfig) WithIntervals(o OptimalIntervals) ReminderConfig {
	c.EyeInterval = o.EyeInterval
	c.StretchInterval = o.StretchInterval
	c.WaterInterval = o.WaterInterval
	return c
}

// Validate checks ranges and enumerations.
func (c ReminderConfig) Validate() error {
	for _, t := range BreakTypes {
		v := c.IntervalMinutes(t)
		if v < constants.MinIntervalMin || v > constants.MaxIntervalMin {
			return apperrors.Configf("%s interval %d is outside [%d, %d] minutes", t, v, constants.MinIntervalMin, constants.MaxIntervalMin)
		}
	}
	if c.SoundVolume < constants.MinSoundVolume || c.SoundVolume > constants.MaxSoundVolume {
		return apperrors.Configf("sound volume %d is outside [%d, %d]", c.SoundVolume, constants.MinSoundVolume, constants.MaxSoundVolume)
	}
	if !c.NotificationTone.Valid() {
		return apperrors.Configf("unknown notification tone %q", c.NotificationTone)
	}
	return nil
}

// ConfigPatch is a partial ReminderConfig update; nil fields are left untouched.
type ConfigPatch struct {
	EyeInterval      *int
	StretchInterval  *int
	WaterInterval    *int
	SoundEnabled     *bool
	SoundVolume      *int
	EyeSound         *bool
	StretchSound     *bool
	WaterSound       *bool
	NotificationTone *NotificationTone
	NotifyOnResume   *bool
}

// Empty reports whether the patch changes nothing.
func (p ConfigPatch) Empty() bool {
	return p == ConfigPatch{}
}

// Apply returns c with the patch applied. The result is not validated.
func (c ReminderConfig) Apply(p ConfigPatch) ReminderConfig {
	if p.EyeInterval != nil {
		c.EyeInterval = *p.EyeInterval
	}
	if p.StretchInterval != nil {
		c.StretchInterval = *p.StretchInterval
	}
	if p.WaterInterval != nil {
		c.WaterInterval = *p.WaterInterval
	}
	if p.SoundEnabled != nil {
		c.SoundEnabled = *p.SoundEnabled
	}
	if p.SoundVolume != nil {
		c.SoundVolume = *p.SoundVolume
	}
	if p.EyeSound != nil {
		c.EyeSound = *p.EyeSound
	}
	if p.StretchSound != nil {
		c.StretchSound = *p.StretchSound
	}
	if p.WaterSound != nil {
		c.WaterSound = *p.WaterSound
	}
	if p.NotificationTone != nil {
		c.NotificationTone = *p.NotificationTone
	}
	if p.NotifyOnResume != nil {
		c.NotifyOnResume = *p.NotifyOnResume
	}
	return c
}

// OptimalIntervals is the interval triple derived from a work schedule.
type OptimalIntervals struct {
	EyeInterval     int `json:"eyeInterval"`
	StretchInterval int `json:"stretchInterval"`
	WaterInterval   int `json:"waterInterval"`
}
