package constants

const (
	// Persisted state keys
	KeyReminderConfig   = "reminderConfig"
	KeyTimerTimestamps  = "timerTimestamps"
	KeyTimersRunning    = "timersRunning"
	KeyWorkSchedule     = "workSchedule"
	KeyOptimalAppliedOn = "optimalAppliedOn"

	// Reminder defaults
	DefaultEyeInterval      = 20
	DefaultStretchInterval  = 50
	DefaultWaterInterval    = 60
	DefaultSoundEnabled     = true
	DefaultSoundVolume      = 70
	DefaultNotificationTone = "soft-beep"
	DefaultNotifyOnResume   = false

	// Work schedule defaults
	DefaultWorkStart     = "08:00"
	DefaultLunchStart    = "12:00"
	DefaultLunchDuration = 60
	DefaultWorkEnd       = "17:00"

	// Bounds
	MinIntervalMin = 1
	MaxIntervalMin = 24 * 60
	MinSoundVolume = 0
	MaxSoundVolume = 100
)
