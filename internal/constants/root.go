package constants

import "time"

const (
	AppName            = "pausa"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/pausa/pausa.db"
	DefaultRuntimePath = "~/.config/pausa/pausa.toml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Engine timing defaults
	DefaultTickInterval        = time.Second
	DefaultNotifyCooldown      = 5 * time.Second
	DefaultStaleAfter          = 5 * time.Minute
	DefaultSuppressionWindow   = 3 * time.Second
	DefaultQuickSuppression    = 500 * time.Millisecond
	DefaultBackupInterval      = 30 * time.Second
	DefaultResumeGap           = 5 * time.Second
	DefaultSnoozeDuration      = 5 * time.Minute
	DefaultPersistQueueSize    = 32
	DefaultAgentQueueSize      = 64
	DefaultAgentDeliverTimeout = 2 * time.Second

	// Notify constants
	NotifyMaxRetries         = 3
	NotifyRetryDelay         = 100 * time.Millisecond
	NotifierLockfileName     = "pausa-notifier.lock"
	EngineLockfileName       = "pausa-engine.lock"
	NotificationDurationMs   = 5000
	TrayAppIdentifier        = "com.julianstephens.pausa"
	TrayExecutablePrefix     = "pausa-tray"
	SecretHeader             = "X-Pausa-Secret"
	AgentEndpointPath        = "/agent"
	NotificationEndpointPath = "/"

	// Tone synthesis
	ToneSampleRate = 44100
	ToneBitDepth   = 16
)
