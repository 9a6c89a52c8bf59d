package persistence

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	apperrors "github.com/julianstephens/pausa/internal/errors"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/storage"
)

// Adapter maps engine state onto persisted keys. Loads never fail: missing or
// unreadable values yield defaults. Saves are queued on the Writer.
type Adapter struct {
	kv     KV
	writer *Writer
}

func New(kv KV) *Adapter {
	return &Adapter{kv: kv, writer: NewWriter(kv)}
}

// Writer exposes the write queue so the caller can run and flush it.
func (a *Adapter) Writer() *Writer {
	return a.writer
}

// read returns the newest value for key, preferring unflushed writes.
func (a *Adapter) read(key string) (string, bool) {
	if v, ok := a.writer.Pending(key); ok {
		return v, true
	}
	v, err := a.kv.GetValue(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read persisted state", "key", key, "error", err)
		}
		return "", false
	}
	return v, true
}

func (a *Adapter) readJSON(key string, v any) bool {
	raw, ok := a.read(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.Warn("Failed to parse persisted state, using defaults", "key", key, "error", apperrors.Configf("%s: %v", key, err))
		return false
	}
	return true
}

func (a *Adapter) writeJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("Failed to encode state", "key", key, "error", err)
		return
	}
	a.writer.Put(key, string(data))
}

// LoadConfig overlays the persisted config on the defaults, so keys missing
// from older installs keep their default values.
func (a *Adapter) LoadConfig() models.ReminderConfig {
	cfg := models.DefaultReminderConfig()
	if !a.readJSON(constants.KeyReminderConfig, &cfg) {
		return models.DefaultReminderConfig()
	}
	return cfg
}

func (a *Adapter) LoadTimestamps() (models.TimerTimestamps, bool) {
	var ts models.TimerTimestamps
	if !a.readJSON(constants.KeyTimerTimestamps, &ts) {
		return models.TimerTimestamps{}, false
	}
	return ts, true
}

func (a *Adapter) LoadRunning() bool {
	raw, ok := a.read(constants.KeyTimersRunning)
	if !ok {
		return true
	}
	running, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Warn("Failed to parse persisted state, using defaults", "key", constants.KeyTimersRunning, "error", err)
		return true
	}
	return running
}

func (a *Adapter) LoadSchedule() models.WorkSchedule {
	ws := models.DefaultWorkSchedule()
	if !a.readJSON(constants.KeyWorkSchedule, &ws) {
		return models.DefaultWorkSchedule()
	}
	return ws
}

func (a *Adapter) LoadAppliedDay() string {
	raw, ok := a.read(constants.KeyOptimalAppliedOn)
	if !ok {
		return ""
	}
	if _, err := time.Parse(constants.DateFormat, raw); err != nil {
		logger.Warn("Ignoring malformed applied day", "value", raw)
		return ""
	}
	return raw
}

func (a *Adapter) SaveConfig(cfg models.ReminderConfig) {
	a.writeJSON(constants.KeyReminderConfig, cfg)
}

func (a *Adapter) SaveTimestamps(ts models.TimerTimestamps) {
	a.writeJSON(constants.KeyTimerTimestamps, ts)
}

func (a *Adapter) SaveRunning(running bool) {
	a.writer.Put(constants.KeyTimersRunning, strconv.FormatBool(running))
}

func (a *Adapter) SaveSchedule(ws models.WorkSchedule) {
	a.writeJSON(constants.KeyWorkSchedule, ws)
}

func (a *Adapter) SaveAppliedDay(day string) {
	a.writer.Put(constants.KeyOptimalAppliedOn, day)
}
