package storage

import (
	"errors"

	"github.com/julianstephens/pausa/internal/models"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key/value state. Values are opaque strings (JSON for structured state).
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	// SetValues writes every pair in one transaction.
	SetValues(values map[string]string) error
	GetAllValues() (map[string]string, error)

	// Break events
	AddBreakEvent(models.BreakEvent) error
	// GetBreakEvents returns events with startDay <= day <= endDay, oldest first.
	GetBreakEvents(startDay, endDay string) ([]models.BreakEvent, error)

	// Utils
	GetConfigPath() string
}
