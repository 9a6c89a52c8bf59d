package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/pausa/internal/logger"
)

// Failure classes of the reminder subsystem. None of them is fatal to the engine: each is
// recovered locally and at worst removes a side effect.
var (
	// ErrConfiguration marks malformed persisted JSON or out-of-range settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrStaleState marks a deadline found too far in the past on load.
	ErrStaleState = errors.New("stale timer state")
	// ErrPermissionDenied marks a refused platform notification permission.
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrSideEffect marks an audio, vibration or notification failure.
	ErrSideEffect = errors.New("side effect failed")
)

// Configf wraps a formatted message as a configuration error.
func Configf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// SideEffect wraps err as a side effect failure tagged with the effect name.
func SideEffect(effect string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrSideEffect, effect, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
