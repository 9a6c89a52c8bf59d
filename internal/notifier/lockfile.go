package notifier

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Lockfile is the "port|pid|secret" record a loopback listener publishes.
type Lockfile struct {
	Port   int
	PID    int
	Secret string
}

// NewLockfile describes the current process listening on port with a fresh secret.
func NewLockfile(port int) Lockfile {
	return Lockfile{Port: port, PID: os.Getpid(), Secret: uuid.NewString()}
}

func (l Lockfile) String() string {
	return fmt.Sprintf("%d|%d|%s", l.Port, l.PID, l.Secret)
}

// ParseLockfile parses and validates lockfile content.
func ParseLockfile(content string) (Lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return Lockfile{}, errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return Lockfile{}, errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return Lockfile{}, errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return Lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return Lockfile{}, errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return Lockfile{}, errors.New("secret in lockfile is empty")
	}

	return Lockfile{Port: portNum, PID: pid, Secret: secret}, nil
}

// ReadLockfile reads and parses the lockfile at path.
func ReadLockfile(path string) (Lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Lockfile{}, err
	}
	return ParseLockfile(string(content))
}

// WriteLockfile writes l to path, readable only by the current user.
func WriteLockfile(path string, l Lockfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(l.String()), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

// RemoveLockfile deletes the lockfile at path if it still belongs to this process.
func RemoveLockfile(path string) error {
	l, err := ReadLockfile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if l.PID != os.Getpid() {
		return nil
	}
	return os.Remove(path)
}
