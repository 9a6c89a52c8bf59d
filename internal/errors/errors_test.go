package errors

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("store unavailable"),
			expected: "Error: store unavailable",
		},
		{
			name:     "configuration error",
			err:      Configf("eyeInterval must be at least %d", 1),
			expected: "Error: configuration error: eyeInterval must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "reminderConfig")
	if got != "Error: failed to load reminderConfig" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestTaxonomy(t *testing.T) {
	cfgErr := Configf("bad tone %q", "kazoo")
	if !Is(cfgErr, ErrConfiguration) {
		t.Errorf("Configf() should wrap ErrConfiguration, got %v", cfgErr)
	}
	if Is(cfgErr, ErrSideEffect) {
		t.Error("configuration error must not match ErrSideEffect")
	}

	sideErr := SideEffect("audio", errors.New("no player"))
	if !Is(sideErr, ErrSideEffect) {
		t.Errorf("SideEffect() should wrap ErrSideEffect, got %v", sideErr)
	}
	if !strings.Contains(sideErr.Error(), "audio") {
		t.Errorf("SideEffect() should name the effect, got %v", sideErr)
	}

	if SideEffect("audio", nil) != nil {
		t.Error("SideEffect(nil) should be nil")
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
