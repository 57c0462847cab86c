package config

import (
	"fmt"
	"os"
)

// PermissionError is returned when the config file cannot be read or
// written because of file permissions.
type PermissionError struct {
	Path    string
	Op      string // "read" or "write"
	Fix     string // command that restores access
	Details string
}

func (e *PermissionError) Error() string {
	msg := fmt.Sprintf("permission denied (cannot %s config): %s\n", e.Op, e.Path)
	if e.Details != "" {
		msg += e.Details + "\n"
	}
	return msg + "Fix: " + e.Fix
}

// Unwrap lets errors.Is match os.ErrPermission.
func (e *PermissionError) Unwrap() error { return os.ErrPermission }

// ConfigNotFoundError is returned by LoadFrom for a missing file.
// LoadOrCreate treats it as "write the defaults".
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s\n\nHint: %s", e.Path, e.Hint)
}

// Unwrap lets errors.Is match os.ErrNotExist.
func (e *ConfigNotFoundError) Unwrap() error { return os.ErrNotExist }

// InvalidConfigError reports a file that does not parse or holds settings
// that fail validation. Err is the underlying cause, if any.
type InvalidConfigError struct {
	Path    string
	Message string
	Hint    string
	Err     error
}

func (e *InvalidConfigError) Error() string {
	msg := "invalid config"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	msg += "\n"
	if e.Message != "" {
		msg += e.Message + "\n"
	}
	if e.Hint != "" {
		msg += "Hint: " + e.Hint
	}
	return msg
}

func (e *InvalidConfigError) Unwrap() error { return e.Err }
