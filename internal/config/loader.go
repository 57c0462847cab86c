package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
)

// Load reads the configuration from the default path and applies
// environment overrides.
func Load() (*Config, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	return withEnv(cfg)
}

// LoadOrCreate reads the configuration at path, writing a default one first
// when the file does not exist. Environment overrides are applied to the
// returned value, never to the file.
func LoadOrCreate(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	var notFound *ConfigNotFoundError
	if errors.As(err, &notFound) {
		cfg = NewConfig()
		if err := Save(cfg, path); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return withEnv(cfg)
}

func withEnv(cfg *Config) (*Config, error) {
	ApplyEnv(cfg, os.Getenv)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads config with enhanced error handling. Fields missing from
// the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	// Check file existence first
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'action-hub config init' to create configuration",
			}
		}
		return nil, fmt.Errorf("failed to access config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path:    path,
				Op:      "read",
				Fix:     getReadPermissionFix(path),
				Details: getPermissionDetails(path),
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("JSON parse error: %v", err),
			Hint:    "Restore from .bak file if available",
			Err:     err,
		}
	}
	if cfg.Settings == nil {
		cfg.Settings = DefaultSettings()
	}

	if err := Validate(cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Fix the listed settings or delete them to use defaults",
			Err:     err,
		}
	}

	return cfg, nil
}

// getReadPermissionFix returns platform-specific fix command
func getReadPermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	default: // unix-like
		return fmt.Sprintf("Run: chmod 600 %s", path)
	}
}

// getPermissionDetails checks file ownership and permissions
func getPermissionDetails(path string) string {
	if runtime.GOOS == "windows" {
		return ""
	}

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("Current permissions: %04o", info.Mode().Perm())
}
