/*
Package config handles loading and saving action-hub configuration.

Configuration is stored in ~/.action-hub.json (or the path in
ACTION_HUB_CONFIG). Missing fields keep their defaults, and a few fields can
be overridden from the environment.

Schema:
  {
    "geminiApiKey": "...",
    "settings": {
      "dataDir": "~/.action-hub",
      "backend": "sqlite",
      "model": "gemini-2.5-pro",
      "syncIntervalHours": 3,
      "minSyncIntervalHours": 3,
      "manualBypassThrottle": true,
      "remoteTimeoutSeconds": 30,
      "payloadEventLimit": 200,
      "statsLimit": 50,
      "recentLimit": 12,
      "slots": 6,
      "timezone": "UTC",
      "networkRequired": true,
      "networkProbeAddress": "generativelanguage.googleapis.com:443",
      "catalogTtlDays": 0,
      "eventRetentionDays": 90,
      "openerCommand": "xdg-open"
    }
  }
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Storage backends for the plan and catalog blobs.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config represents the root configuration structure.
type Config struct {
	// GeminiAPIKey is the credential for plan sync. Environment variables
	// take precedence over it.
	GeminiAPIKey string `json:"geminiApiKey,omitempty"`

	// Settings contains global configuration options.
	Settings *Settings `json:"settings"`
}

// Settings contains global configuration options.
type Settings struct {
	// DataDir holds the event database and blob storage. Empty means ~/.action-hub.
	DataDir string `json:"dataDir,omitempty"`

	// Backend selects the blob store for plan and catalog: sqlite or badger.
	Backend string `json:"backend"`

	// Model is the Gemini model used for plan sync.
	Model string `json:"model"`

	// SyncIntervalHours is the period of the background sync.
	SyncIntervalHours int `json:"syncIntervalHours"`

	// MinSyncIntervalHours is the minimum time between two remote calls.
	MinSyncIntervalHours int `json:"minSyncIntervalHours"`

	// ManualBypassThrottle lets manual syncs ignore MinSyncIntervalHours.
	ManualBypassThrottle bool `json:"manualBypassThrottle"`

	// RemoteTimeoutSeconds bounds a single remote call.
	RemoteTimeoutSeconds int `json:"remoteTimeoutSeconds"`

	// PayloadEventLimit is how many recent events a sync reads.
	PayloadEventLimit int `json:"payloadEventLimit"`

	// StatsLimit is how many per-action counts a sync and the resolver read.
	StatsLimit int `json:"statsLimit"`

	// RecentLimit is the size of the recent apps list.
	RecentLimit int `json:"recentLimit"`

	// Slots is the number of recommended actions.
	Slots int `json:"slots"`

	// Timezone is the IANA zone used to bucket events and match windows.
	Timezone string `json:"timezone"`

	// NetworkRequired holds sync requests until the network is reachable.
	NetworkRequired bool `json:"networkRequired"`

	// NetworkProbeAddress is dialed to decide whether the network is reachable.
	NetworkProbeAddress string `json:"networkProbeAddress"`

	// CatalogTTLDays evicts unused AI actions not suggested for this many
	// days. Zero keeps them forever.
	CatalogTTLDays int `json:"catalogTtlDays"`

	// EventRetentionDays deletes events older than this many days. Zero
	// keeps them forever.
	EventRetentionDays int `json:"eventRetentionDays"`

	// OpenerCommand launches action targets.
	OpenerCommand string `json:"openerCommand"`
}

// NewConfig creates a configuration with default settings.
func NewConfig() *Config {
	return &Config{Settings: DefaultSettings()}
}

// DefaultSettings returns the default settings.
func DefaultSettings() *Settings {
	return &Settings{
		Backend:              BackendSQLite,
		Model:                "gemini-2.5-pro",
		SyncIntervalHours:    3,
		MinSyncIntervalHours: 3,
		ManualBypassThrottle: true,
		RemoteTimeoutSeconds: 30,
		PayloadEventLimit:    200,
		StatsLimit:           50,
		RecentLimit:          12,
		Slots:                6,
		Timezone:             "UTC",
		NetworkRequired:      true,
		NetworkProbeAddress:  "generativelanguage.googleapis.com:443",
		EventRetentionDays:   90,
		OpenerCommand:        defaultOpener(),
	}
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// GetDefaultConfigPath returns ACTION_HUB_CONFIG or ~/.action-hub.json.
func GetDefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".action-hub.json"), nil
}

// ResolvedDataDir returns DataDir, or ~/.action-hub when it is empty.
func (s *Settings) ResolvedDataDir() (string, error) {
	if s.DataDir != "" {
		return s.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".action-hub"), nil
}

// Location loads the configured time zone.
func (s *Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// SyncInterval returns SyncIntervalHours as a duration.
func (s *Settings) SyncInterval() time.Duration {
	return time.Duration(s.SyncIntervalHours) * time.Hour
}

// MinSyncInterval returns MinSyncIntervalHours as a duration.
func (s *Settings) MinSyncInterval() time.Duration {
	return time.Duration(s.MinSyncIntervalHours) * time.Hour
}

// RemoteTimeout returns RemoteTimeoutSeconds as a duration.
func (s *Settings) RemoteTimeout() time.Duration {
	return time.Duration(s.RemoteTimeoutSeconds) * time.Second
}

// CatalogTTL returns CatalogTTLDays as a duration; zero disables eviction.
func (s *Settings) CatalogTTL() time.Duration {
	return time.Duration(s.CatalogTTLDays) * 24 * time.Hour
}

// EventRetention returns EventRetentionDays as a duration; zero disables cleanup.
func (s *Settings) EventRetention() time.Duration {
	return time.Duration(s.EventRetentionDays) * 24 * time.Hour
}
