package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks a configuration and reports every invalid setting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Settings == nil {
		return errors.New("missing 'settings' field")
	}
	return ValidateSettings(cfg.Settings)
}

// ValidateSettings checks each setting's range.
func ValidateSettings(s *Settings) error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	nonNegative := func(name string, v int) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}

	switch s.Backend {
	case BackendSQLite, BackendBadger:
	default:
		errs = append(errs, fmt.Errorf("backend must be %q or %q, got %q", BackendSQLite, BackendBadger, s.Backend))
	}
	if strings.TrimSpace(s.Model) == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}

	positive("syncIntervalHours", s.SyncIntervalHours)
	nonNegative("minSyncIntervalHours", s.MinSyncIntervalHours)
	positive("remoteTimeoutSeconds", s.RemoteTimeoutSeconds)
	positive("payloadEventLimit", s.PayloadEventLimit)
	positive("statsLimit", s.StatsLimit)
	positive("recentLimit", s.RecentLimit)
	positive("slots", s.Slots)
	nonNegative("catalogTtlDays", s.CatalogTTLDays)
	nonNegative("eventRetentionDays", s.EventRetentionDays)

	if s.Timezone != "" && s.Timezone != "Local" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("unknown timezone %q", s.Timezone))
		}
	}
	if s.NetworkRequired && strings.TrimSpace(s.NetworkProbeAddress) == "" {
		errs = append(errs, errors.New("networkProbeAddress is required when networkRequired is set"))
	}
	if strings.TrimSpace(s.OpenerCommand) == "" {
		errs = append(errs, errors.New("openerCommand must not be empty"))
	}

	return errors.Join(errs...)
}
