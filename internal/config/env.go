package config

import (
	"strings"
)

// Environment variables read by the configuration.
const (
	EnvConfigPath   = "ACTION_HUB_CONFIG"
	EnvAPIKey       = "ACTION_HUB_GEMINI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvBackend      = "ACTION_HUB_BACKEND"
	EnvDataDir      = "ACTION_HUB_DATA_DIR"
)

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg.Settings == nil {
		cfg.Settings = DefaultSettings()
	}
	if v := strings.TrimSpace(getenv(EnvBackend)); v != "" {
		cfg.Settings.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		cfg.Settings.DataDir = v
	}
	for _, name := range []string{EnvAPIKey, EnvGeminiAPIKey} {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			cfg.GeminiAPIKey = v
			break
		}
	}
}

// MaskedKey returns the API key with all but its last four characters hidden.
func (c *Config) MaskedKey() string {
	key := strings.TrimSpace(c.GeminiAPIKey)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
