/*
Package cli implements the command-line interface for action-hub.

Each command is implemented as a separate function that returns a
*cobra.Command. Commands load the configuration, open a hub for the duration
of the command and write their output to the command's output stream.
*/
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/khanglvm/action-hub/internal/config"
	"github.com/khanglvm/action-hub/internal/hub"
)

// hubOptions are passed to every hub a command opens. Tests replace them.
var hubOptions []hub.Option

// loadConfig reads the configuration, creating a default file on first use.
func loadConfig() (*config.Config, string, error) {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get config path: %w", err)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}

// openHub loads the configuration and opens a hub. The caller must Close it.
func openHub() (*hub.Hub, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	h, err := hub.Open(cfg, hubOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to open hub: %w", err)
	}
	return h, nil
}

// writeJSON pretty-prints v.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
