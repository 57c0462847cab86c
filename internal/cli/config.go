package cli

import (
	"fmt"
	"os"

	"github.com/khanglvm/action-hub/internal/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
		Long: `The configuration lives in ~/.action-hub.json, or in the file named by
ACTION_HUB_CONFIG. The Gemini API key can also come from
ACTION_HUB_GEMINI_API_KEY or GEMINI_API_KEY.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	var apiKey string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults",
		Example: `  action-hub config init
  action-hub config init --api-key "$GEMINI_API_KEY" --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, force, apiKey)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Gemini API key to store")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool, apiKey string) error {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.NewConfig()
	cfg.GeminiAPIKey = apiKey
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after environment overrides, with the API key masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}

			shown := *cfg
			shown.GeminiAPIKey = cfg.MaskedKey()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			return writeJSON(out, shown)
		},
	}
}
