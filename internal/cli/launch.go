package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLaunchCmd creates the 'launch' command.
func NewLaunchCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "launch <action-id>",
		Short: "Open an action and record its use",
		Long: `Open the action's target with the configured opener command.

Search and map actions append --query to their target. A successful
launch is recorded like 'action-hub record'.`,
		Example: `  action-hub launch gmail_inbox
  action-hub launch maps_navi --query "Central Station"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHub()
			if err != nil {
				return err
			}
			defer h.Close()

			target, err := h.Launch(cmd.Context(), args[0], query)
			if err != nil {
				return fmt.Errorf("failed to launch %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Opened %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Text for search and map actions")

	return cmd
}
