package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAppsCmd creates the 'apps' command.
func NewAppsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Show recent and favorite apps",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHub()
			if err != nil {
				return err
			}
			defer h.Close()

			apps, err := h.Apps()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, apps)
			}

			fmt.Fprintf(out, "Recent (%d):\n", len(apps.Recent))
			for _, pkg := range apps.Recent {
				fmt.Fprintf(out, "  %s\n", pkg)
			}
			fmt.Fprintf(out, "\nFavorites (%d):\n", len(apps.Favorites))
			for _, f := range apps.Favorites {
				fmt.Fprintf(out, "  %-36s %d\n", f.PackageName, f.Count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
