package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search quick actions by label",
		Example: `  action-hub search mail
  action-hub search "new event" --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, limit int, jsonOutput bool) error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	results, err := h.Search(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, results)
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No actions match %q.\n", query)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "  %-28s %-24s %.2f\n", r.ID, r.Label, r.Score)
	}
	return nil
}
