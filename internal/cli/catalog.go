package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khanglvm/action-hub/internal/catalog"
	"github.com/khanglvm/action-hub/internal/hub"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage AI suggested actions",
		Long: `Actions suggested by plan syncs are kept in a catalog.

Commands:
  list    Show candidates, adopted and hidden actions
  accept  Adopt an action (raises its priority)
  dismiss Hide an action from recommendations
  restore Undo a dismissal
  watch   Stream catalog changes as JSON lines`,
	}

	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogUpdateCmd("accept", "Adopt a suggested action", (*hub.Hub).Accept))
	cmd.AddCommand(newCatalogUpdateCmd("dismiss", "Hide a suggested action", (*hub.Hub).Dismiss))
	cmd.AddCommand(newCatalogUpdateCmd("restore", "Show a dismissed action again", (*hub.Hub).Restore))
	cmd.AddCommand(newCatalogWatchCmd())

	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List suggested actions by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHub()
			if err != nil {
				return err
			}
			defer h.Close()

			lists := h.HubLists()
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, lists)
			}

			total := len(lists.Candidates) + len(lists.Adopted) + len(lists.Hidden)
			if total == 0 {
				fmt.Fprintln(out, "No suggested actions.")
				fmt.Fprintln(out, "Run 'action-hub sync' to request a plan.")
				return nil
			}
			printEntries(cmd, "Candidates", lists.Candidates)
			printEntries(cmd, "Adopted", lists.Adopted)
			printEntries(cmd, "Hidden", lists.Hidden)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func printEntries(cmd *cobra.Command, title string, entries []catalog.Entry) {
	if len(entries) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d):\n", title, len(entries))
	for _, e := range entries {
		fmt.Fprintf(out, "  %-28s %s\n", e.ID, e.Label)
		fmt.Fprintf(out, "    Type: %s  Used: %d  Accepted: %d  Dismissed: %d\n",
			e.ActionType, e.UsageCount, e.AcceptedCount, e.DismissedCount)
	}
	fmt.Fprintln(out)
}

func newCatalogUpdateCmd(use, short string, update func(*hub.Hub, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <action-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHub()
			if err != nil {
				return err
			}
			defer h.Close()

			if err := update(h, args[0]); err != nil {
				return fmt.Errorf("failed to %s %s: %w", use, args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", use, args[0])
			return nil
		},
	}
}

func newCatalogWatchCmd() *cobra.Command {
	var withSync bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream catalog changes as JSON lines",
		Long: `Print the catalog once and then again after every change until interrupted.

With --sync, periodic plan sync runs while watching so new suggestions
show up as they arrive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHub()
			if err != nil {
				return err
			}
			defer h.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			updates, cancel := h.Catalog.Subscribe()
			defer cancel()

			if withSync {
				if err := h.StartBackground(ctx); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if err := enc.Encode(h.Catalog.Snapshot()); err != nil {
				return err
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case c, ok := <-updates:
					if !ok {
						return nil
					}
					if err := enc.Encode(c); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&withSync, "sync", false, "Run periodic plan sync while watching")

	return cmd
}
