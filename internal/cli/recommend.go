package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewRecommendCmd creates the 'recommend' command.
func NewRecommendCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "recommend",
		Aliases: []string{"now"},
		Short:   "Show the actions recommended right now",
		Long: `Resolve the quick actions to show at this moment.

The current time is matched against the plan's time windows. Without a
matching window the most used actions are shown, and without any history
the highest priority built-in actions.`,
		Example: `  action-hub recommend
  action-hub now --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runRecommend(cmd *cobra.Command, jsonOutput bool) error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	res, err := h.Recommend()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, res)
	}

	header := fmt.Sprintf("Recommended now (source: %s", res.Source)
	if res.WindowID != "" {
		header += ", window: " + res.WindowID
	}
	fmt.Fprintln(out, header+"):")
	fmt.Fprintln(out)
	for i, a := range res.Actions {
		fmt.Fprintf(out, "  %d. %-28s %s\n", i+1, a.ID, a.Label)
	}
	return nil
}

// NewPreviewCmd creates the 'preview' command.
func NewPreviewCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the current plan with readable labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runPreview(cmd *cobra.Command, jsonOutput bool) error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	p := h.Preview()
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, p)
	}

	if p.GeneratedAt.IsZero() {
		fmt.Fprintln(out, "No plan yet.")
		fmt.Fprintln(out, "Run 'action-hub sync' to request one.")
		return nil
	}

	fmt.Fprintf(out, "Plan generated %s\n\n", p.GeneratedAt.In(h.Location()).Format("2006-01-02 15:04"))
	for _, w := range p.Windows {
		fmt.Fprintf(out, "  %s\n", w.Label)
		fmt.Fprintf(out, "    Primary:  %s\n", strings.Join(w.Primary, ", "))
		if len(w.Fallback) > 0 {
			fmt.Fprintf(out, "    Fallback: %s\n", strings.Join(w.Fallback, ", "))
		}
	}
	if len(p.Pins) > 0 {
		fmt.Fprintf(out, "\n  Pinned:     %s\n", strings.Join(p.Pins, ", "))
	}
	if len(p.Suppressed) > 0 {
		fmt.Fprintf(out, "  Suppressed: %s\n", strings.Join(p.Suppressed, ", "))
	}
	if len(p.Rationales) > 0 {
		fmt.Fprintln(out, "\nWhy:")
		for _, r := range p.Rationales {
			fmt.Fprintf(out, "  • %s: %s\n", r.Target, r.Summary)
		}
	}
	return nil
}
