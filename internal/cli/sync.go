package cli

import (
	"fmt"
	"time"

	"github.com/khanglvm/action-hub/internal/config"
	"github.com/khanglvm/action-hub/internal/plansync"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the 'sync' command for a foreground plan sync.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Request a new plan now",
		Long: `Send the recent usage history to Gemini and store the returned plan.

A manual sync ignores the minimum interval between syncs unless
manualBypassThrottle is disabled. Without an API key or without any
recorded usage there is nothing to send and the sync succeeds without a
request.`,
		Example: `  GEMINI_API_KEY=... action-hub sync`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
	}

	return cmd
}

func runSync(cmd *cobra.Command) error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	out := cmd.OutOrStdout()
	st := h.Sync(cmd.Context(), plansync.SinkFunc(func(_ string, s plansync.State) {
		fmt.Fprintf(out, "  %s\n", s.Key())
	}))
	if st.Stage() == plansync.Failed {
		return fmt.Errorf("sync failed: %s", st.Reason())
	}

	if p := h.Plan(); p != nil {
		fmt.Fprintf(out, "✓ Plan from %s with %d windows\n", p.GeneratedAt.In(h.Location()).Format(time.RFC3339), len(p.Windows))
	} else {
		fmt.Fprintln(out, "✓ Sync finished, no plan yet")
	}
	return nil
}

// NewStatusCmd creates the 'status' command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, plan and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}

	return cmd
}

func runStatus(cmd *cobra.Command) error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	path, err := config.GetDefaultConfigPath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	cfg := h.Config()
	s := cfg.Settings

	fmt.Fprintf(out, "✓ Config file: %s\n", path)
	fmt.Fprintf(out, "✓ Event log:   %s\n", h.DBPath())
	fmt.Fprintf(out, "✓ Backend:     %s\n", s.Backend)
	if key := cfg.MaskedKey(); key != "" {
		fmt.Fprintf(out, "✓ API key:     %s\n", key)
	} else {
		fmt.Fprintf(out, "✗ API key:     not set (%s or %s)\n", config.EnvAPIKey, config.EnvGeminiAPIKey)
	}

	if p := h.Plan(); p != nil {
		age := time.Since(p.GeneratedAt).Round(time.Minute)
		fmt.Fprintf(out, "✓ Plan:        %d windows, %s old\n", len(p.Windows), age)
	} else {
		fmt.Fprintln(out, "✗ Plan:        none")
	}

	lists := h.HubLists()
	fmt.Fprintf(out, "✓ Catalog:     %d candidates, %d adopted, %d hidden\n",
		len(lists.Candidates), len(lists.Adopted), len(lists.Hidden))

	st := h.SyncStatus()
	fmt.Fprintf(out, "  Sync:        %s every %dh\n", st.State, s.SyncIntervalHours)
	if st.LastResult != "" {
		fmt.Fprintf(out, "  Last sync:   %s at %s\n", st.LastResult, st.LastFinished.Format(time.RFC3339))
	}
	if st.LastError != "" {
		fmt.Fprintf(out, "  Last error:  %s\n", st.LastError)
	}
	return nil
}
