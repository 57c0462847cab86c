package cli

import (
	"fmt"

	"github.com/khanglvm/action-hub/internal/learning"
	"github.com/spf13/cobra"
)

// NewRecordCmd creates the 'record' command for logging an invocation.
func NewRecordCmd() *cobra.Command {
	var app string

	cmd := &cobra.Command{
		Use:   "record [action-id]",
		Short: "Record that an action or app was used",
		Long: `Append an invocation to the event log.

Launchers that open actions themselves call this so their usage counts
toward recommendations. Use --app to record an app launch by package name.`,
		Example: `  action-hub record gmail_compose
  action-hub record --app org.mozilla.firefox`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return runRecord(cmd, id, app)
		},
	}

	cmd.Flags().StringVar(&app, "app", "", "Package name of a launched app")

	return cmd
}

func runRecord(cmd *cobra.Command, id, app string) error {
	var event learning.Event
	switch {
	case id != "" && app != "":
		return fmt.Errorf("give either an action id or --app, not both")
	case app != "":
		event = learning.NewAppEvent(app)
	default:
		event = learning.NewActionEvent(id)
	}
	if !event.Valid() {
		return fmt.Errorf("an action id or --app is required")
	}

	h, err := openHub()
	if err != nil {
		return err
	}
	h.Record(event)
	if err := h.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s\n", event.ActionID)
	return nil
}
