package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/khanglvm/action-hub/internal/mcp"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
//
// The server exposes the hub_* tools over stdio and keeps plan sync running
// in the background for as long as it is up.
func NewServeCmd() *cobra.Command {
	var noSync bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the action-hub MCP server using stdio transport.

The server exposes these tools to AI clients:
  • hub_recommend - Actions to show right now
  • hub_preview   - The current plan with readable labels
  • hub_search    - Search quick actions by label
  • hub_launch    - Open an action and record its use
  • hub_record    - Record an action or app invocation
  • hub_sync      - Queue a plan sync
  • hub_status    - Sync and plan status
  • hub_catalog   - List or update AI suggested actions
  • hub_apps      - Recent and favorite apps

Plan sync runs every syncIntervalHours while the server is up.`,
		Example: `  # Run directly
  action-hub serve

  # Add to Claude Code
  claude mcp add action-hub -- action-hub serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), noSync)
		},
	}

	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Do not run background plan sync")

	return cmd
}

// runServe starts the MCP server with stdio transport and signal handling.
// Implements graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
func runServe(parent context.Context, noSync bool) error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if !noSync {
		if err := h.StartBackground(ctx); err != nil {
			return fmt.Errorf("failed to start background sync: %w", err)
		}
	}

	server := mcp.NewServer(h)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Println("Shutdown complete")
	return nil
}
