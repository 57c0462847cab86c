/*
Package main is the entry point for the action-hub CLI.

action-hub recommends quick actions for the current moment. It learns from
which actions and apps are used when, asks Gemini for a plan per recurring
time window, and resolves the plan against the clock at read time.

Usage:
  action-hub [command]

Available Commands:
  serve       Run the MCP server (stdio transport)
  recommend   Show the actions recommended right now
  preview     Show the current plan with readable labels
  record      Record that an action or app was used
  launch      Open an action and record its use
  search      Search quick actions by label
  sync        Request a new plan now
  status      Show configuration, plan and catalog status
  catalog     Manage AI suggested actions
  apps        Show recent and favorite apps
  export      Export the action log, plan and catalog
  config      Create or inspect the configuration file
  version     Show version information

Examples:
  # Create ~/.action-hub.json
  action-hub config init

  # Run as MCP server
  action-hub serve

  # What to show now
  action-hub recommend
*/
package main

import (
	"fmt"
	"os"

	"github.com/khanglvm/action-hub/internal/cli"
	"github.com/khanglvm/action-hub/internal/version"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	buildVersion = "dev"
	commit       = "none"
	date         = "unknown"
)

func main() {
	version.Version, version.Commit, version.Date = buildVersion, commit, date

	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: "Personalized quick action recommendations",
		Long: `action-hub observes which shortcuts and apps you use, groups that history
into recurring time windows and asks Gemini for a ranked plan per window.
At any moment it resolves the plan against the clock, honoring pins and
suppressions, and falls back to plain usage counts when no plan exists.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewRecommendCmd())
	rootCmd.AddCommand(cli.NewPreviewCmd())
	rootCmd.AddCommand(cli.NewRecordCmd())
	rootCmd.AddCommand(cli.NewLaunchCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewSyncCmd())
	rootCmd.AddCommand(cli.NewStatusCmd())
	rootCmd.AddCommand(cli.NewCatalogCmd())
	rootCmd.AddCommand(cli.NewAppsCmd())
	rootCmd.AddCommand(cli.NewExportCmd())
	rootCmd.AddCommand(cli.NewConfigCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
