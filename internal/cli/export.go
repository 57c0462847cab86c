package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/khanglvm/action-hub/internal/hub"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	var format string
	var output string
	var limit int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the action log, plan and catalog",
		Long: `Dump recent events, usage stats, the current plan and the catalog.

Formats:
  json   one document with every section (default)
  jsonl  one event per line, for grep and jq`,
		Example: `  # Everything as one JSON document
  action-hub export --output hub.json

  # Events only, one per line
  action-hub export --format jsonl | jq -r '.actionId' | sort | uniq -c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, format, output, limit)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or jsonl")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 1000, "Maximum number of events and stats")

	return cmd
}

// runExport executes the export command.
func runExport(cmd *cobra.Command, format, output string, limit int) error {
	if format != "json" && format != "jsonl" {
		return fmt.Errorf("unknown format %q (use json or jsonl)", format)
	}

	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	export, err := h.Export(limit)
	if err != nil {
		return err
	}

	if output == "" {
		return writeExport(cmd.OutOrStdout(), export, format)
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := writeExport(file, export, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d events to %s\n", len(export.Events), output)
	return nil
}

// writeExport writes export as one document or as one event per line.
func writeExport(w io.Writer, export hub.Export, format string) error {
	if format == "json" {
		return writeJSON(w, export)
	}

	encoder := json.NewEncoder(w)
	for _, e := range export.Events {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}
