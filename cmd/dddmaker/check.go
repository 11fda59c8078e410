package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"go.eggybyte.com/dddmaker/internal/configschema"
	"go.eggybyte.com/dddmaker/internal/journal"
	"go.eggybyte.com/dddmaker/internal/ui"
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and templates",
	Long: `Check configuration and templates for issues.

This command provides:
- Configuration validation
- Template parse checks, including overrides from skeleton_dir
- Journal connectivity for mysql and postgres journals

Example:
  dddmaker check`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runCheck executes the check command.
//
// Parameters:
//   - cmd: Cobra command
//   - args: Command arguments
//
// Returns:
//   - error: Non-nil when any error-level issue was found
func runCheck(cmd *cobra.Command, args []string) error {
	ui.Info("Checking configuration and templates...")

	s, err := loadSession()
	if s == nil {
		return err
	}
	errorCount := displayDiagnostics(s.diags)

	loader := s.loader()
	results, err := loader.ValidateAllTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if results[id] != nil {
			ui.Error("template %s: %v", id, results[id])
			errorCount++
		}
	}
	ui.Debug("%d templates checked", len(ids))

	if s.config.Journal.Enabled && s.config.Journal.Driver != "sqlite" {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		store, err := journal.Open(ctx, journal.Options{
			Driver: s.config.Journal.Driver,
			DSN:    s.config.Journal.DSN,
			Logger: s.logger,
		})
		if err != nil {
			ui.Error("journal: %v", err)
			errorCount++
		} else {
			_ = store.Close()
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("check failed with %d errors", errorCount)
	}
	if s.diags.HasWarnings() {
		ui.Warning("Check completed with warnings")
	} else {
		ui.Success("Check passed! No issues found.")
	}
	return nil
}

// displayDiagnostics prints configuration diagnostics and returns the error count.
func displayDiagnostics(diags *configschema.Diagnostics) int {
	errorCount := 0
	for _, d := range diags.Items() {
		text := d.Message
		if d.Path != "" {
			text = d.Path + ": " + text
		}
		if d.Suggestion != "" {
			text += " (" + d.Suggestion + ")"
		}
		switch d.Severity {
		case configschema.SeverityError:
			ui.Error("%s", text)
			errorCount++
		case configschema.SeverityInfo:
			ui.Info("%s", text)
		}
	}
	return errorCount
}
