package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go.eggybyte.com/dddmaker/internal/journal"
	"go.eggybyte.com/dddmaker/internal/modulepath"
	"go.eggybyte.com/dddmaker/internal/ui"
)

var (
	historyLimit  int
	historyModule string
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List generated modules, newest first",
	Long: `List the generation runs recorded in the journal.

Example:
  dddmaker history --limit 5
  dddmaker history --module billing/invoice`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	historyCmd.Flags().StringVar(&historyModule, "module", "", "Only show runs for this module path")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := loadSession()
	if err != nil {
		return err
	}
	if !s.config.Journal.Enabled {
		return fmt.Errorf("journal is disabled in %s", s.configFile)
	}

	opts := journal.ListOptions{Limit: historyLimit}
	if historyModule != "" {
		p, err := modulepath.Parse(historyModule, s.config.RootNamespace)
		if err != nil {
			return err
		}
		opts.ModuleKey = p.Key()
	}

	store, err := journal.Open(ctx, journal.Options{
		Driver: s.config.Journal.Driver,
		DSN:    s.config.Journal.DSN,
		Logger: s.logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, opts)
	if err != nil {
		return err
	}

	if !ui.IsJSONOutput() {
		for _, e := range entries {
			spec := ""
			if e.WithSpec {
				spec = " +spec"
			}
			ui.Info("%s  %-5s%s  %s (%d files)", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Kind, spec, e.ModulePath, len(e.Files))
		}
	}
	ui.Result(entries, "%d runs", len(entries))
	return nil
}
