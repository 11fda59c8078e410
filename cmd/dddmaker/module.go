package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"go.eggybyte.com/dddmaker/internal/core/log"
	"go.eggybyte.com/dddmaker/internal/generator"
	"go.eggybyte.com/dddmaker/internal/journal"
	"go.eggybyte.com/dddmaker/internal/modulepath"
	"go.eggybyte.com/dddmaker/internal/obsx"
	"go.eggybyte.com/dddmaker/internal/projectfs"
	"go.eggybyte.com/dddmaker/internal/toolrunner"
	"go.eggybyte.com/dddmaker/internal/ui"
	"go.eggybyte.com/dddmaker/internal/version"
)

var (
	moduleWithSpec bool
	moduleDryRun   bool
	moduleForce    bool
	moduleLint     bool
)

// moduleCmd represents the module command group.
var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Generate DDD module skeletons",
	Long: `Generate DDD module skeletons under the configured source directory.

Module paths use / or \ as separators and are normalized to PascalCase
segments, so "billing/invoice-line" becomes "Billing/InvoiceLine".`,
}

var moduleBasicCmd = &cobra.Command{
	Use:   "basic [path]",
	Short: "Generate the Application, Domain and Infrastructure folders",
	Long: `Generate the three layer folders of a module, each holding a .gitignore marker.

Example:
  dddmaker module basic Billing/Invoice`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModule(cmd, args, generator.KindBasic)
	},
}

var moduleFullCmd = &cobra.Command{
	Use:   "full [path]",
	Short: "Generate a module with entity, repositories and persistence adapters",
	Long: `Generate a complete module: entity, identifier, DTO, creation event,
not-found exception, repository interface, Doctrine and in-memory repositories.

With --with-spec, specification interfaces and their Doctrine and in-memory
implementations are generated too.

Example:
  dddmaker module full Billing/Invoice --with-spec`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModule(cmd, args, generator.KindFull)
	},
}

func init() {
	for _, c := range []*cobra.Command{moduleBasicCmd, moduleFullCmd} {
		c.Flags().BoolVar(&moduleDryRun, "dry-run", false, "Print the files that would be written")
		c.Flags().BoolVar(&moduleForce, "force", false, "Overwrite existing files")
	}
	moduleFullCmd.Flags().BoolVar(&moduleWithSpec, "with-spec", false, "Generate specification classes")
	moduleFullCmd.Flags().BoolVar(&moduleLint, "lint", false, "Run php -l on generated files")

	moduleCmd.AddCommand(moduleBasicCmd, moduleFullCmd)
	rootCmd.AddCommand(moduleCmd)
}

// plannedFile is the JSON shape of a dry-run entry.
type plannedFile struct {
	Destination string            `json:"destination"`
	Template    string            `json:"template"`
	Vars        map[string]string `json:"vars,omitempty"`
}

// runModule executes module basic and module full.
//
// Parameters:
//   - cmd: Cobra command
//   - args: Optional module path
//   - kind: Catalog to generate
//
// Returns:
//   - error: Configuration, planning or write error
func runModule(cmd *cobra.Command, args []string, kind generator.Kind) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := loadSession()
	if err != nil {
		return err
	}

	rawPath := ""
	if len(args) > 0 {
		rawPath = args[0]
	} else {
		rawPath = ui.Ask("Module path (e.g. Billing/Invoice)", "")
	}
	if rawPath == "" {
		return fmt.Errorf("module path is required")
	}
	path, err := modulepath.Parse(rawPath, s.config.RootNamespace)
	if err != nil {
		return err
	}
	normalized := path.Normalized()

	withSpec := moduleWithSpec
	if kind == generator.KindFull && !cmd.Flags().Changed("with-spec") && !ui.IsNonInteractive() {
		withSpec = ui.Confirm(false, "Generate specification classes for %s?", normalized)
	}

	metrics, err := obsx.NewProvider(ctx, obsx.Options{
		ServiceName:    "dddmaker",
		ServiceVersion: version.Version,
		ResourceAttrs:  map[string]string{"project": filepath.Base(s.fs.GetAbsolutePath("."))},
	})
	if err != nil {
		return err
	}
	defer func() { _ = metrics.Shutdown(context.Background()) }()

	stager := projectfs.NewStager(s.fs, s.loader(),
		projectfs.WithOverwrite(moduleForce),
		projectfs.WithLogger(s.logger))

	gen, err := generator.New(stager, generator.Options{
		ProjectDir:          s.projectDir,
		SourceDir:           s.config.SourceDir,
		RootNamespace:       s.config.RootNamespace,
		Extension:           s.config.Extension,
		SearchSpecification: s.config.Features.SearchSpecification,
		DbalIDType:          s.config.Features.DbalIDType,
	}, generator.WithLogger(s.logger), generator.WithMeter(metrics.Meter("dddmaker")))
	if err != nil {
		return err
	}

	var bindings []generator.Binding
	if kind == generator.KindBasic {
		bindings, err = gen.PlanBasic(rawPath)
	} else {
		bindings, err = gen.PlanFull(rawPath, withSpec)
	}
	if err != nil {
		return err
	}

	if moduleDryRun {
		printPlan(s, normalized, bindings)
		return nil
	}

	ui.Info("Generating %s module %s (%d files)...", kind, normalized, len(bindings))
	if err := gen.Apply(ctx, kind, bindings); err != nil {
		return fmt.Errorf("failed to generate module %s: %w", normalized, err)
	}

	files := stager.Committed()
	for _, f := range files {
		ui.Debug("wrote %s", f)
	}

	if s.config.Journal.Enabled {
		recordRun(ctx, s, journal.Entry{
			ModuleKey:  path.Key(),
			ModulePath: normalized,
			Kind:       string(kind),
			WithSpec:   withSpec,
			Files:      files,
		})
	}

	if moduleLint {
		runner := toolrunner.NewRunner(s.projectDir)
		runner.SetVerbose(verbose)
		if err := runner.PHPLint(ctx, files); err != nil {
			return err
		}
		ui.Success("php -l passed for %d files", len(files))
	}

	if s.config.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(s.config.Metrics.Textfile); err != nil {
			ui.Warning("Failed to write metrics: %v", err)
		}
	}

	ui.Result(files, "Module %s generated (%d files)", normalized, len(files))
	return nil
}

func printPlan(s *session, normalized string, bindings []generator.Binding) {
	planned := make([]plannedFile, 0, len(bindings))
	for i, b := range bindings {
		dest := s.relative(b.Destination)
		planned = append(planned, plannedFile{Destination: dest, Template: b.Template, Vars: b.Vars})
		ui.Step(i+1, len(bindings), "%s", dest)
	}
	ui.Result(planned, "Dry run: %d files would be written for %s", len(bindings), normalized)
}

// recordRun stores a committed run in the journal. Files are already on disk,
// so journal failures are reported but do not fail the command.
func recordRun(ctx context.Context, s *session, entry journal.Entry) {
	store, err := journal.Open(ctx, journal.Options{
		Driver: s.config.Journal.Driver,
		DSN:    s.config.Journal.DSN,
		Logger: s.logger,
	})
	if err != nil {
		ui.Warning("Journal unavailable: %v", err)
		return
	}
	defer store.Close()

	recorded, err := store.Record(ctx, entry)
	if err != nil {
		ui.Warning("Failed to record run: %v", err)
		return
	}
	s.logger.Debug("run journaled", log.Str("id", recorded.ID))
}
