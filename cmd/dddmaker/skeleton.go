package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"go.eggybyte.com/dddmaker/internal/templates"
	"go.eggybyte.com/dddmaker/internal/ui"
)

var skeletonForce bool

// skeletonCmd represents the skeleton command group.
var skeletonCmd = &cobra.Command{
	Use:   "skeleton",
	Short: "Inspect and export module templates",
}

var skeletonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates and where each one is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runSkeletonList,
}

var skeletonExportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Copy the built-in templates to a directory for customization",
	Long: `Copy the built-in templates to a directory. Point skeleton_dir at that
directory and edited templates take precedence over the built-in ones.

The directory defaults to skeleton_dir, or .dddmaker/skeleton when unset.

Example:
  dddmaker skeleton export
  dddmaker skeleton export templates/ddd --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSkeletonExport,
}

func init() {
	skeletonExportCmd.Flags().BoolVar(&skeletonForce, "force", false, "Overwrite templates already present")
	skeletonCmd.AddCommand(skeletonListCmd, skeletonExportCmd)
	rootCmd.AddCommand(skeletonCmd)
}

// templateInfo is the JSON shape of a listed template.
type templateInfo struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

func runSkeletonList(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	loader := s.loader()
	ids, err := loader.ListTemplates()
	if err != nil {
		return err
	}

	infos := make([]templateInfo, 0, len(ids))
	for _, id := range ids {
		source, err := loader.Source(id)
		if err != nil {
			return err
		}
		infos = append(infos, templateInfo{ID: id, Source: source})
		if !ui.IsJSONOutput() {
			ui.Info("%-9s %s", source, id)
		}
	}
	ui.Result(infos, "%d templates", len(infos))
	return nil
}

func runSkeletonExport(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}

	target := filepath.Join(s.projectDir, ".dddmaker", "skeleton")
	if s.config.SkeletonDir != "" {
		target = s.config.SkeletonDir
	}
	if len(args) > 0 {
		target = s.inProject(args[0])
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(s.fs.GetAbsolutePath("."), absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("export directory %s must be inside the project", target)
	}

	// Built-in templates only, so an existing override never copies onto itself.
	builtin := templates.NewLoader()
	ids, err := builtin.ListTemplates()
	if err != nil {
		return err
	}

	written, skipped := 0, 0
	for _, id := range ids {
		content, err := builtin.LoadTemplate(id)
		if err != nil {
			return err
		}
		dest := filepath.Join(rel, filepath.FromSlash(id))
		if skeletonForce {
			err = s.fs.WriteFile(dest, content, 0o644)
		} else {
			var created bool
			created, err = s.fs.WriteFileIfNotExists(dest, content, 0o644)
			if err == nil && !created {
				skipped++
				continue
			}
		}
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", id, err)
		}
		written++
	}

	if skipped > 0 {
		ui.Warning("%d templates already present, use --force to overwrite", skipped)
	}
	ui.Result(map[string]any{"dir": target, "written": written}, "Exported %d templates to %s", written, target)
	if s.config.SkeletonDir == "" {
		ui.Info("Set skeleton_dir: %s in %s to use them", filepath.ToSlash(rel), s.configFile)
	}
	return nil
}
