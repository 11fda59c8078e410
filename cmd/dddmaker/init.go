package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.eggybyte.com/dddmaker/internal/configschema"
	"go.eggybyte.com/dddmaker/internal/modulepath"
	"go.eggybyte.com/dddmaker/internal/projectfs"
	"go.eggybyte.com/dddmaker/internal/ui"
)

var initForce bool

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create dddmaker.yaml in the project directory",
	Long: `Create a dddmaker.yaml holding the default configuration.

The root namespace is asked for interactively.

Example:
  dddmaker init --project-dir ./shop`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing dddmaker.yaml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	config := configschema.Default()

	ns := ui.Ask("Root namespace", config.RootNamespace)
	normalized, err := modulepath.NormalizeRootNamespace(ns)
	if err != nil {
		return err
	}
	config.RootNamespace = normalized

	data, err := config.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	fs := projectfs.NewProjectFS(projectDir)
	if initForce {
		err = fs.WriteFile(configschema.DefaultFileName, string(data), 0o644)
	} else {
		var created bool
		created, err = fs.WriteFileIfNotExists(configschema.DefaultFileName, string(data), 0o644)
		if err == nil && !created {
			ui.Warning("%s already exists, use --force to overwrite", fs.GetAbsolutePath(configschema.DefaultFileName))
			return nil
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", configschema.DefaultFileName, err)
	}

	ui.Success("Created %s", fs.GetAbsolutePath(configschema.DefaultFileName))
	return nil
}
