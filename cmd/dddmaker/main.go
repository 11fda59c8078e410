// Package main provides the dddmaker CLI tool entry point.
//
// Overview:
//   - Responsibility: CLI command parsing and execution
//   - Key Types: Cobra command structure
//   - Concurrency Model: Single-threaded CLI execution
//   - Error Semantics: Exit codes and user-friendly error messages
//   - Performance Notes: Fast startup, minimal memory footprint
//
// Usage:
//
//	dddmaker [command] [flags]
package main

import (
	"os"

	"github.com/spf13/cobra"

	"go.eggybyte.com/dddmaker/internal/ui"
)

var (
	configPath     string
	projectDir     string
	verbose        bool
	nonInteractive bool
	jsonOutput     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dddmaker",
	Short: "DDD module scaffolding tool",
	Long: `dddmaker generates Domain-Driven-Design module skeletons for PHP projects.

This tool provides commands for:
- Basic module layout (Application / Domain / Infrastructure)
- Full modules with entity, repositories and optional specifications
- Template export and override
- A journal of generated modules

All commands read dddmaker.yaml from the project directory when present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
		ui.SetNonInteractive(nonInteractive)
		ui.SetJSONOutput(jsonOutput)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("Command failed: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default <project-dir>/dddmaker.yaml)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", ".", "Project root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}

func main() {
	Execute()
}
