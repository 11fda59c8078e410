package main

import (
	"github.com/spf13/cobra"

	"go.eggybyte.com/dddmaker/internal/ui"
	"go.eggybyte.com/dddmaker/internal/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show dddmaker version information",
	Long: `Display version information for the dddmaker CLI.

This command shows:
  • CLI version, git commit hash, and build timestamp
  • Go runtime version`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version.GetVersionString()
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
}

func runVersion(cmd *cobra.Command, args []string) {
	ui.Result(map[string]string{
		"version":    version.Version,
		"commit":     version.Commit,
		"build_time": version.BuildTime,
	}, "%s", version.GetFullVersionInfo())
}
