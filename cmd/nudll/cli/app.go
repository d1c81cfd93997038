// Package cli holds the nudll root command and build information.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nudll/cmd/nudll/output"
)

var rootCmd = NewRootCommand()

// Console is the global console for CLI commands
var Console *output.Console

// NewRootCommand creates an unconfigured root command. Commands attach
// their flags and action to it.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nudll <package_id> [package_version]",
		Short: "Download a NuGet package's DLLs and those of its dependencies",
		Long: `nudll resolves a NuGet package against a v3 feed, downloads it and every
package it depends on, and copies their .dll files for one target framework
into a single folder.

package_version is a version or a NuGet version range. A bare version such
as 13.0.1 means "13.0.1 or higher"; use [13.0.1] to pin it. Without a
version the latest release is used.

Examples:
  nudll Newtonsoft.Json
  nudll Newtonsoft.Json "[13.0.1]"
  nudll Serilog "[2.0.0,3.0.0)" --framework netstandard2.0 --output ./libs`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	Console = output.DefaultConsole()
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
