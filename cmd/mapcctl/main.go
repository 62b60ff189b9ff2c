// mapcctl connects a team of agents to a simulation server and runs each
// one against the reference engine.
//
// Usage:
//
//	mapcctl run --config team.toml [--host H] [--port P] [--name N --password P] [--metrics-addr A]
//	mapcctl config init [path] [--force]
//	mapcctl config check --config team.toml
//	mapcctl version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmuck/mapcctl/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mapcctl",
	Short: "Bridge simulation server agents to a local reasoning engine",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logging.ConfigureRuntime()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mapcctl: %v\n", err)
		os.Exit(1)
	}
}
