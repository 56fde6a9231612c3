package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtg01100/fplaunchwrapper/internal/logging"
)

var (
	verbose     bool
	jsonOutput  bool
	emitMode    bool
	emitVerbose bool
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "fplaunchwrapper",
	Short: "Launch wrapper manager for flatpak applications",
	Long: `fplaunchwrapper generates a small launch wrapper for every installed
flatpak application and keeps the set in sync as applications come and go.

Each wrapper:
  - Prefers a native system binary of the same name when one exists
  - Falls back to flatpak run, remembering the choice per application
  - Supports per-app environment overlays and pre/post launch hooks`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if emitVerbose {
			emitMode = true
			verbose = true
		}
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx so long-running verbs
// (monitor, generate) stop when the process receives SIGINT or SIGTERM.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVar(&emitMode, "emit", false, "Log intended changes without writing anything")
	rootCmd.PersistentFlags().BoolVar(&emitVerbose, "emit-verbose", false, "Emit mode with verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Override the config directory")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
