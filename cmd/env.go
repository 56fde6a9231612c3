package cmd

import (
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage per-wrapper environment overlays",
	Long: `The env overlay is sourced by the wrapper before anything else, so its
variables apply to the application and to the wrapper's own interactivity
detection.`,
}

var envSetCmd = &cobra.Command{
	Use:   "set <name> <key> <value>",
	Short: "Set one environment variable for a wrapper",
	Args:  exactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.SetEnv(args[0], args[1], args[2]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("%s=%s recorded for %s", args[1], args[2], args[0])
		}
		return nil
	},
}

var envUnsetCmd = &cobra.Command{
	Use:   "unset <name> <key>",
	Short: "Remove one environment variable from a wrapper",
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.UnsetEnv(args[0], args[1]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("%s removed for %s", args[1], args[0])
		}
		return nil
	},
}

func init() {
	envCmd.AddCommand(envSetCmd)
	envCmd.AddCommand(envUnsetCmd)
	rootCmd.AddCommand(envCmd)
}
