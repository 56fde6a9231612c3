package cmd

import (
	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Manage per-wrapper launch hooks",
	Long: `Hooks are user-provided executables copied into the config directory.
The pre-launch hook runs before the application; the post-run hook runs
after it exits with FPWRAPPER_EXIT_CODE, FPWRAPPER_SOURCE,
FPWRAPPER_WRAPPER_NAME and FPWRAPPER_APP_ID in its environment.`,
}

var scriptSetPreCmd = &cobra.Command{
	Use:   "set-pre <name> <file>",
	Short: "Install a pre-launch hook",
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.SetPreScript(args[0], args[1]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("pre-launch hook installed for %s", args[0])
		}
		return nil
	},
}

var scriptSetPostCmd = &cobra.Command{
	Use:   "set-post <name> <file>",
	Short: "Install a post-run hook",
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.SetPostScript(args[0], args[1]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("post-run hook installed for %s", args[0])
		}
		return nil
	},
}

var scriptRemovePreCmd = &cobra.Command{
	Use:   "remove-pre <name>",
	Short: "Remove the pre-launch hook",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		return m.RemovePreScript(args[0])
	},
}

var scriptRemovePostCmd = &cobra.Command{
	Use:   "remove-post <name>",
	Short: "Remove the post-run hook",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		return m.RemovePostScript(args[0])
	},
}

func init() {
	scriptCmd.AddCommand(scriptSetPreCmd)
	scriptCmd.AddCommand(scriptSetPostCmd)
	scriptCmd.AddCommand(scriptRemovePreCmd)
	scriptCmd.AddCommand(scriptRemovePostCmd)
	rootCmd.AddCommand(scriptCmd)
}
