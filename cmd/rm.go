package cmd

import (
	"github.com/spf13/cobra"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a wrapper and all of its recorded state",
	Long: `Deletes the wrapper file, its preference, env overlay, hook scripts and
any alias targeting it. A file not generated by this tool is only removed
with --force.`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.RemoveWrapper(args[0], rmForce); err != nil {
			return err
		}
		if !emitMode {
			logInfo("%s removed", args[0])
		}
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Remove even if the file was not generated by this tool")
	rootCmd.AddCommand(rmCmd)
}
