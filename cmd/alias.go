package cmd

import (
	"github.com/spf13/cobra"
)

var (
	aliasNoValidate bool
	aliasRemove     bool
)

var aliasCmd = &cobra.Command{
	Use:   "alias <alias> [target]",
	Short: "Create or remove a wrapper alias",
	Long: `Creates an alias for an existing wrapper. Management commands accept the
alias anywhere a wrapper name is expected; chains resolve up to 16 hops
and cycles are refused.

With --rm the alias is removed and the target argument is not needed.`,
	Args: rangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if aliasRemove {
			if err := m.RemoveAlias(args[0]); err != nil {
				return err
			}
			if !emitMode {
				logInfo("alias %s removed", args[0])
			}
			return nil
		}
		if err := exactArgs(2)(cmd, args); err != nil {
			return err
		}
		if err := m.CreateAlias(args[0], args[1], !aliasNoValidate); err != nil {
			return err
		}
		if !emitMode {
			logInfo("alias %s -> %s created", args[0], args[1])
		}
		return nil
	},
}

func init() {
	aliasCmd.Flags().BoolVar(&aliasNoValidate, "no-validate", false, "Do not require the target wrapper to exist")
	aliasCmd.Flags().BoolVar(&aliasRemove, "rm", false, "Remove the alias instead of creating one")
	rootCmd.AddCommand(aliasCmd)
}
