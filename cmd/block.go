package cmd

import (
	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:   "block <app-id>",
	Short: "Blocklist an application so no wrapper is generated for it",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.Block(args[0]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("%s blocklisted", args[0])
		}
		return nil
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock <app-id>",
	Short: "Remove an application from the blocklist",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.Unblock(args[0]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("%s unblocked; run generate to recreate its wrapper", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
}
