package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [show]",
	Short: "Show the tool configuration",
	Args:  rangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return err
		}

		binDir, err := st.BinDir()
		if err != nil {
			return err
		}
		if binDir == "" {
			binDir = "(not recorded; run generate)"
		}
		names, err := st.Names()
		if err != nil {
			return err
		}
		aliases, err := st.Aliases()
		if err != nil {
			return err
		}
		blocklist, err := st.Blocklist()
		if err != nil {
			return err
		}

		fmt.Printf("Config dir:  %s\n", st.Dir())
		fmt.Printf("Bin dir:     %s\n", binDir)
		fmt.Printf("Tracked:     %d wrappers with state\n", len(names))
		fmt.Printf("Aliases:     %d\n", len(aliases))
		fmt.Printf("Blocklist:   %d\n", len(blocklist))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
