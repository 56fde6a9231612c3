package cmd

import (
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export preferences, env overlays, aliases and blocklist",
	Long: `Writes the portable state to a TOML document. Hook scripts and the
bin-dir pointer are machine-local and stay out of the document.`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.Export(args[0]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("state exported to %s", args[0])
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace the managed state with an exported document",
	Long: `Restores a document written by export. Import overwrites the current
preferences, env overlays, aliases and blocklist; it does not merge. A
document that fails validation leaves the existing state untouched.`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.Import(args[0]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("state imported from %s", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
