package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dtg01100/fplaunchwrapper/internal/store"
	"github.com/dtg01100/fplaunchwrapper/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively pick a wrapper and act on it",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		wrappers, err := m.List()
		if err != nil {
			return err
		}

		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(tui.SimpleList(wrappers))
			return nil
		}

		result, err := tui.RunPicker(wrappers)
		if err != nil {
			return err
		}

		switch result.Action {
		case tui.ActionInfo:
			return infoCmd.RunE(cmd, []string{result.Wrapper.Name})
		case tui.ActionSetSystem:
			return m.SetPreference(result.Wrapper.Name, store.PrefSystem)
		case tui.ActionSetFlatpak:
			return m.SetPreference(result.Wrapper.Name, store.PrefFlatpak)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}
