package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var setPrefCmd = &cobra.Command{
	Use:   "set-pref <name> <system|flatpak>",
	Short: "Record the launch preference for a wrapper",
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		if err := m.SetPreference(args[0], args[1]); err != nil {
			return err
		}
		if !emitMode {
			logInfo("preference for %s set to %s", args[0], args[1])
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated wrappers",
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
		if len(wrappers) == 0 {
			logInfo("no wrappers generated yet")
			return nil
		}
		for _, w := range wrappers {
			fmt.Printf("%-24s %-40s %s\n", w.Name, w.ID, w.Preference)
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show everything recorded about one wrapper",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		d, err := m.Info(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:       %s\n", d.Name)
		fmt.Printf("App ID:     %s\n", d.ID)
		fmt.Printf("Path:       %s\n", d.Path)
		fmt.Printf("Preference: %s\n", d.Preference)
		if len(d.Aliases) > 0 {
			fmt.Printf("Aliases:    %s\n", strings.Join(d.Aliases, ", "))
		}
		if len(d.Env) > 0 {
			fmt.Println("Environment:")
			for k, v := range d.Env {
				fmt.Printf("  %s=%s\n", k, v)
			}
		}
		fmt.Printf("Pre hook:   %v\n", d.PreHook)
		fmt.Printf("Post hook:  %v\n", d.PostHook)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search wrappers by name or application id",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getManager()
		if err != nil {
			return err
		}
		hits, err := m.Search(args[0])
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			logInfo("no wrapper matches %q", args[0])
			return nil
		}
		for _, w := range hits {
			fmt.Printf("%-24s %-40s %s\n", w.Name, w.ID, w.Preference)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setPrefCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(searchCmd)
}
