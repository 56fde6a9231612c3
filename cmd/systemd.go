package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/platform"
	"github.com/dtg01100/fplaunchwrapper/internal/scheduler"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// getScheduler builds a Scheduler around the recorded bin directory.
func getScheduler() (*scheduler.Scheduler, error) {
	st, err := getStore()
	if err != nil {
		return nil, err
	}
	binDir, err := st.BinDir()
	if err != nil {
		return nil, err
	}
	if binDir == "" {
		return nil, errors.InvalidInput("no bin directory recorded; run generate first")
	}
	return scheduler.New(system.DefaultFS(), system.DefaultExecutor(), generatorCommand(binDir), emitMode), nil
}

func watchDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	return platform.ExportDirs(home, dataHome)
}

var systemdSetupCmd = &cobra.Command{
	Use:   "systemd-setup",
	Short: "Install automatic regeneration triggers",
	Long: `Installs a oneshot service, a path unit watching the flatpak export
directories and a daily timer into the systemd user scope. When the user
session is not reachable a crontab entry running every six hours is
installed instead; when neither scheduler exists the manual invocation is
printed.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		sched, err := getScheduler()
		if err != nil {
			return err
		}
		return sched.Setup(cmd.Context(), watchDirs())
	},
}

var systemdCmd = &cobra.Command{
	Use:   "systemd <enable|disable|status|test>",
	Short: "Manage the systemd regeneration units",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sched, err := getScheduler()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		switch args[0] {
		case "enable":
			return sched.InstallUnits(ctx, watchDirs())
		case "disable":
			return sched.RemoveUnits(ctx)
		case "status":
			return sched.Status(ctx)
		case "test":
			return sched.Test(ctx)
		default:
			return errors.InvalidInput("systemd verb must be enable, disable, status or test")
		}
	},
}

func init() {
	rootCmd.AddCommand(systemdSetupCmd)
	rootCmd.AddCommand(systemdCmd)
}
