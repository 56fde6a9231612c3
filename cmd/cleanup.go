package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dtg01100/fplaunchwrapper/internal/cleanup"
	"github.com/dtg01100/fplaunchwrapper/internal/scheduler"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

var (
	cleanupDryRun bool
	cleanupYes    bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove everything this tool has installed",
	Long: `Scans for generated wrappers, recorded state, systemd units, the crontab
entry, shell completions and man pages, then removes them after
confirmation. The config directory itself is removed when nothing foreign
remains inside it.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := getStore()
		if err != nil {
			return err
		}
		binDir, err := st.BinDir()
		if err != nil {
			return err
		}
		sched := scheduler.New(system.DefaultFS(), system.DefaultExecutor(), generatorCommand(binDir), emitMode)

		engine := cleanup.New(st, system.DefaultFS(), sched)
		report, err := engine.Scan(ctx)
		if err != nil {
			return err
		}
		return engine.Execute(ctx, report, cleanupDryRun || emitMode, cleanupYes)
	},
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Report what would be removed without removing it")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(cleanupCmd)
}
