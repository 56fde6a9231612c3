package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtg01100/fplaunchwrapper/internal/generator"
	"github.com/dtg01100/fplaunchwrapper/internal/monitor"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

var monitorInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the installed set and regenerate wrappers on change",
	Long: `Polls the platform on an interval and runs a full reconciliation
whenever the installed application set changes. This is the foreground
alternative to the systemd path unit; stop it with Ctrl-C.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := getStore()
		if err != nil {
			return err
		}
		binDir, err := resolveBinDir(nil)
		if err != nil {
			return err
		}

		regenerate := func(ctx context.Context, installed []string) (generator.Summary, error) {
			gen := generator.New(st, system.DefaultFS(), binDir, emitMode)
			return gen.GenerateAll(ctx, installed)
		}

		m := monitor.New(monitorInterval, getPlatform(), system.DefaultExecutor(), regenerate,
			monitor.WithFailureNotification(true))

		logInfo("watching installed applications every %s (Ctrl-C to stop)", monitorInterval)
		err = m.Run(cmd.Context())
		if err == context.Canceled {
			return nil
		}
		return err
	},
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 5*time.Minute, "Poll interval")
	rootCmd.AddCommand(monitorCmd)
}
