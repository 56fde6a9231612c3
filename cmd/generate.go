package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dtg01100/fplaunchwrapper/internal/generator"
	"github.com/dtg01100/fplaunchwrapper/internal/notify"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

var generateCmd = &cobra.Command{
	Use:   "generate [bin-dir]",
	Short: "Generate launch wrappers for all installed applications",
	Long: `Reconciles the bin directory against the installed flatpak set:
orphaned wrappers are removed (with their preferences, env overlays, hooks
and aliases), then a wrapper is generated for every installed application
that is not blocklisted.

The bin directory argument wins over the recorded pointer; the pointer is
rewritten to match. Without either, ~/.local/bin is used.`,
	Args: rangeArgs(0, 1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// resolveBinDir picks the target directory: CLI argument, then recorded
// pointer, then the conventional user bin dir.
func resolveBinDir(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	st, err := getStore()
	if err != nil {
		return "", err
	}
	if dir, err := st.BinDir(); err != nil {
		return "", err
	} else if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "bin"), nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	exec := system.DefaultExecutor()

	binDir, err := resolveBinDir(args)
	if err != nil {
		return err
	}

	installed, err := getPlatform().ListInstalled(ctx)
	if err != nil {
		notify.Send(ctx, exec, "Wrapper generation failed", err.Error())
		return err
	}

	st, err := getStore()
	if err != nil {
		return err
	}
	gen := generator.New(st, system.DefaultFS(), binDir, emitMode)

	sum, err := gen.GenerateAll(ctx, installed)
	if err != nil {
		notify.Send(ctx, exec, "Wrapper generation failed", err.Error())
		return err
	}

	logInfo("%d created, %d updated, %d removed, %d skipped in %s",
		sum.Created, sum.Updated, sum.Removed, sum.Skipped, gen.BinDir())
	if sum.Failed > 0 {
		logWarning("%d applications could not be generated", sum.Failed)
	}
	return nil
}
