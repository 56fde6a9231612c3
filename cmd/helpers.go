package cmd

import (
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/manager"
	"github.com/dtg01100/fplaunchwrapper/internal/platform"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// getStore opens the state store, honoring --config-dir.
func getStore() (*store.Store, error) {
	dir := configDir
	if dir == "" {
		dir = store.DefaultConfigDir()
	}
	st := store.New(dir, system.DefaultFS())
	if err := st.Prepare(); err != nil {
		return nil, err
	}
	return st, nil
}

func getManager() (*manager.Manager, error) {
	st, err := getStore()
	if err != nil {
		return nil, err
	}
	return manager.New(st, system.DefaultFS(), emitMode), nil
}

func getPlatform() *platform.Flatpak {
	return platform.New(system.DefaultExecutor())
}

// generatorCommand is the invocation installed into systemd units and the
// crontab entry.
func generatorCommand(binDir string) string {
	exe, err := os.Executable()
	if err != nil {
		exe = "fplaunchwrapper"
	}
	return shellquote.Join(exe, "generate", binDir)
}

// exactArgs is cobra.ExactArgs with the usage-error exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.InvalidInput(fmt.Sprintf("%s requires exactly %d argument(s), got %d", cmd.Name(), n, len(args)))
		}
		return nil
	}
}

// rangeArgs is cobra.RangeArgs with the usage-error exit code.
func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || len(args) > max {
			return errors.InvalidInput(fmt.Sprintf("%s accepts between %d and %d argument(s), got %d", cmd.Name(), min, max, len(args)))
		}
		return nil
	}
}
