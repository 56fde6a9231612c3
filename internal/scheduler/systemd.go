// Package scheduler installs the automatic-regeneration triggers: user
// scope systemd units when the supervisor is available, with a crontab
// fallback when it is not.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

const (
	SystemctlBinary = "systemctl"

	ServiceUnit = "fplaunchwrapper-generate.service"
	PathUnit    = "fplaunchwrapper-generate.path"
	TimerUnit   = "fplaunchwrapper-generate.timer"
)

// Scheduler installs and removes regeneration triggers. command is the
// full generator invocation, already shell-quoted by the caller.
type Scheduler struct {
	fs      system.FileSystem
	exec    system.CommandExecutor
	command string
	emit    bool
}

// New creates a Scheduler.
func New(fs system.FileSystem, exec system.CommandExecutor, command string, emit bool) *Scheduler {
	if fs == nil {
		fs = system.DefaultFS()
	}
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	return &Scheduler{fs: fs, exec: exec, command: command, emit: emit}
}

// UnitDir returns the user-scope systemd unit directory.
func UnitDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "systemd", "user")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "systemd", "user")
	}
	return filepath.Join(home, ".config", "systemd", "user")
}

// UnitNames lists the three unit files this tool owns.
func UnitNames() []string {
	return []string{ServiceUnit, PathUnit, TimerUnit}
}

func (s *Scheduler) serviceText() string {
	return fmt.Sprintf(`[Unit]
Description=Regenerate flatpak launch wrappers

[Service]
Type=oneshot
ExecStart=%s
`, s.command)
}

func (s *Scheduler) pathText(watchDirs []string) string {
	var b strings.Builder
	b.WriteString("[Unit]\nDescription=Watch flatpak exports for launch wrapper regeneration\n\n[Path]\n")
	for _, dir := range watchDirs {
		fmt.Fprintf(&b, "PathChanged=%s\n", dir)
	}
	fmt.Fprintf(&b, "Unit=%s\n\n[Install]\nWantedBy=default.target\n", ServiceUnit)
	return b.String()
}

// timerText deliberately has no service section; the timer references the
// oneshot service by name.
func (s *Scheduler) timerText() string {
	return fmt.Sprintf(`[Unit]
Description=Daily flatpak launch wrapper regeneration

[Timer]
OnCalendar=daily
Persistent=true
Unit=%s

[Install]
WantedBy=timers.target
`, ServiceUnit)
}

// SupervisorAvailable reports whether the user-scope supervisor is
// reachable, not merely installed.
func (s *Scheduler) SupervisorAvailable(ctx context.Context) bool {
	if _, err := s.exec.LookPath(SystemctlBinary); err != nil {
		return false
	}
	res, err := s.exec.Run(ctx, SystemctlBinary, "--user", "is-system-running")
	if err != nil {
		return false
	}
	// is-system-running exits non-zero for degraded systems that are
	// still perfectly able to manage units.
	state := strings.TrimSpace(string(res.Stdout))
	return state != "" && state != "offline"
}

// InstallUnits writes the three unit files and enables the path and timer
// units. watchDirs are the platform export directories the path unit
// observes.
func (s *Scheduler) InstallUnits(ctx context.Context, watchDirs []string) error {
	unitDir := UnitDir()
	units := map[string]string{
		ServiceUnit: s.serviceText(),
		PathUnit:    s.pathText(watchDirs),
		TimerUnit:   s.timerText(),
	}

	if s.emit {
		for name := range units {
			logging.UserInfo("[emit] would write %s", filepath.Join(unitDir, name))
		}
		logging.UserInfo("[emit] would run systemctl --user daemon-reload && enable --now %s %s", PathUnit, TimerUnit)
		return nil
	}

	if err := s.fs.MkdirAll(unitDir, 0755); err != nil {
		return errors.IOFailed("create unit directory", err)
	}
	for name, text := range units {
		if err := s.fs.WriteFile(filepath.Join(unitDir, name), []byte(text), 0644); err != nil {
			return errors.IOFailed("write unit "+name, err)
		}
	}

	steps := [][]string{
		{"--user", "daemon-reload"},
		{"--user", "enable", "--now", PathUnit},
		{"--user", "enable", "--now", TimerUnit},
	}
	for _, args := range steps {
		res, err := s.exec.Run(ctx, SystemctlBinary, args...)
		if err != nil {
			return errors.IOFailed("run systemctl", err)
		}
		if res.ExitCode != 0 {
			return errors.New(errors.KindIO,
				fmt.Sprintf("systemctl %s failed: %s", strings.Join(args, " "), strings.TrimSpace(string(res.Stderr))))
		}
	}
	logging.UserInfo("systemd units installed and enabled")
	return nil
}

// RemoveUnits disables the units and deletes the unit files. Idempotent.
func (s *Scheduler) RemoveUnits(ctx context.Context) error {
	if s.emit {
		logging.UserInfo("[emit] would disable and remove %s", strings.Join(UnitNames(), ", "))
		return nil
	}

	if _, err := s.exec.LookPath(SystemctlBinary); err == nil {
		for _, unit := range []string{PathUnit, TimerUnit} {
			if res, err := s.exec.Run(ctx, SystemctlBinary, "--user", "disable", "--now", unit); err != nil || res.ExitCode != 0 {
				logging.Warn("disabling unit failed", "unit", unit)
			}
		}
		if _, err := s.exec.Run(ctx, SystemctlBinary, "--user", "daemon-reload"); err != nil {
			logging.Warn("daemon-reload failed", "error", err)
		}
	}

	unitDir := UnitDir()
	for _, unit := range UnitNames() {
		path := filepath.Join(unitDir, unit)
		if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.IOFailed("remove unit "+unit, err)
		}
	}
	return nil
}

// Status prints the supervisor's view of the path and timer units.
func (s *Scheduler) Status(ctx context.Context) error {
	if _, err := s.exec.LookPath(SystemctlBinary); err != nil {
		return errors.New(errors.KindPlatformUnavailable, "systemctl is not available")
	}
	for _, unit := range []string{ServiceUnit, PathUnit, TimerUnit} {
		res, err := s.exec.Run(ctx, SystemctlBinary, "--user", "is-enabled", unit)
		if err != nil {
			return errors.IOFailed("run systemctl", err)
		}
		state := strings.TrimSpace(string(res.Stdout))
		if state == "" {
			state = "not-found"
		}
		logging.UserInfo("%-36s %s", unit, state)
	}
	return nil
}

// Test triggers one run of the oneshot service through the supervisor.
func (s *Scheduler) Test(ctx context.Context) error {
	if _, err := s.exec.LookPath(SystemctlBinary); err != nil {
		return errors.New(errors.KindPlatformUnavailable, "systemctl is not available")
	}
	if s.emit {
		logging.UserInfo("[emit] would run systemctl --user start %s", ServiceUnit)
		return nil
	}
	res, err := s.exec.Run(ctx, SystemctlBinary, "--user", "start", ServiceUnit)
	if err != nil {
		return errors.IOFailed("run systemctl", err)
	}
	if res.ExitCode != 0 {
		return errors.New(errors.KindIO,
			fmt.Sprintf("starting %s failed: %s", ServiceUnit, strings.TrimSpace(string(res.Stderr))))
	}
	logging.UserInfo("triggered %s", ServiceUnit)
	return nil
}

// Setup installs the preferred trigger path, falling back to a crontab
// entry when the supervisor is unreachable. When neither scheduler exists
// the manual invocation is printed and an error returned.
func (s *Scheduler) Setup(ctx context.Context, watchDirs []string) error {
	if s.SupervisorAvailable(ctx) {
		return s.InstallUnits(ctx, watchDirs)
	}
	logging.UserWarning("systemd user session not reachable; falling back to crontab")

	if err := s.InstallCrontab(ctx); err == nil {
		return nil
	} else if errors.KindOf(err) != errors.KindPlatformUnavailable {
		return err
	}

	logging.UserError("neither systemd nor crontab is available")
	logging.UserInfo("run manually or from your own scheduler: %s", s.command)
	return errors.New(errors.KindPlatformUnavailable, "no scheduler available")
}
