// Package cleanup removes everything this tool has ever installed: the
// generated wrappers, the per-wrapper state, the scheduler hooks and the
// shell integration files. Scan and execute are separate phases so the
// user can review before anything is deleted.
package cleanup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/lockfile"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
	"github.com/dtg01100/fplaunchwrapper/internal/scheduler"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// Item is one path targeted for removal.
type Item struct {
	Path string
	Desc string
}

// Report is the scan result, bucketed the way the confirmation prompt
// presents it.
type Report struct {
	Wrappers    []Item
	Preferences []Item
	EnvOverlays []Item
	HookScripts []Item
	StateFiles  []Item // alias table, blocklist, bin-dir pointer
	Units       []Item
	Completions []Item
	ManPages    []Item
	CronEntry   bool
	ConfigDir   string // removed last, only if empty after the purge
}

// Empty reports whether the scan found nothing to remove.
func (r Report) Empty() bool {
	return len(r.Wrappers) == 0 && len(r.Preferences) == 0 && len(r.EnvOverlays) == 0 &&
		len(r.HookScripts) == 0 && len(r.StateFiles) == 0 && len(r.Units) == 0 &&
		len(r.Completions) == 0 && len(r.ManPages) == 0 && !r.CronEntry
}

// Count returns the number of individual removals.
func (r Report) Count() int {
	n := len(r.Wrappers) + len(r.Preferences) + len(r.EnvOverlays) +
		len(r.HookScripts) + len(r.StateFiles) + len(r.Units) +
		len(r.Completions) + len(r.ManPages)
	if r.CronEntry {
		n++
	}
	return n
}

// Engine drives the two-phase cleanup.
type Engine struct {
	st    *store.Store
	fs    system.FileSystem
	sched *scheduler.Scheduler

	// Input and Interactive are injection points for tests; the defaults
	// read stdin and detect a terminal.
	Input       io.Reader
	Interactive func() bool
}

// New creates an Engine. sched carries the generator command used to
// recognize the crontab entry.
func New(st *store.Store, fs system.FileSystem, sched *scheduler.Scheduler) *Engine {
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Engine{
		st:    st,
		fs:    fs,
		sched: sched,
		Input: os.Stdin,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// dataHome returns $XDG_DATA_HOME or its default.
func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".local/share"
	}
	return filepath.Join(home, ".local", "share")
}

// completionPaths lists the shell completion files the installer may have
// placed.
func completionPaths() []string {
	data := dataHome()
	cfg := os.Getenv("XDG_CONFIG_HOME")
	if cfg == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg = filepath.Join(home, ".config")
		}
	}
	return []string{
		filepath.Join(data, "bash-completion", "completions", naming.ToolName),
		filepath.Join(data, "zsh", "site-functions", "_"+naming.ToolName),
		filepath.Join(cfg, "fish", "completions", naming.ToolName+".fish"),
	}
}

func manPagePaths() []string {
	return []string{
		filepath.Join(dataHome(), "man", "man1", naming.ToolName+".1"),
	}
}

// Scan populates the removal report without touching anything.
func (e *Engine) Scan(ctx context.Context) (Report, error) {
	var r Report

	binDir, err := e.st.BinDir()
	if err != nil {
		return r, err
	}
	if binDir != "" {
		entries, err := e.fs.ReadDir(binDir)
		if err != nil && !os.IsNotExist(err) {
			return r, errors.IOFailed("read bin directory", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(binDir, entry.Name())
			if ours, id := naming.IsOurWrapper(e.fs, path); ours {
				r.Wrappers = append(r.Wrappers, Item{Path: path, Desc: "wrapper for " + id})
			}
		}
		sort.Slice(r.Wrappers, func(i, j int) bool { return r.Wrappers[i].Path < r.Wrappers[j].Path })
	}

	names, err := e.st.Names()
	if err != nil {
		return r, err
	}
	for _, name := range names {
		if e.fs.Exists(e.st.PrefPath(name)) {
			r.Preferences = append(r.Preferences, Item{Path: e.st.PrefPath(name), Desc: "preference for " + name})
		}
		if e.fs.Exists(e.st.EnvPath(name)) {
			r.EnvOverlays = append(r.EnvOverlays, Item{Path: e.st.EnvPath(name), Desc: "env overlay for " + name})
		}
		if dir, err := e.st.ScriptsDir(name); err == nil && e.fs.Exists(dir) {
			r.HookScripts = append(r.HookScripts, Item{Path: dir, Desc: "hook scripts for " + name})
		}
	}

	for desc, path := range e.st.SharedFilePaths() {
		if e.fs.Exists(path) {
			r.StateFiles = append(r.StateFiles, Item{Path: path, Desc: desc})
		}
	}
	sort.Slice(r.StateFiles, func(i, j int) bool { return r.StateFiles[i].Path < r.StateFiles[j].Path })

	unitDir := scheduler.UnitDir()
	for _, unit := range scheduler.UnitNames() {
		path := filepath.Join(unitDir, unit)
		if e.fs.Exists(path) {
			r.Units = append(r.Units, Item{Path: path, Desc: "systemd unit"})
		}
	}

	for _, path := range completionPaths() {
		if e.fs.Exists(path) {
			r.Completions = append(r.Completions, Item{Path: path, Desc: "shell completion"})
		}
	}
	for _, path := range manPagePaths() {
		if e.fs.Exists(path) {
			r.ManPages = append(r.ManPages, Item{Path: path, Desc: "man page"})
		}
	}

	if e.sched != nil {
		if has, err := e.sched.HasCrontabEntry(ctx); err == nil {
			r.CronEntry = has
		}
	}

	r.ConfigDir = e.st.Dir()
	return r, nil
}

// Print writes the report in the form the confirmation prompt shows.
func (r Report) Print() {
	show := func(label string, items []Item) {
		if len(items) == 0 {
			return
		}
		logging.UserInfo("%s:", label)
		for _, item := range items {
			logging.UserInfo("  %s (%s)", item.Path, item.Desc)
		}
	}
	show("Wrappers", r.Wrappers)
	show("Preferences", r.Preferences)
	show("Env overlays", r.EnvOverlays)
	show("Hook scripts", r.HookScripts)
	show("State files", r.StateFiles)
	show("Systemd units", r.Units)
	show("Shell completions", r.Completions)
	show("Man pages", r.ManPages)
	if r.CronEntry {
		logging.UserInfo("Crontab: generator entry")
	}
}

func (e *Engine) confirm() bool {
	fmt.Fprintf(os.Stderr, "Remove all of the above? [y/N] ")
	scanner := bufio.NewScanner(e.Input)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// Execute performs the removals from a prior Scan. With dryRun it only
// reports. Confirmation is requested when the session is interactive and
// assumeYes is not set. Per-item failures log and continue; the return is
// an error iff any targeted item could not be removed.
func (e *Engine) Execute(ctx context.Context, r Report, dryRun, assumeYes bool) error {
	if r.Empty() {
		logging.UserInfo("nothing to clean up")
		return nil
	}

	r.Print()
	if dryRun {
		logging.UserInfo("dry run: %d items would be removed", r.Count())
		return nil
	}
	if !assumeYes && e.Interactive() && !e.confirm() {
		logging.UserInfo("aborted")
		return errors.Interrupted()
	}

	lock := lockfile.New(e.st.LockPath())
	if err := lock.Acquire(lockfile.DefaultWait); err != nil {
		if err == lockfile.ErrBusy {
			return errors.Busy(lock.Path())
		}
		return errors.IOFailed("acquire cleanup lock", err)
	}
	defer lock.Release()

	failed := 0
	removeFile := func(item Item) {
		if err := e.fs.Remove(item.Path); err != nil && !os.IsNotExist(err) {
			logging.Warn("removal failed", "path", item.Path, "error", err)
			failed++
		}
	}

	for _, item := range r.Wrappers {
		removeFile(item)
	}
	for _, item := range r.Preferences {
		removeFile(item)
	}
	for _, item := range r.EnvOverlays {
		removeFile(item)
	}
	for _, item := range r.HookScripts {
		if err := e.fs.RemoveAll(item.Path); err != nil {
			logging.Warn("removal failed", "path", item.Path, "error", err)
			failed++
		}
	}
	for _, item := range r.StateFiles {
		removeFile(item)
	}
	for _, item := range r.Completions {
		removeFile(item)
	}
	for _, item := range r.ManPages {
		removeFile(item)
	}

	if len(r.Units) > 0 && e.sched != nil {
		if err := e.sched.RemoveUnits(ctx); err != nil {
			logging.Warn("removing systemd units failed", "error", err)
			failed++
		}
	}
	if r.CronEntry && e.sched != nil {
		if err := e.sched.RemoveCrontab(ctx); err != nil {
			logging.Warn("removing crontab entry failed", "error", err)
			failed++
		}
	}

	// The scripts/ parent and the config dir itself go only when nothing
	// foreign remains inside them. The lock file is dropped first so an
	// otherwise-clean config dir can actually empty out.
	lock.Release()
	if err := e.fs.Remove(e.st.LockPath()); err != nil && !os.IsNotExist(err) {
		logging.Debug("lock file not removed", "error", err)
	}
	e.removeIfEmpty(filepath.Join(r.ConfigDir, "scripts"))
	e.removeIfEmpty(r.ConfigDir)

	if failed > 0 {
		return errors.New(errors.KindIO, fmt.Sprintf("%d items could not be removed", failed))
	}
	logging.UserInfo("removed %d items", r.Count())
	return nil
}

func (e *Engine) removeIfEmpty(dir string) {
	entries, err := e.fs.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := e.fs.Remove(dir); err != nil && !os.IsNotExist(err) {
		logging.Debug("config dir not removed", "dir", dir, "error", err)
	}
}
