// Package platform is the boundary to the flatpak CLI. It is the only
// place that knows flatpak's argument surface; everything else passes
// application ids through it.
package platform

import (
	"context"
	"sort"
	"strings"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// Binary is the flatpak CLI name looked up on the search path.
const Binary = "flatpak"

// headerSentinels mark rows flatpak prints that are not application ids.
var headerSentinels = []string{"Application ID", "Ref", "Name"}

// Flatpak invokes the flatpak CLI through the subprocess boundary.
type Flatpak struct {
	exec system.CommandExecutor
}

// New creates a Flatpak boundary. A nil executor uses the process default.
func New(exec system.CommandExecutor) *Flatpak {
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	return &Flatpak{exec: exec}
}

// Available reports whether the flatpak binary can be located.
func (f *Flatpak) Available() bool {
	_, err := f.exec.LookPath(Binary)
	return err == nil
}

// ListInstalled returns the sorted union of application ids installed in
// the per-user and system scopes. It fails with PlatformUnavailable when
// the binary is missing or both scope listings fail.
func (f *Flatpak) ListInstalled(ctx context.Context) ([]string, error) {
	if _, err := f.exec.LookPath(Binary); err != nil {
		return nil, errors.PlatformUnavailable(err)
	}

	scopes := []string{"--user", "--system"}
	seen := make(map[string]bool)
	failures := 0
	var lastErr error

	for _, scope := range scopes {
		res, err := f.exec.Run(ctx, Binary, "list", scope, "--app", "--columns=application")
		if err != nil || res.ExitCode != 0 {
			logging.Debug("flatpak list failed", "scope", scope, "exit", res.ExitCode, "error", err)
			failures++
			lastErr = err
			continue
		}
		for _, id := range parseListOutput(res.Stdout) {
			seen[id] = true
		}
	}

	if failures == len(scopes) {
		return nil, errors.PlatformUnavailable(lastErr)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// parseListOutput extracts application ids from flatpak list output,
// accepting rows whose leading token has the id shape and dropping header
// rows.
func parseListOutput(out []byte) []string {
	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isHeaderRow(line) {
			continue
		}
		token := line
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			token = line[:i]
		}
		if naming.IsValidAppID(token) {
			ids = append(ids, token)
		}
	}
	return ids
}

func isHeaderRow(line string) bool {
	for _, sentinel := range headerSentinels {
		if strings.HasPrefix(line, sentinel) {
			return true
		}
	}
	return false
}

// Info runs `flatpak info <id>` and returns its output and exit code.
func (f *Flatpak) Info(ctx context.Context, id string) (system.ExecResult, error) {
	res, err := f.exec.Run(ctx, Binary, "info", id)
	if err != nil {
		return res, errors.PlatformUnavailable(err)
	}
	return res, nil
}

// OverrideFilesystemHost grants the application full host filesystem
// access in the per-user override.
func (f *Flatpak) OverrideFilesystemHost(ctx context.Context, id string) error {
	return f.runChecked(ctx, "override", "--user", id, "--filesystem=host")
}

// OverrideReset clears all overrides for the application.
func (f *Flatpak) OverrideReset(ctx context.Context, id string) error {
	return f.runChecked(ctx, "override", "--reset", id)
}

func (f *Flatpak) runChecked(ctx context.Context, args ...string) error {
	res, err := f.exec.Run(ctx, Binary, args...)
	if err != nil {
		return errors.PlatformUnavailable(err)
	}
	if res.ExitCode != 0 {
		return errors.New(errors.KindIO, strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}

// RunArgs returns the argv (after the binary) for a sandboxed launch of
// id with extra args appended.
func RunArgs(id string, extra ...string) []string {
	args := []string{"run", id}
	return append(args, extra...)
}

// ExportDirs returns the directories flatpak exports desktop entries
// into; the path-watch unit triggers on changes beneath them.
func ExportDirs(home, dataHome string) []string {
	if dataHome == "" {
		dataHome = home + "/.local/share"
	}
	return []string{
		dataHome + "/flatpak/exports",
		"/var/lib/flatpak/exports",
	}
}
