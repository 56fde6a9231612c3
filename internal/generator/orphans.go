package generator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
)

// CleanupObsolete scans the bin directory for wrappers this tool generated
// whose embedded application id is no longer installed (blocklisted apps
// count as not installed) and removes them together with their preference,
// env overlay, hook scripts and any alias targeting them. Symlinks into
// the bin directory that point at a removed wrapper are removed too.
// Foreign files are never touched. Returns the number of removed wrappers.
func (g *Generator) CleanupObsolete(ctx context.Context, installed []string) (int, error) {
	entries, err := g.fs.ReadDir(g.binDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.IOFailed("read bin directory", err)
	}

	blocklist, err := g.st.Blocklist()
	if err != nil {
		return 0, err
	}
	blocked := make(map[string]bool, len(blocklist))
	for _, id := range blocklist {
		blocked[id] = true
	}

	live := make(map[string]bool, len(installed))
	for _, id := range installed {
		if !blocked[id] {
			live[id] = true
		}
	}

	// First pass: find our wrappers and decide which stay.
	removedNames := make(map[string]bool)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(g.binDir, entry.Name())
		ours, id := naming.IsOurWrapper(g.fs, path)
		if !ours {
			continue
		}
		if live[id] {
			continue
		}

		if g.emit {
			logging.UserInfo("[emit] would remove orphaned wrapper %s (%s)", entry.Name(), id)
			removedNames[entry.Name()] = true
			removed++
			continue
		}

		if err := g.fs.Remove(path); err != nil {
			logging.Warn("removing orphaned wrapper failed", "path", path, "error", err)
			continue
		}
		if err := g.st.RemoveWrapperState(entry.Name()); err != nil {
			logging.Warn("removing wrapper state failed", "name", entry.Name(), "error", err)
		}
		logging.Debug("removed orphaned wrapper", "name", entry.Name(), "id", id)
		removedNames[entry.Name()] = true
		removed++
	}

	// Second pass: symlinks within the bin directory whose target wrapper
	// was just removed.
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		path := filepath.Join(g.binDir, entry.Name())
		target, err := g.fs.Readlink(path)
		if err != nil {
			continue
		}
		// Name-only resolution within the bin directory.
		if filepath.IsAbs(target) {
			if filepath.Dir(filepath.Clean(target)) != g.binDir {
				continue
			}
			target = filepath.Base(target)
		}
		if !removedNames[target] {
			continue
		}

		if g.emit {
			logging.UserInfo("[emit] would remove symlink %s -> %s", entry.Name(), target)
			continue
		}
		if err := g.fs.Remove(path); err != nil {
			logging.Warn("removing orphaned symlink failed", "path", path, "error", err)
			continue
		}
		logging.Debug("removed orphaned symlink", "name", entry.Name(), "target", target)
	}

	return removed, nil
}
