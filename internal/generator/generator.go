// Package generator discovers installed applications, renders launch
// wrappers into the bin directory and reconciles it against the installed
// set.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/lockfile"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// Outcome classifies the result of generating one wrapper.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkippedBlocklisted
	OutcomeSkippedCollision
	OutcomeSkippedInvalidName
	OutcomeFailedIO
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkippedBlocklisted:
		return "skipped-blocklisted"
	case OutcomeSkippedCollision:
		return "skipped-collision"
	case OutcomeSkippedInvalidName:
		return "skipped-invalid-name"
	case OutcomeFailedIO:
		return "failed-io"
	default:
		return "unknown"
	}
}

// Summary aggregates a whole generation batch.
type Summary struct {
	Created int
	Updated int
	Removed int
	Skipped int
	Failed  int
}

// Generator writes launch wrappers. Construction is pure; all I/O happens
// in the methods.
type Generator struct {
	st     *store.Store
	fs     system.FileSystem
	binDir string
	emit   bool
}

// New creates a Generator writing to binDir through st's filesystem.
func New(st *store.Store, fs system.FileSystem, binDir string, emit bool) *Generator {
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Generator{st: st, fs: fs, binDir: naming.Canonicalize(binDir), emit: emit}
}

// BinDir returns the canonicalized bin directory.
func (g *Generator) BinDir() string {
	return g.binDir
}

// wrapperPath confines a wrapper name beneath the bin directory.
func (g *Generator) wrapperPath(name string) (string, error) {
	path, err := securejoin.SecureJoin(g.binDir, name)
	if err != nil {
		return "", errors.InvalidInput(fmt.Sprintf("invalid wrapper name %q", name))
	}
	return path, nil
}

// GenerateOne derives the wrapper name for id, checks the blocklist and
// collisions, renders the template and writes the wrapper atomically with
// mode 0755.
func (g *Generator) GenerateOne(ctx context.Context, id string) (Outcome, error) {
	blocked, err := g.st.IsBlocklisted(id)
	if err != nil {
		return OutcomeFailedIO, err
	}
	if blocked {
		logging.Info("skipping blocklisted application", "id", id)
		return OutcomeSkippedBlocklisted, nil
	}

	if !naming.IsValidAppID(id) {
		logging.Warn("cannot derive wrapper name", "id", id)
		return OutcomeSkippedInvalidName, nil
	}
	name := naming.Sanitize(id)

	path, err := g.wrapperPath(name)
	if err != nil {
		return OutcomeSkippedInvalidName, nil
	}

	updating := false
	if info, err := g.fs.Lstat(path); err == nil {
		if info.IsDir() {
			logging.Warn("wrapper name collides with a directory", "name", name)
			return OutcomeSkippedCollision, nil
		}
		ours, embeddedID := naming.IsOurWrapper(g.fs, path)
		switch {
		case ours && embeddedID == id:
			updating = true
		case ours:
			logging.Warn("wrapper name claimed by a different application",
				"name", name, "id", id, "claimed_by", embeddedID)
			return OutcomeSkippedCollision, nil
		default:
			logging.Warn("wrapper name claimed by a foreign file", "name", name, "path", path)
			return OutcomeSkippedCollision, nil
		}
	}

	content, err := RenderWrapper(name, id, g.st.Dir(), g.binDir)
	if err != nil {
		return OutcomeFailedIO, err
	}

	if g.emit {
		verb := "create"
		if updating {
			verb = "update"
		}
		logging.UserInfo("[emit] would %s %s (%s)", verb, path, id)
		if updating {
			return OutcomeUpdated, nil
		}
		return OutcomeCreated, nil
	}

	if err := g.writeWrapper(path, content); err != nil {
		logging.Error("writing wrapper failed", "name", name, "error", err)
		return OutcomeFailedIO, err
	}

	if updating {
		logging.Debug("updated wrapper", "name", name, "id", id)
		return OutcomeUpdated, nil
	}
	logging.Debug("created wrapper", "name", name, "id", id)
	return OutcomeCreated, nil
}

// writeWrapper writes the script via temp + rename so the wrapper is never
// observable half-written, then marks it executable.
func (g *Generator) writeWrapper(path, content string) error {
	dir := filepath.Dir(path)
	if err := g.fs.MkdirAll(dir, 0755); err != nil {
		return errors.IOFailed("create bin directory", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp%d", filepath.Base(path), os.Getpid()))
	if err := g.fs.WriteFile(tmp, []byte(content), 0600); err != nil {
		return errors.IOFailed("write wrapper", err)
	}
	if err := g.fs.Chmod(tmp, 0755); err != nil {
		g.fs.Remove(tmp)
		return errors.IOFailed("chmod wrapper", err)
	}
	if err := g.fs.Rename(tmp, path); err != nil {
		g.fs.Remove(tmp)
		return errors.IOFailed("rename wrapper", err)
	}
	return nil
}

// GenerateAll reconciles orphans and then generates a wrapper for every
// installed application, holding the advisory lock for the whole batch in
// non-emit mode. Orphan reconciliation runs first so an application-id
// change looks like a remove followed by a create.
func (g *Generator) GenerateAll(ctx context.Context, installed []string) (Summary, error) {
	var sum Summary

	if !g.emit {
		lock := lockfile.New(g.st.LockPath())
		if err := lock.Acquire(lockfile.DefaultWait); err != nil {
			if err == lockfile.ErrBusy {
				return sum, errors.Busy(lock.Path())
			}
			return sum, errors.IOFailed("acquire generate lock", err)
		}
		defer lock.Release()
	}

	removed, err := g.CleanupObsolete(ctx, installed)
	if err != nil {
		return sum, err
	}
	sum.Removed = removed

	if !g.emit {
		// The CLI argument wins over a stale pointer; the pointer is
		// rewritten to match.
		if err := g.st.SetBinDirIfChanged(g.binDir); err != nil {
			return sum, err
		}
	}

	for _, id := range installed {
		outcome, err := g.GenerateOne(ctx, id)
		switch outcome {
		case OutcomeCreated:
			sum.Created++
		case OutcomeUpdated:
			sum.Updated++
		case OutcomeFailedIO:
			sum.Failed++
			logging.Debug("generation failed for one application", "id", id, "error", err)
		default:
			sum.Skipped++
		}
	}

	// IO failures are fatal at batch level only when nothing succeeded.
	if sum.Failed > 0 && sum.Created == 0 && sum.Updated == 0 {
		return sum, errors.New(errors.KindIO, "no wrapper could be written")
	}
	return sum, nil
}
