package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtg01100/fplaunchwrapper/internal/naming"
	"github.com/dtg01100/fplaunchwrapper/internal/platform"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// DefaultBinDir is the wrapper bin directory recorded by NewTestEnv.
const DefaultBinDir = "/home/user/bin"

// TestEnv holds the pieces most package tests need: a mock filesystem, a
// mock executor that already knows about flatpak, and a prepared store.
// The config directory is a real temp dir so the advisory flock works;
// everything else flows through the mock filesystem.
type TestEnv struct {
	T         *testing.T
	ConfigDir string
	BinDir    string
	FS        *system.MockFS
	Exec      *system.MockExecutor
	Store     *store.Store
}

// NewTestEnv builds a TestEnv with an empty installed set and the bin-dir
// pointer already recorded.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	fs := system.NewMockFS()
	exec := system.NewMockExecutor()
	exec.AddPath(platform.Binary, "/usr/bin/flatpak")
	exec.Responses["flatpak list"] = system.MockResponse{}

	st := store.New(t.TempDir(), fs)
	if err := st.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.SetBinDir(DefaultBinDir); err != nil {
		t.Fatalf("SetBinDir: %v", err)
	}

	return &TestEnv{
		T:         t,
		ConfigDir: st.Dir(),
		BinDir:    DefaultBinDir,
		FS:        fs,
		Exec:      exec,
		Store:     st,
	}
}

// InstallApps sets the executor's flatpak list output to the given ids.
func (e *TestEnv) InstallApps(ids ...string) {
	out := strings.Join(ids, "\n")
	if out != "" {
		out += "\n"
	}
	e.Exec.Responses["flatpak list"] = system.MockResponse{Stdout: []byte(out)}
}

// Platform returns a Flatpak enumerator backed by the mock executor.
func (e *TestEnv) Platform() *platform.Flatpak {
	return platform.New(e.Exec)
}

// AddWrapper fabricates a generated wrapper in the bin directory and
// returns its path.
func (e *TestEnv) AddWrapper(name, id string) string {
	e.T.Helper()
	path := filepath.Join(e.BinDir, name)
	e.FS.AddFile(path, WrapperScript(name, id), 0755)
	return path
}

// WrapperScript returns a minimal wrapper body carrying the recognition
// header (marker comment plus NAME and ID assignments).
func WrapperScript(name, id string) []byte {
	return []byte(fmt.Sprintf("#!/usr/bin/env bash\n# %s\nNAME=%q\nID=%q\n", naming.Marker, name, id))
}
