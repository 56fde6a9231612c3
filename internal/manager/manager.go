// Package manager implements the per-wrapper management operations:
// preferences, aliases, blocklist, env overlays, hook scripts, removal and
// read-only enumeration. All state goes through the store; every mutating
// operation honors emit mode.
package manager

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// Manager operates on wrapper state. Construction is pure.
type Manager struct {
	st   *store.Store
	fs   system.FileSystem
	emit bool
}

// New creates a Manager over st.
func New(st *store.Store, fs system.FileSystem, emit bool) *Manager {
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Manager{st: st, fs: fs, emit: emit}
}

// binDir resolves the recorded bin directory. Operations that need the
// wrapper files fail cleanly when no generation has ever recorded one.
func (m *Manager) binDir() (string, error) {
	dir, err := m.st.BinDir()
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", errors.InvalidInput("no bin directory recorded; run generate first")
	}
	return dir, nil
}

func (m *Manager) wrapperPath(name string) (string, error) {
	dir, err := m.binDir()
	if err != nil {
		return "", err
	}
	path, err := securejoin.SecureJoin(dir, name)
	if err != nil {
		return "", errors.InvalidInput(fmt.Sprintf("invalid wrapper name %q", name))
	}
	return path, nil
}

// canonicalName follows the alias table so every operation lands on the
// real wrapper name.
func (m *Manager) canonicalName(name string) (string, error) {
	resolved, err := m.st.ResolveAlias(name)
	if err != nil {
		return "", err
	}
	if resolved != name {
		logging.Debug("resolved alias", "alias", name, "target", resolved)
	}
	return resolved, nil
}

// wrapperExists reports whether a generated wrapper named name is present
// in the bin directory.
func (m *Manager) wrapperExists(name string) bool {
	path, err := m.wrapperPath(name)
	if err != nil {
		return false
	}
	ours, _ := naming.IsOurWrapper(m.fs, path)
	return ours
}

// SetPreference records the launch preference for a wrapper.
func (m *Manager) SetPreference(name, token string) error {
	name, err := m.canonicalName(name)
	if err != nil {
		return err
	}
	if !store.ValidPreference(token) {
		return errors.InvalidInput(fmt.Sprintf("preference must be %q or %q", store.PrefSystem, store.PrefFlatpak))
	}
	if !m.wrapperExists(name) {
		logging.UserWarning("no wrapper named %s exists; recording preference anyway", name)
	}
	if m.emit {
		logging.UserInfo("[emit] would set preference for %s to %s", name, token)
		return nil
	}
	return m.st.SetPreference(name, token)
}

// GetPreference returns the recorded preference, or "none" when absent.
func (m *Manager) GetPreference(name string) (string, error) {
	name, err := m.canonicalName(name)
	if err != nil {
		return "", err
	}
	pref, err := m.st.Preference(name)
	if err != nil {
		return "", err
	}
	if pref == "" {
		return "none", nil
	}
	return pref, nil
}

// CreateAlias adds an alias for a wrapper. With validateTarget the target
// must exist as a generated wrapper; a wrapper already named alias only
// draws a warning, because the alias file never shadows the wrapper on
// PATH.
func (m *Manager) CreateAlias(alias, target string, validateTarget bool) error {
	if validateTarget && !m.wrapperExists(target) {
		return errors.InvalidInput(fmt.Sprintf("no wrapper named %q exists", target))
	}
	if m.wrapperExists(alias) {
		logging.UserWarning("a wrapper named %s already exists; the alias will not shadow it", alias)
	}
	if m.emit {
		logging.UserInfo("[emit] would create alias %s -> %s", alias, target)
		return nil
	}
	return m.st.SetAlias(alias, target)
}

// RemoveAlias deletes one alias. Idempotent.
func (m *Manager) RemoveAlias(alias string) error {
	if m.emit {
		logging.UserInfo("[emit] would remove alias %s", alias)
		return nil
	}
	return m.st.RemoveAlias(alias)
}

// Block adds an application id to the blocklist. The wrapper itself is
// removed on the next generation run.
func (m *Manager) Block(id string) error {
	if m.emit {
		logging.UserInfo("[emit] would blocklist %s", id)
		return nil
	}
	if err := m.st.Block(id); err != nil {
		return err
	}
	if naming.IsValidAppID(id) && m.wrapperExists(naming.Sanitize(id)) {
		logging.UserInfo("%s is blocklisted; the wrapper will be removed on the next generate run", id)
	}
	return nil
}

// Unblock removes an application id from the blocklist. Idempotent.
func (m *Manager) Unblock(id string) error {
	if m.emit {
		logging.UserInfo("[emit] would unblock %s", id)
		return nil
	}
	return m.st.Unblock(id)
}

// SetEnv records one env overlay variable for a wrapper.
func (m *Manager) SetEnv(name, key, value string) error {
	name, err := m.canonicalName(name)
	if err != nil {
		return err
	}
	if m.emit {
		logging.UserInfo("[emit] would set %s=%s for %s", key, value, name)
		return nil
	}
	return m.st.SetEnvVar(name, key, value)
}

// UnsetEnv removes one env overlay variable. Idempotent.
func (m *Manager) UnsetEnv(name, key string) error {
	name, err := m.canonicalName(name)
	if err != nil {
		return err
	}
	if m.emit {
		logging.UserInfo("[emit] would unset %s for %s", key, name)
		return nil
	}
	return m.st.UnsetEnvVar(name, key)
}

// SetPreScript installs src as the pre-launch hook for a wrapper.
func (m *Manager) SetPreScript(name, src string) error {
	return m.setScript(name, store.PreScriptName, src)
}

// SetPostScript installs src as the post-run hook for a wrapper.
func (m *Manager) SetPostScript(name, src string) error {
	return m.setScript(name, store.PostScriptName, src)
}

func (m *Manager) setScript(name, scriptName, src string) error {
	name, err := m.canonicalName(name)
	if err != nil {
		return err
	}
	if !m.fs.Exists(src) || m.fs.IsDir(src) {
		return errors.InvalidInput(fmt.Sprintf("hook source %q is not a file", src))
	}
	if m.emit {
		logging.UserInfo("[emit] would install %s for %s from %s", scriptName, name, src)
		return nil
	}
	return m.st.InstallScript(name, scriptName, src)
}

// RemovePreScript deletes the pre-launch hook. Idempotent.
func (m *Manager) RemovePreScript(name string) error {
	return m.removeScript(name, store.PreScriptName)
}

// RemovePostScript deletes the post-run hook. Idempotent.
func (m *Manager) RemovePostScript(name string) error {
	return m.removeScript(name, store.PostScriptName)
}

func (m *Manager) removeScript(name, scriptName string) error {
	name, err := m.canonicalName(name)
	if err != nil {
		return err
	}
	if m.emit {
		logging.UserInfo("[emit] would remove %s for %s", scriptName, name)
		return nil
	}
	return m.st.RemoveScript(name, scriptName)
}

// RemoveWrapper deletes a wrapper file together with its preference, env
// overlay, hook scripts and any alias targeting it. A file that was not
// generated by this tool is only removed with force.
func (m *Manager) RemoveWrapper(name string, force bool) error {
	name, err := m.canonicalName(name)
	if err != nil {
		return err
	}
	path, err := m.wrapperPath(name)
	if err != nil {
		return err
	}

	haveFile := false
	if info, err := m.fs.Lstat(path); err == nil {
		if info.IsDir() {
			return errors.InvalidInput(fmt.Sprintf("%s is a directory, not a wrapper", path))
		}
		haveFile = true
		if ours, _ := naming.IsOurWrapper(m.fs, path); !ours && !force {
			return errors.InvalidInput(fmt.Sprintf("%s was not generated by this tool; use force to remove it", path))
		}
	}

	if m.emit {
		logging.UserInfo("[emit] would remove wrapper %s and its state", name)
		return nil
	}

	if haveFile {
		if err := m.fs.Remove(path); err != nil {
			return errors.IOFailed("remove wrapper", err)
		}
	}
	return m.st.RemoveWrapperState(name)
}

// Wrapper is one row of the read-only enumeration.
type Wrapper struct {
	Name       string
	ID         string
	Preference string
}

// Detail extends Wrapper with everything Info shows.
type Detail struct {
	Wrapper
	Path     string
	Env      map[string]string
	PreHook  bool
	PostHook bool
	Aliases  []string
}

// List enumerates the generated wrappers in the bin directory, sorted by
// name. Foreign files are ignored.
func (m *Manager) List() ([]Wrapper, error) {
	dir, err := m.binDir()
	if err != nil {
		return nil, err
	}
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.IOFailed("read bin directory", err)
	}

	var out []Wrapper
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ours, id := naming.IsOurWrapper(m.fs, path)
		if !ours {
			continue
		}
		pref, err := m.st.Preference(entry.Name())
		if err != nil {
			return nil, err
		}
		if pref == "" {
			pref = "none"
		}
		out = append(out, Wrapper{Name: entry.Name(), ID: id, Preference: pref})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Info returns everything recorded about one wrapper.
func (m *Manager) Info(name string) (Detail, error) {
	name, err := m.canonicalName(name)
	if err != nil {
		return Detail{}, err
	}
	path, err := m.wrapperPath(name)
	if err != nil {
		return Detail{}, err
	}
	ours, id := naming.IsOurWrapper(m.fs, path)
	if !ours {
		return Detail{}, errors.InvalidInput(fmt.Sprintf("no wrapper named %q exists", name))
	}

	pref, err := m.st.Preference(name)
	if err != nil {
		return Detail{}, err
	}
	if pref == "" {
		pref = "none"
	}
	env, err := m.st.EnvOverlay(name)
	if err != nil {
		return Detail{}, err
	}
	aliases, err := m.st.Aliases()
	if err != nil {
		return Detail{}, err
	}
	var pointing []string
	for alias, target := range aliases {
		if target == name {
			pointing = append(pointing, alias)
		}
	}
	sort.Strings(pointing)

	return Detail{
		Wrapper:  Wrapper{Name: name, ID: id, Preference: pref},
		Path:     path,
		Env:      env,
		PreHook:  m.st.HasScript(name, store.PreScriptName),
		PostHook: m.st.HasScript(name, store.PostScriptName),
		Aliases:  pointing,
	}, nil
}

// Search returns wrappers whose name or application id contains query,
// case-insensitively.
func (m *Manager) Search(query string) ([]Wrapper, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	var out []Wrapper
	for _, w := range all {
		if strings.Contains(strings.ToLower(w.Name), query) ||
			strings.Contains(strings.ToLower(w.ID), query) {
			out = append(out, w)
		}
	}
	return out, nil
}
