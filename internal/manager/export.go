package manager

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
)

// DocumentVersion is the current export document format.
const DocumentVersion = 1

// Document is the exported state: everything the store records except
// hook scripts and the bin-dir pointer, which are machine-local.
type Document struct {
	Version     int                          `toml:"version"`
	Preferences map[string]string            `toml:"preferences"`
	Env         map[string]map[string]string `toml:"env"`
	Aliases     map[string]string            `toml:"aliases"`
	Blocklist   []string                     `toml:"blocklist"`
}

// Snapshot collects the current state into a Document.
func (m *Manager) Snapshot() (Document, error) {
	doc := Document{
		Version:     DocumentVersion,
		Preferences: make(map[string]string),
		Env:         make(map[string]map[string]string),
	}

	names, err := m.st.Names()
	if err != nil {
		return doc, err
	}
	for _, name := range names {
		pref, err := m.st.Preference(name)
		if err != nil {
			return doc, err
		}
		if pref != "" {
			doc.Preferences[name] = pref
		}
		env, err := m.st.EnvOverlay(name)
		if err != nil {
			return doc, err
		}
		if len(env) > 0 {
			doc.Env[name] = env
		}
	}

	if doc.Aliases, err = m.st.Aliases(); err != nil {
		return doc, err
	}
	if doc.Blocklist, err = m.st.Blocklist(); err != nil {
		return doc, err
	}
	sort.Strings(doc.Blocklist)
	return doc, nil
}

// Export writes the current state to path as a TOML document, staged
// through a temp file so no partial document is ever observable.
func (m *Manager) Export(path string) error {
	doc, err := m.Snapshot()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return errors.IOFailed("encode export document", err)
	}

	if m.emit {
		logging.UserInfo("[emit] would export %d preferences, %d env overlays, %d aliases, %d blocklist entries to %s",
			len(doc.Preferences), len(doc.Env), len(doc.Aliases), len(doc.Blocklist), path)
		return nil
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp%d", filepath.Base(path), os.Getpid()))
	if err := m.fs.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return errors.IOFailed("write export document", err)
	}
	if err := m.fs.Rename(tmp, path); err != nil {
		m.fs.Remove(tmp)
		return errors.IOFailed("rename export document", err)
	}
	return nil
}

// Import replaces the managed state with the document at path. The whole
// document is validated before anything is written, so a bad document
// leaves the existing state untouched. Import overwrites; it does not
// merge.
func (m *Manager) Import(path string) error {
	data, err := m.fs.ReadFile(path)
	if err != nil {
		return errors.IOFailed("read import document", err)
	}

	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return errors.InvalidInput(fmt.Sprintf("malformed import document: %v", err))
	}
	if err := validateDocument(doc); err != nil {
		return err
	}

	if m.emit {
		logging.UserInfo("[emit] would import %d preferences, %d env overlays, %d aliases, %d blocklist entries from %s",
			len(doc.Preferences), len(doc.Env), len(doc.Aliases), len(doc.Blocklist), path)
		return nil
	}

	// Clear existing preferences and overlays so absent entries do not
	// survive the import.
	names, err := m.st.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := m.st.RemovePreference(name); err != nil {
			return err
		}
		if err := m.st.RemoveEnvOverlay(name); err != nil {
			return err
		}
	}

	for name, token := range doc.Preferences {
		if err := m.st.SetPreference(name, token); err != nil {
			return err
		}
	}
	for name, env := range doc.Env {
		if err := m.st.WriteEnvOverlay(name, env); err != nil {
			return err
		}
	}
	if err := m.st.ReplaceAliases(doc.Aliases); err != nil {
		return err
	}
	return m.st.ReplaceBlocklist(doc.Blocklist)
}

func validateDocument(doc Document) error {
	if doc.Version != DocumentVersion {
		return errors.InvalidInput(fmt.Sprintf("unsupported export document version %d", doc.Version))
	}
	for name, token := range doc.Preferences {
		if !store.ValidPreference(token) {
			return errors.InvalidInput(fmt.Sprintf("preference for %s has invalid token %q", name, token))
		}
	}
	for _, id := range doc.Blocklist {
		if !naming.IsValidAppID(id) {
			return errors.InvalidInput(fmt.Sprintf("blocklist entry %q is not a valid application id", id))
		}
	}
	return nil
}
