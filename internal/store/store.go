package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/naming"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// Preference tokens. "flatpak" is the external name for the sandboxed
// launch path.
const (
	PrefSystem  = "system"
	PrefFlatpak = "flatpak"
)

// File names under the config directory.
const (
	blocklistFile  = "blocklist"
	aliasesFile    = "aliases"
	binDirFile     = "bin_dir"
	lockFile       = ".lock.generate"
	scriptsDirName = "scripts"

	// PreScriptName and PostScriptName are the hook file names under
	// scripts/<name>/.
	PreScriptName  = "pre-launch.sh"
	PostScriptName = "post-run.sh"
)

var envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidPreference reports whether tok is an accepted preference token.
func ValidPreference(tok string) bool {
	return tok == PrefSystem || tok == PrefFlatpak
}

// Store owns the on-disk state under the config directory: preference
// files, env overlays, the alias table, the blocklist, the bin-dir pointer
// and hook scripts. All writes are atomic (temp file + rename in the same
// directory); readers tolerate missing files, blank lines and # comments.
type Store struct {
	configDir string
	fs        system.FileSystem
}

// New creates a Store rooted at configDir. Construction performs no I/O;
// call Prepare before the first write.
func New(configDir string, filesystem system.FileSystem) *Store {
	if filesystem == nil {
		filesystem = system.DefaultFS()
	}
	return &Store{configDir: naming.Canonicalize(configDir), fs: filesystem}
}

// DefaultConfigDir resolves the per-user config directory:
// $XDG_CONFIG_HOME/fplaunchwrapper, falling back to ~/.config/fplaunchwrapper.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, naming.ToolName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", naming.ToolName)
}

// Dir returns the config directory path.
func (s *Store) Dir() string {
	return s.configDir
}

// LockPath returns the advisory lock path for mutating batches.
func (s *Store) LockPath() string {
	return filepath.Join(s.configDir, lockFile)
}

// Prepare creates the config directory. It is the only constructor-adjacent
// side effect and can fail cleanly.
func (s *Store) Prepare() error {
	if err := s.fs.MkdirAll(s.configDir, 0755); err != nil {
		return errors.IOFailed("create config directory", err)
	}
	return nil
}

// PrefPath returns the preference file path for a wrapper name.
func (s *Store) PrefPath(name string) string {
	return filepath.Join(s.configDir, name+".pref")
}

// EnvPath returns the env overlay path for a wrapper name.
func (s *Store) EnvPath(name string) string {
	return filepath.Join(s.configDir, name+".env")
}

// ScriptsDir returns the hook script directory for a wrapper name,
// confined beneath the config directory.
func (s *Store) ScriptsDir(name string) (string, error) {
	dir, err := securejoin.SecureJoin(filepath.Join(s.configDir, scriptsDirName), name)
	if err != nil {
		return "", errors.InvalidInput(fmt.Sprintf("invalid wrapper name %q", name))
	}
	return dir, nil
}

func (s *Store) blocklistPath() string {
	return filepath.Join(s.configDir, blocklistFile)
}

func (s *Store) aliasesPath() string {
	return filepath.Join(s.configDir, aliasesFile)
}

func (s *Store) binDirPath() string {
	return filepath.Join(s.configDir, binDirFile)
}

// SharedFilePaths returns the paths of the table files not tied to one
// wrapper: the alias table, the blocklist and the bin-dir pointer.
func (s *Store) SharedFilePaths() map[string]string {
	return map[string]string{
		"alias table":     s.aliasesPath(),
		"blocklist":       s.blocklistPath(),
		"bin-dir pointer": s.binDirPath(),
	}
}

// writeAtomic writes data to path via a temp file in the same directory
// followed by a rename, so readers never observe a partial file.
func (s *Store) writeAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.IOFailed("create directory "+dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp%d", filepath.Base(path), os.Getpid()))
	if err := s.fs.WriteFile(tmp, data, perm); err != nil {
		return errors.IOFailed("write "+tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp)
		return errors.IOFailed("rename "+tmp, err)
	}
	return nil
}

// readLines reads a newline-delimited table, dropping blank lines,
// surrounding whitespace and #-prefixed comments. A missing file reads as
// empty.
func (s *Store) readLines(path string) ([]string, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IOFailed("read "+path, err)
	}

	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// writeLines writes a sorted, deduplicated table with a trailing newline.
func (s *Store) writeLines(path string, lines []string) error {
	seen := make(map[string]bool, len(lines))
	uniq := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		uniq = append(uniq, l)
	}
	sort.Strings(uniq)

	if len(uniq) == 0 {
		return s.writeAtomic(path, []byte{}, 0644)
	}
	return s.writeAtomic(path, []byte(strings.Join(uniq, "\n")+"\n"), 0644)
}

// Preferences

// Preference reads the launch preference for a wrapper. An absent file
// returns the empty string ("ask on first interactive launch").
func (s *Store) Preference(name string) (string, error) {
	data, err := s.fs.ReadFile(s.PrefPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.IOFailed("read preference for "+name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetPreference validates and writes the preference token for a wrapper.
func (s *Store) SetPreference(name, token string) error {
	if !ValidPreference(token) {
		return errors.InvalidInput(fmt.Sprintf("preference must be %q or %q, got %q", PrefSystem, PrefFlatpak, token))
	}
	return s.writeAtomic(s.PrefPath(name), []byte(token+"\n"), 0644)
}

// RemovePreference deletes the preference file; a missing file is not an
// error.
func (s *Store) RemovePreference(name string) error {
	if err := s.fs.Remove(s.PrefPath(name)); err != nil && !os.IsNotExist(err) {
		return errors.IOFailed("remove preference for "+name, err)
	}
	return nil
}

// Blocklist

// Blocklist returns the sorted list of blocklisted application ids.
func (s *Store) Blocklist() ([]string, error) {
	return s.readLines(s.blocklistPath())
}

// IsBlocklisted reports whether id is on the blocklist.
func (s *Store) IsBlocklisted(id string) (bool, error) {
	ids, err := s.Blocklist()
	if err != nil {
		return false, err
	}
	for _, b := range ids {
		if b == id {
			return true, nil
		}
	}
	return false, nil
}

// Block adds an application id to the blocklist. Idempotent.
func (s *Store) Block(id string) error {
	if !naming.IsValidAppID(id) {
		return errors.InvalidInput(fmt.Sprintf("invalid application id %q", id))
	}
	ids, err := s.Blocklist()
	if err != nil {
		return err
	}
	return s.writeLines(s.blocklistPath(), append(ids, id))
}

// ReplaceBlocklist overwrites the blocklist. Every id is validated before
// anything is written.
func (s *Store) ReplaceBlocklist(ids []string) error {
	for _, id := range ids {
		if !naming.IsValidAppID(id) {
			return errors.InvalidInput(fmt.Sprintf("invalid application id %q", id))
		}
	}
	return s.writeLines(s.blocklistPath(), ids)
}

// Unblock removes an application id from the blocklist. Idempotent.
func (s *Store) Unblock(id string) error {
	ids, err := s.Blocklist()
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, b := range ids {
		if b != id {
			kept = append(kept, b)
		}
	}
	return s.writeLines(s.blocklistPath(), kept)
}

// Bin-dir pointer

// BinDir reads the bin-dir pointer. An absent pointer returns the empty
// string.
func (s *Store) BinDir() (string, error) {
	data, err := s.fs.ReadFile(s.binDirPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.IOFailed("read bin_dir pointer", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetBinDir writes the bin-dir pointer as an absolute path.
func (s *Store) SetBinDir(path string) error {
	if path == "" {
		return errors.InvalidInput("bin directory must not be empty")
	}
	return s.writeAtomic(s.binDirPath(), []byte(naming.Canonicalize(path)+"\n"), 0644)
}

// SetBinDirIfChanged rewrites the pointer only when it disagrees with
// path. The caller's path always wins over a stale pointer.
func (s *Store) SetBinDirIfChanged(path string) error {
	current, err := s.BinDir()
	if err != nil {
		return err
	}
	canonical := naming.Canonicalize(path)
	if current == canonical {
		return nil
	}
	return s.SetBinDir(canonical)
}

// Env overlays

// envEscape escapes a value for a double-quoted shell assignment.
func envEscape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, "`", "\\`")
	v = strings.ReplaceAll(v, "$", `\$`)
	return v
}

func envUnescape(v string) string {
	v = strings.ReplaceAll(v, `\$`, "$")
	v = strings.ReplaceAll(v, "\\`", "`")
	v = strings.ReplaceAll(v, `\"`, `"`)
	v = strings.ReplaceAll(v, `\\`, `\`)
	return v
}

// EnvOverlay parses the env overlay for a wrapper into a key/value map.
// The file is shell-sourced at launch, so only KEY="value" assignments are
// produced by this tool, but bare KEY=value lines are tolerated on read.
func (s *Store) EnvOverlay(name string) (map[string]string, error) {
	lines, err := s.readLines(s.EnvPath(name))
	if err != nil {
		return nil, err
	}

	env := make(map[string]string, len(lines))
	for _, line := range lines {
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok || !envKeyPattern.MatchString(key) {
			continue
		}
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = envUnescape(value[1 : len(value)-1])
		}
		env[key] = value
	}
	return env, nil
}

// SetEnvVar sets one variable in the wrapper's env overlay.
func (s *Store) SetEnvVar(name, key, value string) error {
	if !envKeyPattern.MatchString(key) {
		return errors.InvalidInput(fmt.Sprintf("invalid environment variable name %q", key))
	}
	if strings.ContainsAny(value, "\n") {
		return errors.InvalidInput("environment values must not contain newlines")
	}

	env, err := s.EnvOverlay(name)
	if err != nil {
		return err
	}
	env[key] = value
	return s.writeEnvOverlay(name, env)
}

// UnsetEnvVar removes one variable; the overlay file is deleted when it
// becomes empty.
func (s *Store) UnsetEnvVar(name, key string) error {
	env, err := s.EnvOverlay(name)
	if err != nil {
		return err
	}
	if _, ok := env[key]; !ok {
		return nil
	}
	delete(env, key)
	if len(env) == 0 {
		return s.RemoveEnvOverlay(name)
	}
	return s.writeEnvOverlay(name, env)
}

// WriteEnvOverlay replaces the whole overlay for a wrapper.
func (s *Store) WriteEnvOverlay(name string, env map[string]string) error {
	for key, value := range env {
		if !envKeyPattern.MatchString(key) {
			return errors.InvalidInput(fmt.Sprintf("invalid environment variable name %q", key))
		}
		if strings.ContainsAny(value, "\n") {
			return errors.InvalidInput("environment values must not contain newlines")
		}
	}
	return s.writeEnvOverlay(name, env)
}

func (s *Store) writeEnvOverlay(name string, env map[string]string) error {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=\"%s\"\n", k, envEscape(env[k]))
	}
	return s.writeAtomic(s.EnvPath(name), []byte(b.String()), 0644)
}

// RemoveEnvOverlay deletes the overlay file; a missing file is not an
// error.
func (s *Store) RemoveEnvOverlay(name string) error {
	if err := s.fs.Remove(s.EnvPath(name)); err != nil && !os.IsNotExist(err) {
		return errors.IOFailed("remove env overlay for "+name, err)
	}
	return nil
}

// Hook scripts

// InstallScript copies src into scripts/<name>/<scriptName> and marks it
// executable.
func (s *Store) InstallScript(name, scriptName, src string) error {
	info, err := s.fs.Stat(src)
	if err != nil {
		return errors.InvalidInput(fmt.Sprintf("hook script %s does not exist", src))
	}
	if info.IsDir() {
		return errors.InvalidInput(fmt.Sprintf("hook script %s is a directory", src))
	}

	dir, err := s.ScriptsDir(name)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.IOFailed("create scripts directory", err)
	}

	dst := filepath.Join(dir, scriptName)
	if err := s.fs.CopyFile(src, dst); err != nil {
		return errors.IOFailed("copy hook script", err)
	}
	if err := s.fs.Chmod(dst, 0755); err != nil {
		return errors.IOFailed("chmod hook script", err)
	}
	return nil
}

// RemoveScript deletes one hook script; removing an absent script is not
// an error. The scripts directory is pruned when it empties.
func (s *Store) RemoveScript(name, scriptName string) error {
	dir, err := s.ScriptsDir(name)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, scriptName)
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.IOFailed("remove hook script", err)
	}
	if entries, err := s.fs.ReadDir(dir); err == nil && len(entries) == 0 {
		s.fs.Remove(dir)
	}
	return nil
}

// RemoveScripts deletes the whole scripts/<name>/ directory.
func (s *Store) RemoveScripts(name string) error {
	dir, err := s.ScriptsDir(name)
	if err != nil {
		return err
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return errors.IOFailed("remove scripts for "+name, err)
	}
	return nil
}

// HasScript reports whether the named hook exists for a wrapper.
func (s *Store) HasScript(name, scriptName string) bool {
	dir, err := s.ScriptsDir(name)
	if err != nil {
		return false
	}
	return s.fs.Exists(filepath.Join(dir, scriptName))
}

// Cascade

// RemoveWrapperState removes everything the store holds for a wrapper
// name: preference, env overlay, hook scripts and any alias targeting it.
func (s *Store) RemoveWrapperState(name string) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(s.RemovePreference(name))
	keep(s.RemoveEnvOverlay(name))
	keep(s.RemoveScripts(name))
	_, err := s.RemoveAliasesTargeting(name)
	keep(err)

	return firstErr
}

// Names returns every wrapper name that has any state in the store
// (preference, env overlay or scripts directory).
func (s *Store) Names() ([]string, error) {
	seen := make(map[string]bool)

	entries, err := s.fs.ReadDir(s.configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IOFailed("read config directory", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		switch {
		case strings.HasSuffix(n, ".pref"):
			seen[strings.TrimSuffix(n, ".pref")] = true
		case strings.HasSuffix(n, ".env"):
			seen[strings.TrimSuffix(n, ".env")] = true
		}
	}

	if scripts, err := s.fs.ReadDir(filepath.Join(s.configDir, scriptsDirName)); err == nil {
		for _, e := range scripts {
			if e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
