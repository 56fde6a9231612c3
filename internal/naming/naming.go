// Package naming derives wrapper names from application ids and recognizes
// wrapper files the tool has generated.
package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

const (
	// ToolName is the canonical tool name used for the config directory,
	// generated-file markers and unit names.
	ToolName = "fplaunchwrapper"

	// Marker identifies files this tool generated. It must appear within
	// the header of every wrapper file.
	Marker = "Generated by " + ToolName

	// maxNameLen bounds sanitized wrapper names. Longer names are
	// truncated to truncatedLen bytes plus "-" plus an 8-char digest of
	// the full application id.
	maxNameLen   = 64
	truncatedLen = 55

	// headerScanLimit bounds how much of a candidate wrapper file is read
	// when looking for the recognition header.
	headerScanLimit = 4096
)

var (
	// appIDPattern matches the reverse-DNS shape of flatpak application
	// ids: at least two dot-separated components of letters, digits,
	// underscores and hyphens.
	appIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)+$`)

	idAssignPattern = regexp.MustCompile(`^ID="([^"]+)"`)

	invalidNameChar = regexp.MustCompile(`[^a-z0-9_-]`)
)

// IsValidAppID reports whether s has the reverse-DNS application id shape.
func IsValidAppID(s string) bool {
	return appIDPattern.MatchString(s)
}

// shortDigest returns the first 8 hex chars of the SHA-256 of id.
func shortDigest(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])[:8]
}

// Sanitize derives the wrapper name for an application id: the last
// dot-separated segment, lowercased, with characters outside [a-z0-9_-]
// replaced by '-'. Pathological results fall back to "app-" plus a stable
// digest of the full id, so Sanitize never returns an empty string and is
// deterministic for a given input.
func Sanitize(id string) string {
	segment := id
	if i := strings.LastIndex(id, "."); i >= 0 {
		segment = id[i+1:]
	}

	name := strings.ToLower(segment)
	name = invalidNameChar.ReplaceAllString(name, "-")

	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return "app-" + shortDigest(id)
	}

	if len(name) > maxNameLen {
		name = name[:truncatedLen] + "-" + shortDigest(id)
	}

	return name
}

// IsOurWrapper reports whether the file at path is a wrapper generated by
// this tool, and if so returns the embedded application id. Only the first
// few KiB of the file are examined; both the marker comment and a
// well-formed ID assignment must be present.
func IsOurWrapper(fs system.FileSystem, path string) (bool, string) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return false, ""
	}
	if len(data) > headerScanLimit {
		data = data[:headerScanLimit]
	}

	haveMarker := false
	id := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, Marker) {
			haveMarker = true
		}
		if m := idAssignPattern.FindStringSubmatch(line); m != nil {
			id = m[1]
		}
		if haveMarker && id != "" {
			break
		}
	}

	if !haveMarker || !IsValidAppID(id) {
		return false, ""
	}
	return true, id
}

// Canonicalize resolves "." and ".." segments lexically and makes the path
// absolute. Symlinks are deliberately not resolved so that symlinked home
// directories remain stable identity keys.
func Canonicalize(p string) string {
	if !filepath.IsAbs(p) {
		if wd, err := os.Getwd(); err == nil {
			p = filepath.Join(wd, p)
		}
	}
	return filepath.Clean(p)
}

// FindOnPath returns the first executable named name on the search path
// whose canonical path differs from selfPath. It returns "" when no such
// binary exists. The comparison is case-sensitive.
func FindOnPath(fs system.FileSystem, name, selfPath string) string {
	self := Canonicalize(selfPath)

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := fs.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0111 == 0 {
			continue
		}
		if Canonicalize(candidate) == self {
			continue
		}
		return candidate
	}
	return ""
}
