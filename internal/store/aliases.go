package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
)

// maxAliasDepth bounds alias resolution. A chain of exactly this length
// resolves; one step more fails.
const maxAliasDepth = 16

// Aliases reads the alias table as an alias→target map. Malformed lines
// are skipped.
func (s *Store) Aliases() (map[string]string, error) {
	lines, err := s.readLines(s.aliasesPath())
	if err != nil {
		return nil, err
	}

	aliases := make(map[string]string, len(lines))
	for _, line := range lines {
		alias, target, ok := strings.Cut(line, ":")
		alias = strings.TrimSpace(alias)
		target = strings.TrimSpace(target)
		if !ok || alias == "" || target == "" {
			continue
		}
		aliases[alias] = target
	}
	return aliases, nil
}

func (s *Store) writeAliases(aliases map[string]string) error {
	lines := make([]string, 0, len(aliases))
	for alias, target := range aliases {
		lines = append(lines, alias+":"+target)
	}
	sort.Strings(lines)
	return s.writeLines(s.aliasesPath(), lines)
}

// SetAlias adds an alias→target entry. It refuses empty or whitespace
// names, overwriting an existing alias, and any entry that would make the
// table cyclic.
func (s *Store) SetAlias(alias, target string) error {
	alias = strings.TrimSpace(alias)
	target = strings.TrimSpace(target)
	if alias == "" || target == "" {
		return errors.InvalidInput("alias and target must not be empty")
	}
	if strings.ContainsAny(alias, ": \t") || strings.ContainsAny(target, ": \t") {
		return errors.InvalidInput("alias and target must not contain ':' or whitespace")
	}
	if alias == target {
		return errors.CycleOrDepth(alias)
	}

	aliases, err := s.Aliases()
	if err != nil {
		return err
	}
	if existing, ok := aliases[alias]; ok {
		return errors.InvalidInput(fmt.Sprintf("alias %s already points to %s", alias, existing))
	}
	if wouldCycle(aliases, alias, target) {
		return errors.CycleOrDepth(alias)
	}

	aliases[alias] = target
	return s.writeAliases(aliases)
}

// wouldCycle reports whether adding alias→target would let a chain revisit
// alias.
func wouldCycle(aliases map[string]string, alias, target string) bool {
	cur := target
	for i := 0; i < maxAliasDepth+1; i++ {
		if cur == alias {
			return true
		}
		next, ok := aliases[cur]
		if !ok {
			return false
		}
		cur = next
	}
	// Walk did not terminate: the existing table already loops somewhere
	// reachable from target.
	return true
}

// ReplaceAliases overwrites the whole alias table. Every entry is
// validated the way SetAlias validates it, and the resulting table must be
// acyclic; on any rejection the existing table is left untouched.
func (s *Store) ReplaceAliases(aliases map[string]string) error {
	for alias, target := range aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(target) == "" {
			return errors.InvalidInput("alias and target must not be empty")
		}
		if strings.ContainsAny(alias, ": \t") || strings.ContainsAny(target, ": \t") {
			return errors.InvalidInput("alias and target must not contain ':' or whitespace")
		}
	}
	for alias := range aliases {
		cur := alias
		for i := 0; ; i++ {
			next, ok := aliases[cur]
			if !ok {
				break
			}
			if i >= maxAliasDepth || next == alias {
				return errors.CycleOrDepth(alias)
			}
			cur = next
		}
	}
	return s.writeAliases(aliases)
}

// RemoveAlias deletes one alias entry. Idempotent.
func (s *Store) RemoveAlias(alias string) error {
	aliases, err := s.Aliases()
	if err != nil {
		return err
	}
	if _, ok := aliases[alias]; !ok {
		return nil
	}
	delete(aliases, alias)
	return s.writeAliases(aliases)
}

// RemoveAliasesTargeting deletes every alias whose target equals target,
// returning the removed alias names.
func (s *Store) RemoveAliasesTargeting(target string) ([]string, error) {
	aliases, err := s.Aliases()
	if err != nil {
		return nil, err
	}

	var removed []string
	for alias, t := range aliases {
		if t == target {
			removed = append(removed, alias)
			delete(aliases, alias)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	sort.Strings(removed)
	return removed, s.writeAliases(aliases)
}

// ResolveAlias follows the alias table from name until a non-alias is
// reached, walking at most maxAliasDepth steps and refusing revisits.
// A name with no alias entry resolves to itself.
func (s *Store) ResolveAlias(name string) (string, error) {
	aliases, err := s.Aliases()
	if err != nil {
		return "", err
	}

	visited := map[string]bool{name: true}
	cur := name
	for i := 0; i < maxAliasDepth; i++ {
		next, ok := aliases[cur]
		if !ok {
			return cur, nil
		}
		if visited[next] {
			return "", errors.CycleOrDepth(name)
		}
		visited[next] = true
		cur = next
	}
	if _, ok := aliases[cur]; ok {
		return "", errors.CycleOrDepth(name)
	}
	return cur, nil
}
