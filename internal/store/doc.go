// Package store owns the on-disk state for fplaunchwrapper.
//
// # Layout
//
// All state lives under the config directory
// ($XDG_CONFIG_HOME/fplaunchwrapper or ~/.config/fplaunchwrapper):
//
//	bin_dir                      abs path of the wrapper bin directory
//	blocklist                    one application id per line
//	aliases                      alias:target per line, sorted
//	<name>.pref                  one preference token (system | flatpak)
//	<name>.env                   shell key=value assignments
//	scripts/<name>/pre-launch.sh
//	scripts/<name>/post-run.sh
//	.lock.generate               advisory lock for mutating batches
//
// # Write discipline
//
// Every write goes through a temp file in the same directory followed by a
// rename, so concurrent readers never observe a partial file. Tables are
// written sorted, deduplicated, UTF-8, with a trailing newline. Readers
// tolerate missing files, blank lines, trailing whitespace and # comments.
//
// # Aliases
//
// The alias table is an acyclic redirection. SetAlias refuses entries that
// would introduce a cycle; ResolveAlias walks at most 16 steps and refuses
// revisits.
package store
