// Package logging provides logging utilities for fplaunchwrapper.
//
// This package provides two categories of output:
//   - Debug logging: structured logs for debugging (via slog)
//   - User output: formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("generating wrapper", "id", id, "name", name)
//	logging.Warn("skipping collision", "name", name)
//
// # User Output
//
// User-facing messages follow the CLI message routing: info to stdout,
// warnings and errors to stderr with fixed prefixes:
//
//	logging.UserInfo("Created wrapper %s", name)
//	logging.UserWarning("wrapper name %s claimed by a foreign file", name)
//	logging.UserError("flatpak is not available")
//
// produces
//
//	Created wrapper firefox
//	WARN: wrapper name firefox claimed by a foreign file
//	ERROR: flatpak is not available
package logging
