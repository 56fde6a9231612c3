// Package errors provides typed errors with exit codes for fplaunchwrapper.
//
// # Error Types
//
// WrapperError is the base error type that pairs a failure kind with a
// user-facing message:
//
//	type WrapperError struct {
//	    Kind    Kind   // Failure classification
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Kinds
//
// Each component converts its lower-level failures into one of the kinds
// before surfacing them:
//
//	KindPlatformUnavailable  // flatpak CLI missing or both scope listings failed
//	KindBusy                 // advisory lock not acquired within the wait bound
//	KindNameCollision        // wrapper name claimed by a foreign file or other id
//	KindBlocklisted          // application id is on the blocklist
//	KindInvalidInput         // rejected preference token, alias, or hook path
//	KindIO                   // read/write/chmod/rename failure
//	KindHookFailed           // pre-launch hook exited non-zero
//	KindCycleOrDepth         // alias resolution hit a cycle or depth > 16
//	KindInterrupted          // batch terminated by signal
//
// # Exit Codes
//
// The CLI surface maps kinds to exit codes:
//
//	ExitSuccess     = 0    // Success
//	ExitFailure     = 1    // User-visible failure
//	ExitUsage       = 2    // Invalid invocation
//	ExitInterrupted = 130  // Interrupted
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err := cmd.Execute(); err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
