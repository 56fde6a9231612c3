package errors

import (
	"errors"
	"fmt"
)

// Exit codes for fplaunchwrapper
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// Kind classifies a failure. Components convert lower-level errors into
// one of these kinds before surfacing them; only the CLI layer collapses
// kinds into exit codes and messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlatformUnavailable
	KindBusy
	KindNameCollision
	KindBlocklisted
	KindInvalidInput
	KindIO
	KindHookFailed
	KindCycleOrDepth
	KindInterrupted
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindPlatformUnavailable:
		return "platform-unavailable"
	case KindBusy:
		return "busy"
	case KindNameCollision:
		return "name-collision"
	case KindBlocklisted:
		return "blocklisted"
	case KindInvalidInput:
		return "invalid-input"
	case KindIO:
		return "io"
	case KindHookFailed:
		return "hook-failed"
	case KindCycleOrDepth:
		return "cycle-or-depth"
	case KindInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// WrapperError is the base error type for fplaunchwrapper.
type WrapperError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *WrapperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *WrapperError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the CLI exit code for this error.
func (e *WrapperError) ExitCode() int {
	switch e.Kind {
	case KindInvalidInput:
		return ExitUsage
	case KindInterrupted:
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// New creates a new WrapperError.
func New(kind Kind, message string) *WrapperError {
	return &WrapperError{Kind: kind, Message: message}
}

// Wrap wraps an existing error with a WrapperError.
func Wrap(kind Kind, message string, cause error) *WrapperError {
	return &WrapperError{Kind: kind, Message: message, Cause: cause}
}

// Common error constructors

// PlatformUnavailable returns an error for a missing or failing flatpak CLI.
func PlatformUnavailable(cause error) *WrapperError {
	return Wrap(KindPlatformUnavailable, "flatpak is not available", cause)
}

// Busy returns an error for an advisory lock that could not be acquired.
func Busy(path string) *WrapperError {
	return New(KindBusy, fmt.Sprintf("another instance holds the lock at %s; retry later", path))
}

// NameCollision returns an error for a wrapper name claimed by a foreign
// file or a different application id.
func NameCollision(name, claimedBy string) *WrapperError {
	return New(KindNameCollision, fmt.Sprintf("wrapper name %s already claimed by %s", name, claimedBy))
}

// Blocklisted returns an error for a blocklisted application id.
func Blocklisted(id string) *WrapperError {
	return New(KindBlocklisted, fmt.Sprintf("application %s is blocklisted", id))
}

// InvalidInput returns an error for rejected user input.
func InvalidInput(message string) *WrapperError {
	return New(KindInvalidInput, message)
}

// IOFailed returns an error for a filesystem operation failure.
func IOFailed(op string, cause error) *WrapperError {
	return Wrap(KindIO, op+" failed", cause)
}

// HookFailed returns an error for a non-zero hook exit.
func HookFailed(name string, cause error) *WrapperError {
	return Wrap(KindHookFailed, fmt.Sprintf("hook %s failed", name), cause)
}

// CycleOrDepth returns an error for an alias chain that revisits a node
// or exceeds the resolution depth bound.
func CycleOrDepth(alias string) *WrapperError {
	return New(KindCycleOrDepth, fmt.Sprintf("alias %s forms a cycle or exceeds the depth limit", alias))
}

// Interrupted returns an error for a signal-terminated batch.
func Interrupted() *WrapperError {
	return New(KindInterrupted, "interrupted")
}

// GetExitCode extracts the exit code from an error chain.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var werr *WrapperError
	if errors.As(err, &werr) {
		return werr.ExitCode()
	}
	return ExitFailure
}

// KindOf returns the kind of the first WrapperError in the chain,
// or KindUnknown.
func KindOf(err error) Kind {
	var werr *WrapperError
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return KindUnknown
}

// Is checks if an error is of a specific type.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
