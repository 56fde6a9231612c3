package logging

import (
	"fmt"
	"io"
	"os"
)

// User-facing output, separate from the structured debug logging.
// Info goes to stdout; warnings and errors go to stderr with fixed
// prefixes so scripts can grep them.

var (
	userOut io.Writer = os.Stdout
	userErr io.Writer = os.Stderr
)

// SetUserWriters redirects user-facing output (used by tests).
func SetUserWriters(out, errw io.Writer) {
	if out != nil {
		userOut = out
	}
	if errw != nil {
		userErr = errw
	}
}

// ResetUserWriters restores stdout/stderr routing.
func ResetUserWriters() {
	userOut = os.Stdout
	userErr = os.Stderr
}

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	fmt.Fprintf(userOut, format+"\n", args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	fmt.Fprintf(userErr, "WARN: "+format+"\n", args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	fmt.Fprintf(userErr, "ERROR: "+format+"\n", args...)
}
