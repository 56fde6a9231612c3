// Package notify sends best-effort desktop notifications through
// notify-send. A missing notifier is never an error.
package notify

import (
	"context"

	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// Binary is the notifier CLI name.
const Binary = "notify-send"

// Send shows a desktop notification. Failures are logged and swallowed;
// generation must not depend on a notifier being installed.
func Send(ctx context.Context, exec system.CommandExecutor, summary, body string) {
	if exec == nil {
		exec = system.DefaultExecutor()
	}

	if _, err := exec.LookPath(Binary); err != nil {
		logging.Debug("notifier not available", "error", err)
		return
	}

	if _, err := exec.Run(ctx, Binary, "--app-name", "fplaunchwrapper", summary, body); err != nil {
		logging.Debug("notification failed", "error", err)
	}
}
