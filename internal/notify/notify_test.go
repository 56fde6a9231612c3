package notify

import (
	"context"
	"testing"

	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

func TestSend(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddPath(Binary, "/usr/bin/notify-send")

	Send(context.Background(), exec, "Generation failed", "flatpak is not available")

	cmd, ok := exec.LastCommand()
	if !ok || cmd.Name != Binary {
		t.Fatalf("LastCommand = %+v, %v", cmd, ok)
	}
	if cmd.Args[len(cmd.Args)-2] != "Generation failed" {
		t.Errorf("args = %v", cmd.Args)
	}
}

func TestSend_NotifierAbsent(t *testing.T) {
	exec := system.NewMockExecutor()

	// Must not panic or error; nothing is executed.
	Send(context.Background(), exec, "x", "y")

	if _, ok := exec.LastCommand(); ok {
		t.Error("no command should run when the notifier is absent")
	}
}
