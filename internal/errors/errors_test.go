package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestWrapperError_Error(t *testing.T) {
	err := New(KindInvalidInput, "bad token")
	if err.Error() != "bad token" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad token")
	}

	wrapped := Wrap(KindIO, "write blocklist", fs.ErrPermission)
	if !strings.Contains(wrapped.Error(), "write blocklist") {
		t.Errorf("Error() = %q, missing message", wrapped.Error())
	}
	if !strings.Contains(wrapped.Error(), fs.ErrPermission.Error()) {
		t.Errorf("Error() = %q, missing cause", wrapped.Error())
	}
}

func TestWrapperError_Unwrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := Wrap(KindIO, "read preference", cause)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"platform unavailable", PlatformUnavailable(nil), ExitFailure},
		{"busy", Busy("/tmp/.lock.generate"), ExitFailure},
		{"name collision", NameCollision("firefox", "org.other.App"), ExitFailure},
		{"invalid input", InvalidInput("preference must be system or flatpak"), ExitUsage},
		{"io", IOFailed("rename", fs.ErrPermission), ExitFailure},
		{"cycle", CycleOrDepth("browser"), ExitFailure},
		{"interrupted", Interrupted(), ExitInterrupted},
		{"plain error", errors.New("boom"), ExitFailure},
		{"wrapped deeper", fmt.Errorf("outer: %w", InvalidInput("bad")), ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(Busy("x")); got != KindBusy {
		t.Errorf("KindOf(Busy) = %v, want KindBusy", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want KindUnknown", got)
	}
	if got := KindOf(fmt.Errorf("wrap: %w", CycleOrDepth("a"))); got != KindCycleOrDepth {
		t.Errorf("KindOf(wrapped) = %v, want KindCycleOrDepth", got)
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindPlatformUnavailable: "platform-unavailable",
		KindBusy:                "busy",
		KindNameCollision:       "name-collision",
		KindBlocklisted:         "blocklisted",
		KindInvalidInput:        "invalid-input",
		KindIO:                  "io",
		KindHookFailed:          "hook-failed",
		KindCycleOrDepth:        "cycle-or-depth",
		KindInterrupted:         "interrupted",
		KindUnknown:             "unknown",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
