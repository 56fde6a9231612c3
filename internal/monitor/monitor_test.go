package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/dtg01100/fplaunchwrapper/internal/generator"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
	"github.com/dtg01100/fplaunchwrapper/internal/testutil"
)

func newTestMonitor(t *testing.T, installed []string, regen RegenerateFunc) (*Monitor, *system.MockExecutor) {
	t.Helper()
	env := testutil.NewTestEnv(t)
	env.InstallApps(installed...)
	return New(time.Minute, env.Platform(), env.Exec, regen), env.Exec
}

func TestMonitor_New(t *testing.T) {
	m, _ := newTestMonitor(t, nil, nil)
	if m.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", m.interval)
	}
	if m.notifyOnFailure {
		t.Error("notifyOnFailure should default to false")
	}
}

func TestMonitor_Options(t *testing.T) {
	env := testutil.NewTestEnv(t)
	m := New(time.Minute, env.Platform(), env.Exec, nil, WithFailureNotification(true))
	if !m.notifyOnFailure {
		t.Error("WithFailureNotification(true) not applied")
	}
}

func TestCheckOnce_RegeneratesOnFirstPoll(t *testing.T) {
	var calls int
	var got []string
	m, _ := newTestMonitor(t, []string{"org.mozilla.firefox", "org.gimp.GIMP"},
		func(ctx context.Context, installed []string) (generator.Summary, error) {
			calls++
			got = installed
			return generator.Summary{Created: 2}, nil
		})

	m.checkOnce(context.Background())
	if calls != 1 {
		t.Fatalf("regenerate calls = %d, want 1", calls)
	}
	if len(got) != 2 {
		t.Errorf("installed = %v", got)
	}
}

func TestCheckOnce_SkipsUnchangedSet(t *testing.T) {
	var calls int
	m, _ := newTestMonitor(t, []string{"org.mozilla.firefox"},
		func(ctx context.Context, installed []string) (generator.Summary, error) {
			calls++
			return generator.Summary{}, nil
		})

	ctx := context.Background()
	m.checkOnce(ctx)
	m.checkOnce(ctx)
	if calls != 1 {
		t.Errorf("regenerate calls = %d, want 1 for an unchanged set", calls)
	}
}

func TestCheckOnce_RegeneratesAfterChange(t *testing.T) {
	var calls int
	m, exec := newTestMonitor(t, []string{"org.mozilla.firefox"},
		func(ctx context.Context, installed []string) (generator.Summary, error) {
			calls++
			return generator.Summary{}, nil
		})

	ctx := context.Background()
	m.checkOnce(ctx)
	exec.Responses["flatpak list"] = system.MockResponse{
		Stdout: []byte("org.mozilla.firefox\norg.gimp.GIMP\n"),
	}
	m.checkOnce(ctx)
	if calls != 2 {
		t.Errorf("regenerate calls = %d, want 2 after the set changed", calls)
	}
}

func TestCheckOnce_FailedRegenerationRetriesNextPoll(t *testing.T) {
	var calls int
	m, _ := newTestMonitor(t, []string{"org.mozilla.firefox"},
		func(ctx context.Context, installed []string) (generator.Summary, error) {
			calls++
			if calls == 1 {
				return generator.Summary{}, context.DeadlineExceeded
			}
			return generator.Summary{}, nil
		})

	ctx := context.Background()
	m.checkOnce(ctx)
	// The fingerprint must not stick after a failure, so the next poll
	// tries again even though the set is unchanged.
	m.checkOnce(ctx)
	if calls != 2 {
		t.Errorf("regenerate calls = %d, want a retry after failure", calls)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	m, _ := newTestMonitor(t, nil,
		func(ctx context.Context, installed []string) (generator.Summary, error) {
			return generator.Summary{}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
