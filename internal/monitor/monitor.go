// Package monitor provides the foreground watch loop that keeps the
// wrapper set in sync with the installed applications. It is the manual
// alternative to the systemd path unit.
package monitor

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dtg01100/fplaunchwrapper/internal/generator"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
	"github.com/dtg01100/fplaunchwrapper/internal/notify"
	"github.com/dtg01100/fplaunchwrapper/internal/platform"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

// RegenerateFunc runs one full reconciliation for the given installed set.
type RegenerateFunc func(ctx context.Context, installed []string) (generator.Summary, error)

// Monitor periodically polls the platform and regenerates wrappers when
// the installed set changes.
type Monitor struct {
	interval   time.Duration
	plat       *platform.Flatpak
	exec       system.CommandExecutor
	regenerate RegenerateFunc

	notifyOnFailure bool
	lastFingerprint string
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithFailureNotification enables desktop notifications for regeneration
// failures.
func WithFailureNotification(enabled bool) Option {
	return func(m *Monitor) {
		m.notifyOnFailure = enabled
	}
}

// New creates a Monitor.
func New(interval time.Duration, plat *platform.Flatpak, exec system.CommandExecutor, regenerate RegenerateFunc, opts ...Option) *Monitor {
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	m := &Monitor{
		interval:   interval,
		plat:       plat,
		exec:       exec,
		regenerate: regenerate,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the watch loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting wrapper monitor", "interval", m.interval)

	// Run an immediate check, then loop on interval.
	m.checkOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("wrapper monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.checkOnce(ctx)
		}
	}
}

// fingerprint is stable under listing order.
func fingerprint(installed []string) string {
	ids := append([]string(nil), installed...)
	sort.Strings(ids)
	return strings.Join(ids, "\n")
}

// checkOnce polls the installed set and regenerates if it changed since
// the previous poll. The first poll always regenerates.
func (m *Monitor) checkOnce(ctx context.Context) {
	installed, err := m.plat.ListInstalled(ctx)
	if err != nil {
		logging.Warn("monitor failed to list installed applications", "error", err)
		return
	}

	fp := fingerprint(installed)
	if m.lastFingerprint != "" && fp == m.lastFingerprint {
		logging.Debug("installed set unchanged", "count", len(installed))
		return
	}

	sum, err := m.regenerate(ctx, installed)
	if err != nil {
		logging.Error("regeneration failed", "error", err)
		if m.notifyOnFailure {
			notify.Send(ctx, m.exec, "Wrapper generation failed", err.Error())
		}
		return
	}

	m.lastFingerprint = fp
	if sum.Created > 0 || sum.Updated > 0 || sum.Removed > 0 {
		logging.UserInfo("wrappers reconciled: %d created, %d updated, %d removed",
			sum.Created, sum.Updated, sum.Removed)
	}
}
