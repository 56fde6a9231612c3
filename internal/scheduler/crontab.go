package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/logging"
)

// CrontabBinary is the periodic-job editor used when systemd is absent.
const CrontabBinary = "crontab"

// cronSchedule runs the generator every six hours.
const cronSchedule = "0 */6 * * *"

// CronEntry returns the crontab line for the generator command.
func (s *Scheduler) CronEntry() string {
	return cronSchedule + " " + s.command
}

// currentCrontab reads the user's crontab. An empty crontab is not an
// error; crontab -l exits non-zero with "no crontab" on stderr.
func (s *Scheduler) currentCrontab(ctx context.Context) (string, error) {
	res, err := s.exec.Run(ctx, CrontabBinary, "-l")
	if err != nil {
		return "", errors.IOFailed("run crontab -l", err)
	}
	if res.ExitCode != 0 {
		if strings.Contains(string(res.Stderr), "no crontab") {
			return "", nil
		}
		return "", errors.New(errors.KindIO,
			fmt.Sprintf("crontab -l failed: %s", strings.TrimSpace(string(res.Stderr))))
	}
	return string(res.Stdout), nil
}

// writeCrontab replaces the user's crontab with content. The editor only
// accepts a file or stdin; a staged temp file keeps the executor boundary
// simple.
func (s *Scheduler) writeCrontab(ctx context.Context, content string) error {
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf(".fplaunchwrapper-cron.%d", os.Getpid()))
	if err := s.fs.WriteFile(tmp, []byte(content), 0600); err != nil {
		return errors.IOFailed("stage crontab", err)
	}
	defer s.fs.Remove(tmp)

	res, err := s.exec.Run(ctx, CrontabBinary, tmp)
	if err != nil {
		return errors.IOFailed("run crontab", err)
	}
	if res.ExitCode != 0 {
		return errors.New(errors.KindIO,
			fmt.Sprintf("installing crontab failed: %s", strings.TrimSpace(string(res.Stderr))))
	}
	return nil
}

// InstallCrontab adds the six-hourly generator entry. Insertion is
// idempotent: an existing line containing the command is left alone.
func (s *Scheduler) InstallCrontab(ctx context.Context) error {
	if _, err := s.exec.LookPath(CrontabBinary); err != nil {
		return errors.New(errors.KindPlatformUnavailable, "crontab is not available")
	}

	current, err := s.currentCrontab(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(current, s.command) {
		logging.Debug("crontab entry already present")
		return nil
	}

	if s.emit {
		logging.UserInfo("[emit] would add crontab entry: %s", s.CronEntry())
		return nil
	}

	updated := current
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += s.CronEntry() + "\n"
	if err := s.writeCrontab(ctx, updated); err != nil {
		return err
	}
	logging.UserInfo("crontab entry installed: %s", s.CronEntry())
	return nil
}

// RemoveCrontab deletes every crontab line containing the generator
// command. Idempotent; a missing editor is not an error here because
// there is then nothing to remove.
func (s *Scheduler) RemoveCrontab(ctx context.Context) error {
	if _, err := s.exec.LookPath(CrontabBinary); err != nil {
		return nil
	}

	current, err := s.currentCrontab(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(current, s.command) {
		return nil
	}

	if s.emit {
		logging.UserInfo("[emit] would remove crontab entry: %s", s.CronEntry())
		return nil
	}

	var kept []string
	for _, line := range strings.Split(current, "\n") {
		if strings.Contains(line, s.command) {
			continue
		}
		kept = append(kept, line)
	}
	return s.writeCrontab(ctx, strings.TrimRight(strings.Join(kept, "\n"), "\n")+"\n")
}

// HasCrontabEntry reports whether the generator entry is installed.
func (s *Scheduler) HasCrontabEntry(ctx context.Context) (bool, error) {
	if _, err := s.exec.LookPath(CrontabBinary); err != nil {
		return false, nil
	}
	current, err := s.currentCrontab(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(current, s.command), nil
}
