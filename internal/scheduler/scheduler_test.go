package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
)

const generateCommand = "/usr/local/bin/fplaunchwrapper generate /home/user/bin"

func newTestScheduler(t *testing.T) (*Scheduler, *system.MockFS, *system.MockExecutor) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", "/home/user/.config")
	fs := system.NewMockFS()
	exec := system.NewMockExecutor()
	return New(fs, exec, generateCommand, false), fs, exec
}

func TestUnitTexts(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	service := s.serviceText()
	if !strings.Contains(service, "Type=oneshot") {
		t.Error("service unit is not oneshot")
	}
	if !strings.Contains(service, "ExecStart="+generateCommand) {
		t.Error("service unit missing ExecStart")
	}

	path := s.pathText([]string{"/var/lib/flatpak/exports", "/home/user/.local/share/flatpak/exports"})
	if !strings.Contains(path, "PathChanged=/var/lib/flatpak/exports") ||
		!strings.Contains(path, "PathChanged=/home/user/.local/share/flatpak/exports") {
		t.Error("path unit missing watch directories")
	}
	if !strings.Contains(path, "Unit="+ServiceUnit) {
		t.Error("path unit does not reference the service")
	}

	timer := s.timerText()
	if !strings.Contains(timer, "OnCalendar=daily") || !strings.Contains(timer, "Persistent=true") {
		t.Error("timer unit missing schedule")
	}
	if strings.Contains(timer, "[Service]") {
		t.Error("timer unit must not contain a service section")
	}
	for _, section := range []string{"[Unit]", "[Timer]", "[Install]"} {
		if !strings.Contains(timer, section) {
			t.Errorf("timer unit missing %s", section)
		}
	}
}

func TestInstallUnits(t *testing.T) {
	s, fs, exec := newTestScheduler(t)
	exec.AddPath(SystemctlBinary, "/usr/bin/systemctl")

	if err := s.InstallUnits(context.Background(), []string{"/var/lib/flatpak/exports"}); err != nil {
		t.Fatalf("InstallUnits: %v", err)
	}

	unitDir := "/home/user/.config/systemd/user"
	for _, unit := range UnitNames() {
		if _, ok := fs.GetFile(unitDir + "/" + unit); !ok {
			t.Errorf("unit %s not written", unit)
		}
	}

	cmds := exec.CommandStrings()
	want := []string{
		"systemctl --user daemon-reload",
		"systemctl --user enable --now " + PathUnit,
		"systemctl --user enable --now " + TimerUnit,
	}
	if len(cmds) != len(want) {
		t.Fatalf("commands = %v", cmds)
	}
	for i, w := range want {
		if cmds[i] != w {
			t.Errorf("command[%d] = %q, want %q", i, cmds[i], w)
		}
	}
}

func TestInstallUnits_Emit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/home/user/.config")
	fs := system.NewMockFS()
	exec := system.NewMockExecutor()
	s := New(fs, exec, generateCommand, true)

	if err := s.InstallUnits(context.Background(), []string{"/var/lib/flatpak/exports"}); err != nil {
		t.Fatalf("InstallUnits: %v", err)
	}
	if _, ok := fs.GetFile("/home/user/.config/systemd/user/" + ServiceUnit); ok {
		t.Error("emit mode wrote a unit file")
	}
	if _, ok := exec.LastCommand(); ok {
		t.Error("emit mode ran systemctl")
	}
}

func TestSetup_FallsBackToCrontab(t *testing.T) {
	s, _, exec := newTestScheduler(t)
	// systemctl absent entirely.
	exec.AddPath(CrontabBinary, "/usr/bin/crontab")
	exec.Responses["crontab -l"] = system.MockResponse{Stderr: []byte("no crontab for user"), ExitCode: 1}

	if err := s.Setup(context.Background(), []string{"/var/lib/flatpak/exports"}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	cmds := exec.CommandStrings()
	last := cmds[len(cmds)-1]
	if !strings.HasPrefix(last, "crontab ") || strings.HasSuffix(last, " -l") {
		t.Errorf("expected a crontab install, got %v", cmds)
	}
}

func TestSetup_NothingAvailable(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	err := s.Setup(context.Background(), nil)
	if errors.KindOf(err) != errors.KindPlatformUnavailable {
		t.Errorf("err = %v, want platform unavailable", err)
	}
}

func TestInstallCrontab_Idempotent(t *testing.T) {
	s, _, exec := newTestScheduler(t)
	exec.AddPath(CrontabBinary, "/usr/bin/crontab")
	exec.Responses["crontab -l"] = system.MockResponse{
		Stdout: []byte("# existing\n" + s.CronEntry() + "\n"),
	}

	if err := s.InstallCrontab(context.Background()); err != nil {
		t.Fatalf("InstallCrontab: %v", err)
	}

	// Only the read should have run; no staged file, no install.
	cmds := exec.CommandStrings()
	if len(cmds) != 1 || cmds[0] != "crontab -l" {
		t.Errorf("commands = %v", cmds)
	}
}

func TestInstallCrontab_AppendsPreservingExisting(t *testing.T) {
	s, fs, exec := newTestScheduler(t)
	exec.AddPath(CrontabBinary, "/usr/bin/crontab")
	exec.Responses["crontab -l"] = system.MockResponse{Stdout: []byte("0 0 * * * /usr/bin/backup\n")}
	// Keep the staged file around so its content can be inspected.
	fs.RemoveErr = errTestPinned

	if err := s.InstallCrontab(context.Background()); err != nil {
		t.Fatalf("InstallCrontab: %v", err)
	}

	cmds := exec.CommandStrings()
	if len(cmds) != 2 {
		t.Fatalf("commands = %v", cmds)
	}
	staged := strings.TrimPrefix(cmds[1], "crontab ")
	content, ok := fs.GetFile(staged)
	if !ok {
		t.Fatalf("staged crontab %s not found", staged)
	}
	text := string(content)
	if !strings.Contains(text, "/usr/bin/backup") || !strings.Contains(text, s.CronEntry()) {
		t.Errorf("staged crontab = %q", text)
	}
}

var errTestPinned = errors.New(errors.KindIO, "pinned for inspection")

func TestRemoveCrontab(t *testing.T) {
	s, _, exec := newTestScheduler(t)
	exec.AddPath(CrontabBinary, "/usr/bin/crontab")
	exec.Responses["crontab -l"] = system.MockResponse{
		Stdout: []byte("0 0 * * * /usr/bin/backup\n" + s.CronEntry() + "\n"),
	}

	if err := s.RemoveCrontab(context.Background()); err != nil {
		t.Fatalf("RemoveCrontab: %v", err)
	}
	cmds := exec.CommandStrings()
	if len(cmds) != 2 || !strings.HasPrefix(cmds[1], "crontab ") {
		t.Errorf("commands = %v", cmds)
	}
}

func TestStatus_RequiresSystemctl(t *testing.T) {
	s, _, _ := newTestScheduler(t)

	err := s.Status(context.Background())
	if errors.KindOf(err) != errors.KindPlatformUnavailable {
		t.Errorf("err = %v, want platform unavailable", err)
	}
}
