package system

import (
	"context"
	"io/fs"
	"testing"
)

func TestMockFS_ReadWrite(t *testing.T) {
	m := NewMockFS()

	if err := m.WriteFile("/config/firefox.pref", []byte("system\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := m.ReadFile("/config/firefox.pref")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "system\n" {
		t.Errorf("ReadFile = %q", data)
	}

	if !m.Exists("/config/firefox.pref") {
		t.Error("Exists should be true after write")
	}
	if !m.IsDir("/config") {
		t.Error("parent directory should exist after write")
	}
}

func TestMockFS_Rename(t *testing.T) {
	m := NewMockFS()
	m.AddFile("/bin/.firefox.tmp", []byte("#!/usr/bin/env bash\n"), 0600)

	if err := m.Rename("/bin/.firefox.tmp", "/bin/firefox"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if m.Exists("/bin/.firefox.tmp") {
		t.Error("old path should be gone after rename")
	}
	if _, ok := m.GetFile("/bin/firefox"); !ok {
		t.Error("new path should exist after rename")
	}

	if err := m.Rename("/bin/missing", "/bin/x"); err == nil {
		t.Error("renaming a missing file should fail")
	}
}

func TestMockFS_Chmod(t *testing.T) {
	m := NewMockFS()
	m.AddFile("/bin/firefox", []byte("x"), 0600)

	if err := m.Chmod("/bin/firefox", 0755); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	mode, _ := m.GetMode("/bin/firefox")
	if mode != 0755 {
		t.Errorf("mode = %o, want 0755", mode)
	}
}

func TestMockFS_Symlink(t *testing.T) {
	m := NewMockFS()
	m.AddFile("/bin/firefox", []byte("wrapper"), 0755)
	m.AddSymlink("/bin/browser", "firefox")

	info, err := m.Lstat("/bin/browser")
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		t.Error("Lstat should report a symlink")
	}

	target, err := m.Readlink("/bin/browser")
	if err != nil || target != "firefox" {
		t.Errorf("Readlink = %q, %v", target, err)
	}

	info, err = m.Stat("/bin/browser")
	if err != nil {
		t.Fatalf("Stat through symlink: %v", err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		t.Error("Stat should follow the symlink")
	}
}

func TestMockFS_RemoveAll(t *testing.T) {
	m := NewMockFS()
	m.AddFile("/config/scripts/firefox/pre-launch.sh", []byte("#!/bin/sh\n"), 0755)
	m.AddFile("/config/scripts/firefox/post-run.sh", []byte("#!/bin/sh\n"), 0755)
	m.AddFile("/config/firefox.pref", []byte("system\n"), 0644)

	if err := m.RemoveAll("/config/scripts/firefox"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if m.Exists("/config/scripts/firefox/pre-launch.sh") {
		t.Error("children should be removed")
	}
	if !m.Exists("/config/firefox.pref") {
		t.Error("siblings should survive")
	}
}

func TestMockFS_ReadDir(t *testing.T) {
	m := NewMockFS()
	m.AddFile("/bin/firefox", []byte("a"), 0755)
	m.AddFile("/bin/chrome", []byte("b"), 0755)
	m.AddSymlink("/bin/browser", "firefox")
	m.AddFile("/bin/sub/deep", []byte("c"), 0644)

	entries, err := m.ReadDir("/bin")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for _, want := range []string{"firefox", "chrome", "browser", "sub"} {
		if !names[want] {
			t.Errorf("ReadDir missing %q (got %v)", want, names)
		}
	}
	if len(entries) != 4 {
		t.Errorf("ReadDir returned %d entries, want 4", len(entries))
	}
}

func TestMockExecutor_RunResponses(t *testing.T) {
	m := NewMockExecutor()
	m.AddResponse("flatpak list", []byte("org.mozilla.firefox\n"), 0, nil)

	res, err := m.Run(context.Background(), "flatpak", "list", "--user")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(res.Stdout) != "org.mozilla.firefox\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}

	cmd, ok := m.LastCommand()
	if !ok || cmd.Name != "flatpak" {
		t.Errorf("LastCommand = %+v, %v", cmd, ok)
	}
}

func TestMockExecutor_ExitCode(t *testing.T) {
	m := NewMockExecutor()
	m.AddResponse("systemctl --user", nil, 3, nil)

	res, err := m.Run(context.Background(), "systemctl", "--user", "is-active", "x.timer")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}

	if _, err := m.Output(context.Background(), "systemctl", "--user", "is-active", "x.timer"); err == nil {
		t.Error("Output should surface non-zero exit as an error")
	}
}

func TestMockExecutor_LookPath(t *testing.T) {
	m := NewMockExecutor()
	m.AddPath("flatpak", "/usr/bin/flatpak")

	path, err := m.LookPath("flatpak")
	if err != nil || path != "/usr/bin/flatpak" {
		t.Errorf("LookPath = %q, %v", path, err)
	}

	if _, err := m.LookPath("notify-send"); err == nil {
		t.Error("LookPath should fail for unregistered binaries")
	}
}

func TestMockExecutor_ReplaceProcess(t *testing.T) {
	m := NewMockExecutor()

	err := m.ReplaceProcess("flatpak", "run", "org.mozilla.firefox")
	if err == nil {
		t.Error("mock ReplaceProcess should return a sentinel error")
	}

	cmd, _ := m.LastCommand()
	if cmd.Name != "flatpak" || len(cmd.Args) != 2 {
		t.Errorf("recorded command = %+v", cmd)
	}
}
