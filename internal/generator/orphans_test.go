package generator

import (
	"context"
	"testing"
)

func TestCleanupObsolete_RemovesUninstalled(t *testing.T) {
	g, st, fs := newTestGenerator(t, false)
	ctx := context.Background()

	// Two wrappers plus per-wrapper state for the one about to vanish.
	for _, id := range []string{"org.mozilla.firefox", "com.google.Chrome"} {
		if _, err := g.GenerateOne(ctx, id); err != nil {
			t.Fatalf("GenerateOne(%s): %v", id, err)
		}
	}
	if err := st.SetEnvVar("chrome", "LANG", "C"); err != nil {
		t.Fatalf("SetEnvVar: %v", err)
	}
	if err := st.SetAlias("browser", "chrome"); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}

	// Chrome is gone from the installed set.
	removed, err := g.CleanupObsolete(ctx, []string{"org.mozilla.firefox"})
	if err != nil {
		t.Fatalf("CleanupObsolete: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	if fs.Exists(binDir + "/chrome") {
		t.Error("orphaned wrapper still present")
	}
	if !fs.Exists(binDir + "/firefox") {
		t.Error("live wrapper was removed")
	}
	if fs.Exists(st.EnvPath("chrome")) {
		t.Error("env overlay not cascaded")
	}
	aliases, err := st.Aliases()
	if err != nil {
		t.Fatalf("Aliases: %v", err)
	}
	if _, ok := aliases["browser"]; ok {
		t.Error("alias targeting removed wrapper survived")
	}
}

func TestCleanupObsolete_BlocklistedCountsAsUninstalled(t *testing.T) {
	g, st, fs := newTestGenerator(t, false)
	ctx := context.Background()

	if _, err := g.GenerateOne(ctx, "org.gimp.GIMP"); err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}
	if err := st.Block("org.gimp.GIMP"); err != nil {
		t.Fatalf("Block: %v", err)
	}

	// Still installed, but blocklisted: the wrapper must go.
	removed, err := g.CleanupObsolete(ctx, []string{"org.gimp.GIMP"})
	if err != nil {
		t.Fatalf("CleanupObsolete: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if fs.Exists(binDir + "/gimp") {
		t.Error("blocklisted wrapper still present")
	}
}

func TestCleanupObsolete_IgnoresForeignFiles(t *testing.T) {
	g, _, fs := newTestGenerator(t, false)

	fs.AddFile(binDir+"/backup.sh", []byte("#!/bin/sh\ntar czf ...\n"), 0755)
	fs.AddFile(binDir+"/notes.txt", []byte("todo\n"), 0644)

	removed, err := g.CleanupObsolete(context.Background(), nil)
	if err != nil {
		t.Fatalf("CleanupObsolete: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if !fs.Exists(binDir+"/backup.sh") || !fs.Exists(binDir+"/notes.txt") {
		t.Error("foreign file was removed")
	}
}

func TestCleanupObsolete_RemovesDanglingSymlinks(t *testing.T) {
	g, _, fs := newTestGenerator(t, false)
	ctx := context.Background()

	if _, err := g.GenerateOne(ctx, "com.google.Chrome"); err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}
	fs.AddSymlink(binDir+"/browser", "chrome")
	fs.AddSymlink(binDir+"/goog", binDir+"/chrome")
	fs.AddSymlink(binDir+"/editor", "/usr/bin/vim")

	if _, err := g.CleanupObsolete(ctx, nil); err != nil {
		t.Fatalf("CleanupObsolete: %v", err)
	}

	if fs.Exists(binDir + "/browser") {
		t.Error("relative symlink to removed wrapper survived")
	}
	if fs.Exists(binDir + "/goog") {
		t.Error("absolute symlink to removed wrapper survived")
	}
	if !fs.Exists(binDir + "/editor") {
		t.Error("unrelated symlink was removed")
	}
}

func TestCleanupObsolete_MissingBinDir(t *testing.T) {
	g, _, _ := newTestGenerator(t, false)

	removed, err := g.CleanupObsolete(context.Background(), []string{"org.mozilla.firefox"})
	if err != nil {
		t.Fatalf("CleanupObsolete: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestCleanupObsolete_EmitReportsOnly(t *testing.T) {
	g, st, fs := newTestGenerator(t, false)
	ctx := context.Background()

	if _, err := g.GenerateOne(ctx, "com.google.Chrome"); err != nil {
		t.Fatalf("GenerateOne: %v", err)
	}

	emitter := New(st, fs, binDir, true)
	removed, err := emitter.CleanupObsolete(ctx, nil)
	if err != nil {
		t.Fatalf("CleanupObsolete: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1 reported", removed)
	}
	if !fs.Exists(binDir + "/chrome") {
		t.Error("emit mode removed a wrapper")
	}
}
