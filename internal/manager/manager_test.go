package manager

import (
	"testing"

	"github.com/dtg01100/fplaunchwrapper/internal/errors"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
	"github.com/dtg01100/fplaunchwrapper/internal/system"
	"github.com/dtg01100/fplaunchwrapper/internal/testutil"
)

const binDir = testutil.DefaultBinDir

func newTestManager(t *testing.T) (*Manager, *store.Store, *system.MockFS) {
	t.Helper()
	env := testutil.NewTestEnv(t)
	return New(env.Store, env.FS, false), env.Store, env.FS
}

func addWrapper(fs *system.MockFS, name, id string) {
	fs.AddFile(binDir+"/"+name, testutil.WrapperScript(name, id), 0755)
}

func TestPreference_SetThenGet(t *testing.T) {
	m, _, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")

	if err := m.SetPreference("firefox", store.PrefSystem); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	pref, err := m.GetPreference("firefox")
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	if pref != store.PrefSystem {
		t.Errorf("preference = %q, want system", pref)
	}
}

func TestPreference_NoneWhenAbsent(t *testing.T) {
	m, _, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")

	pref, err := m.GetPreference("firefox")
	if err != nil {
		t.Fatalf("GetPreference: %v", err)
	}
	if pref != "none" {
		t.Errorf("preference = %q, want none", pref)
	}
}

func TestPreference_InvalidToken(t *testing.T) {
	m, _, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")

	err := m.SetPreference("firefox", "native")
	if errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestPreference_ResolvesAlias(t *testing.T) {
	m, st, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")
	if err := st.SetAlias("browser", "firefox"); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}

	if err := m.SetPreference("browser", store.PrefFlatpak); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	// The preference lands on the real wrapper, not the alias.
	pref, _ := st.Preference("firefox")
	if pref != store.PrefFlatpak {
		t.Errorf("firefox preference = %q, want flatpak", pref)
	}
	if p, _ := st.Preference("browser"); p != "" {
		t.Errorf("alias got its own preference file: %q", p)
	}
}

func TestCreateAlias_ValidatesTarget(t *testing.T) {
	m, _, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")

	if err := m.CreateAlias("browser", "firefox", true); err != nil {
		t.Fatalf("CreateAlias: %v", err)
	}
	err := m.CreateAlias("ghost", "nothing", true)
	if errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("err = %v, want invalid input for missing target", err)
	}
	// Without validation the missing target is allowed.
	if err := m.CreateAlias("ghost", "nothing", false); err != nil {
		t.Errorf("CreateAlias without validation: %v", err)
	}
}

func TestRemoveWrapper_Cascade(t *testing.T) {
	m, st, fs := newTestManager(t)
	addWrapper(fs, "chrome", "com.google.Chrome")
	if err := st.SetPreference("chrome", store.PrefFlatpak); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if err := st.SetEnvVar("chrome", "LANG", "C"); err != nil {
		t.Fatalf("SetEnvVar: %v", err)
	}
	if err := st.SetAlias("browser", "chrome"); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}

	if err := m.RemoveWrapper("chrome", false); err != nil {
		t.Fatalf("RemoveWrapper: %v", err)
	}

	if fs.Exists(binDir + "/chrome") {
		t.Error("wrapper file still present")
	}
	if fs.Exists(st.PrefPath("chrome")) || fs.Exists(st.EnvPath("chrome")) {
		t.Error("wrapper state not cascaded")
	}
	aliases, _ := st.Aliases()
	if _, ok := aliases["browser"]; ok {
		t.Error("alias targeting removed wrapper survived")
	}
}

func TestRemoveWrapper_ForeignNeedsForce(t *testing.T) {
	m, _, fs := newTestManager(t)
	fs.AddFile(binDir+"/backup", []byte("#!/bin/sh\n"), 0755)

	err := m.RemoveWrapper("backup", false)
	if errors.KindOf(err) != errors.KindInvalidInput {
		t.Fatalf("err = %v, want invalid input without force", err)
	}
	if err := m.RemoveWrapper("backup", true); err != nil {
		t.Fatalf("RemoveWrapper force: %v", err)
	}
	if fs.Exists(binDir + "/backup") {
		t.Error("forced removal left the file")
	}
}

func TestListAndSearch(t *testing.T) {
	m, st, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")
	addWrapper(fs, "gimp", "org.gimp.GIMP")
	fs.AddFile(binDir+"/notes.txt", []byte("not a wrapper\n"), 0644)
	if err := st.SetPreference("gimp", store.PrefSystem); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}

	all, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].Name != "firefox" || all[1].Name != "gimp" {
		t.Fatalf("List = %+v", all)
	}
	if all[0].Preference != "none" || all[1].Preference != "system" {
		t.Errorf("preferences = %q, %q", all[0].Preference, all[1].Preference)
	}

	hits, err := m.Search("mozilla")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "firefox" {
		t.Errorf("Search(mozilla) = %+v", hits)
	}
}

func TestInfo(t *testing.T) {
	m, st, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")
	if err := st.SetEnvVar("firefox", "MOZ_ENABLE_WAYLAND", "1"); err != nil {
		t.Fatalf("SetEnvVar: %v", err)
	}
	if err := st.SetAlias("browser", "firefox"); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}

	d, err := m.Info("firefox")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if d.ID != "org.mozilla.firefox" || d.Preference != "none" {
		t.Errorf("detail = %+v", d)
	}
	if d.Env["MOZ_ENABLE_WAYLAND"] != "1" {
		t.Errorf("env = %v", d.Env)
	}
	if len(d.Aliases) != 1 || d.Aliases[0] != "browser" {
		t.Errorf("aliases = %v", d.Aliases)
	}
	if d.PreHook || d.PostHook {
		t.Error("no hooks were installed")
	}

	if _, err := m.Info("nothing"); errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("Info(nothing) err = %v, want invalid input", err)
	}
}

func TestEmitMode_TouchesNothing(t *testing.T) {
	_, st, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")
	m := New(st, fs, true)

	if err := m.SetPreference("firefox", store.PrefSystem); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if err := m.CreateAlias("browser", "firefox", true); err != nil {
		t.Fatalf("CreateAlias: %v", err)
	}
	if err := m.Block("org.gimp.GIMP"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if err := m.RemoveWrapper("firefox", false); err != nil {
		t.Fatalf("RemoveWrapper: %v", err)
	}

	if pref, _ := st.Preference("firefox"); pref != "" {
		t.Error("emit mode wrote a preference")
	}
	if aliases, _ := st.Aliases(); len(aliases) != 0 {
		t.Error("emit mode wrote an alias")
	}
	if ids, _ := st.Blocklist(); len(ids) != 0 {
		t.Error("emit mode wrote the blocklist")
	}
	if !fs.Exists(binDir + "/firefox") {
		t.Error("emit mode removed the wrapper")
	}
}

func TestHookScripts(t *testing.T) {
	m, st, fs := newTestManager(t)
	addWrapper(fs, "firefox", "org.mozilla.firefox")
	fs.AddFile("/home/user/pre.sh", []byte("#!/bin/sh\nexit 0\n"), 0644)

	if err := m.SetPreScript("firefox", "/home/user/pre.sh"); err != nil {
		t.Fatalf("SetPreScript: %v", err)
	}
	if !st.HasScript("firefox", store.PreScriptName) {
		t.Error("pre-launch hook not installed")
	}
	if err := m.RemovePreScript("firefox"); err != nil {
		t.Fatalf("RemovePreScript: %v", err)
	}
	if st.HasScript("firefox", store.PreScriptName) {
		t.Error("pre-launch hook not removed")
	}

	err := m.SetPostScript("firefox", "/does/not/exist")
	if errors.KindOf(err) != errors.KindInvalidInput {
		t.Errorf("err = %v, want invalid input for missing source", err)
	}
}
