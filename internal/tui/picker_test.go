package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/fplaunchwrapper/internal/manager"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
)

func sampleWrappers() []manager.Wrapper {
	return []manager.Wrapper{
		{Name: "firefox", ID: "org.mozilla.firefox", Preference: store.PrefSystem},
		{Name: "gimp", ID: "org.gimp.GIMP", Preference: "none"},
	}
}

func TestWrapperItemMethods(t *testing.T) {
	item := wrapperItem{wrapper: manager.Wrapper{
		Name:       "firefox",
		ID:         "org.mozilla.firefox",
		Preference: store.PrefFlatpak,
	}}

	t.Run("Title", func(t *testing.T) {
		if got := item.Title(); got != "firefox" {
			t.Errorf("Title() = %q, want %q", got, "firefox")
		}
	})

	t.Run("Description", func(t *testing.T) {
		desc := item.Description()
		if !strings.Contains(desc, "org.mozilla.firefox") || !strings.Contains(desc, "flatpak") {
			t.Errorf("Description() = %q", desc)
		}
	})

	t.Run("FilterValue", func(t *testing.T) {
		fv := item.FilterValue()
		if !strings.Contains(fv, "firefox") || !strings.Contains(fv, "org.mozilla.firefox") {
			t.Errorf("FilterValue() = %q", fv)
		}
	})
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_KeyActions(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{"s", ActionSetSystem},
		{"f", ActionSetFlatpak},
		{"q", ActionQuit},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := NewPicker(sampleWrappers())
			updated, _ := m.Update(keyMsg(tt.key))
			result := updated.(Model).Result()
			if result.Action != tt.want {
				t.Errorf("key %q action = %v, want %v", tt.key, result.Action, tt.want)
			}
			if tt.want != ActionQuit && result.Wrapper.Name != "firefox" {
				t.Errorf("key %q wrapper = %q, want the selected firefox", tt.key, result.Wrapper.Name)
			}
		})
	}
}

func TestPicker_EnterShowsInfo(t *testing.T) {
	m := NewPicker(sampleWrappers())
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result := updated.(Model).Result()
	if result.Action != ActionInfo || result.Wrapper.Name != "firefox" {
		t.Errorf("result = %+v", result)
	}
}

func TestPicker_WindowResize(t *testing.T) {
	m := NewPicker(sampleWrappers())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(Model)
	if got.width != 120 || got.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", got.width, got.height)
	}
}

func TestSimpleList(t *testing.T) {
	out := SimpleList(sampleWrappers())
	for _, want := range []string{"firefox", "org.mozilla.firefox", "gimp", "Preference: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	empty := SimpleList(nil)
	if !strings.Contains(empty, "No wrappers found") {
		t.Errorf("empty output = %q", empty)
	}
}
