// Package tui provides the interactive wrapper picker.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/fplaunchwrapper/internal/manager"
	"github.com/dtg01100/fplaunchwrapper/internal/store"
)

// Action represents what the user chose to do with the selected wrapper.
type Action int

const (
	ActionNone Action = iota
	ActionInfo
	ActionSetSystem
	ActionSetFlatpak
	ActionQuit
)

// PickerResult holds the picker outcome.
type PickerResult struct {
	Action  Action
	Wrapper manager.Wrapper
}

// wrapperItem implements list.Item for wrapper display.
type wrapperItem struct {
	wrapper manager.Wrapper
}

func (i wrapperItem) Title() string {
	return i.wrapper.Name
}

func (i wrapperItem) Description() string {
	icon := "○"
	switch i.wrapper.Preference {
	case store.PrefSystem:
		icon = "⌂"
	case store.PrefFlatpak:
		icon = "▣"
	}
	return fmt.Sprintf("%s %s | preference: %s", icon, i.wrapper.ID, i.wrapper.Preference)
}

func (i wrapperItem) FilterValue() string {
	return i.wrapper.Name + " " + i.wrapper.ID
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the wrapper picker.
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a picker over the generated wrappers.
func NewPicker(wrappers []manager.Wrapper) Model {
	items := make([]list.Item, len(wrappers))
	for i, w := range wrappers {
		items[i] = wrapperItem{wrapper: w}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "fplaunchwrapper - Select Wrapper"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(wrapperItem); ok {
				m.result = PickerResult{Action: ActionInfo, Wrapper: item.wrapper}
				m.quitting = true
				return m, tea.Quit
			}

		case "s":
			if item, ok := m.list.SelectedItem().(wrapperItem); ok {
				m.result = PickerResult{Action: ActionSetSystem, Wrapper: item.wrapper}
				m.quitting = true
				return m, tea.Quit
			}

		case "f":
			if item, ok := m.list.SelectedItem().(wrapperItem); ok {
				m.result = PickerResult{Action: ActionSetFlatpak, Wrapper: item.wrapper}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Info  [s] Prefer system  [f] Prefer flatpak  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result.
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive wrapper picker.
func RunPicker(wrappers []manager.Wrapper) (PickerResult, error) {
	if len(wrappers) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(wrappers)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimpleList is the non-interactive rendering used when stdout is not a
// terminal.
func SimpleList(wrappers []manager.Wrapper) string {
	var sb strings.Builder

	sb.WriteString("fplaunchwrapper - Wrappers\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(wrappers) == 0 {
		sb.WriteString("No wrappers found.\n")
		sb.WriteString("Generate them with: fplaunchwrapper generate <bin-dir>\n")
		return sb.String()
	}

	for i, w := range wrappers {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, w.Name, w.ID))
		sb.WriteString(fmt.Sprintf("   Preference: %s\n\n", w.Preference))
	}

	return sb.String()
}
