// Package tui provides terminal user interface components for
// fplaunchwrapper.
//
// This package uses the Bubble Tea framework to create interactive
// terminal interfaces, primarily the wrapper picker behind the pick verb.
//
// # Wrapper Picker
//
// The picker lists the generated wrappers with their launch preference and
// lets the user act on one:
//
//	result, err := tui.RunPicker(wrappers)
//	switch result.Action {
//	case tui.ActionInfo:
//	    // Show details for result.Wrapper
//	case tui.ActionSetSystem, tui.ActionSetFlatpak:
//	    // Record the launch preference for result.Wrapper
//	case tui.ActionQuit:
//	    // Exit
//	}
//
// # Picker Features
//
//   - Lists wrappers with application id and current preference
//   - Keyboard navigation (j/k or arrows) and filtering (/)
//   - Quick actions: Enter (info), s (prefer system), f (prefer flatpak),
//     q (quit)
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
