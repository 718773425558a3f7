// Package tui provides terminal user interface components for sketch-ctl.
//
// This package uses the Bubble Tea framework for the interactive sketch
// picker behind `sketch-ctl pick`.
//
// # Sketch Picker
//
// The picker lists the catalog and acts on the selected sketch through a
// Controller, normally a *sketch.Manager that lives for the whole session:
//
//	err := tui.RunPicker(ctx, manager)
//
// # Picker Features
//
//   - Keyboard navigation (j/k or arrows) and filtering by name
//   - Quick actions: Enter (run), s (stop), d (delete), r (refresh), q (quit)
//   - Transient compiling/stopped states while an action is in flight
//   - Color-coded status indicators
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
