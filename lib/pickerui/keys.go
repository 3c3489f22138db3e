// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pickerui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the picker.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Collapse key.Binding // Fold a category, or move to its parent.
	Expand   key.Binding // Unfold a category.

	Toggle    key.Binding // Check or uncheck the row under the cursor.
	SelectAll key.Binding

	FilterActivate key.Binding
	FilterClear    key.Binding

	Accept key.Binding // Print the selection and exit.
	Quit   key.Binding // Exit without printing.
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k, h/l) alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Expand: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "accept"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpBindings lists the bindings shown in the status bar, in order.
func (keys KeyMap) helpBindings() []key.Binding {
	return []key.Binding{keys.Toggle, keys.SelectAll, keys.Expand, keys.Collapse, keys.FilterActivate, keys.Accept, keys.Quit}
}
