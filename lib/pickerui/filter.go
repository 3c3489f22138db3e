// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pickerui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/dbpick/lib/categorytree"
)

// FilterInput is the filter bar. Every edit is published to a
// [categorytree.TextFilter], which the picker view listens to.
type FilterInput struct {
	// Input is the current filter text.
	Input string

	// Active is true while the filter bar has keyboard focus.
	Active bool

	source *categorytree.TextFilter
}

// NewFilterInput creates a filter bar publishing to source.
func NewFilterInput(source *categorytree.TextFilter) FilterInput {
	return FilterInput{Input: source.Text(), source: source}
}

// HandleRune appends a typed character.
func (filter *FilterInput) HandleRune(character rune) {
	filter.Input += string(character)
	filter.publish()
}

// HandleBackspace removes the last character. Reports whether the
// input changed.
func (filter *FilterInput) HandleBackspace() bool {
	if filter.Input == "" {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	filter.publish()
	return true
}

// Clear empties the input and releases focus.
func (filter *FilterInput) Clear() {
	filter.Input = ""
	filter.Active = false
	filter.publish()
}

func (filter *FilterInput) publish() {
	if filter.source != nil {
		filter.source.Set(filter.Input)
	}
}

// View renders the filter bar: the input with a cursor while active,
// a dim reminder while inactive with text, nothing otherwise.
func (filter *FilterInput) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Width(width).
			Render(" / " + filter.Input + cursor)
	}

	return lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width).
		Render(" filter: " + filter.Input)
}
