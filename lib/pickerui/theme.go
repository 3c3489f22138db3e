// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pickerui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette of the picker. All colors are ANSI
// 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Cursor row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Checkbox glyph colors per state. Disabled boxes use FaintText.
	Checked       lipgloss.Color
	Unchecked     lipgloss.Color
	Indeterminate lipgloss.Color

	// Category rows.
	CategoryForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Filter match highlighting.
	MatchBackground lipgloss.Color

	// Status bar log notices.
	WarningForeground lipgloss.Color
	ErrorForeground   lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Checked:       lipgloss.Color("114"), // green
	Unchecked:     lipgloss.Color("245"), // gray
	Indeterminate: lipgloss.Color("220"), // amber

	CategoryForeground: lipgloss.Color("75"), // blue

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	MatchBackground: lipgloss.Color("58"), // dark amber

	WarningForeground: lipgloss.Color("220"),
	ErrorForeground:   lipgloss.Color("196"),
}
