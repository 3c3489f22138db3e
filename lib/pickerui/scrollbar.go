// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pickerui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderScrollbar produces a one-column scrollbar of the given height.
// The thumb marks the visible window within totalRows. When everything
// fits the column is left blank.
func renderScrollbar(theme Theme, height, totalRows, visibleRows, scrollOffset int) string {
	if height <= 0 {
		return ""
	}

	lines := make([]string, height)
	if totalRows <= visibleRows {
		for index := range lines {
			lines[index] = " "
		}
		return strings.Join(lines, "\n")
	}

	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(theme.FaintText)

	thumbSize := max(height*visibleRows/totalRows, 1)
	thumbOffset := 0
	if scrollableRange, trackRange := totalRows-visibleRows, height-thumbSize; trackRange > 0 {
		thumbOffset = scrollOffset * trackRange / scrollableRange
	}
	thumbOffset = min(thumbOffset, height-thumbSize)

	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}
