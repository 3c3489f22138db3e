// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pickerui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/dbpick/lib/catalog"
	"github.com/bureau-foundation/dbpick/lib/categorytree"
	"github.com/bureau-foundation/dbpick/lib/databasesview"
	"github.com/bureau-foundation/dbpick/lib/resource"
)

// catalogEventMsg wraps a catalog watcher event for delivery through
// the bubbletea message loop.
type catalogEventMsg struct {
	event catalog.Event
}

// Options configures [NewModel].
type Options struct {
	// View configures the picker view. View.Databases is required.
	// Renderer is always replaced by the model's surface; TextFilter
	// is created when nil; VisibleResourcesCallback is wrapped.
	View databasesview.Options

	// CatalogEvents, when set, is drained by the event loop and
	// applied to View.Databases with [catalog.Apply].
	CatalogEvents <-chan catalog.Event

	// Title is shown at the left of the header line.
	Title string
}

// Model is the bubbletea model of the picker. The collection, the view
// and the surface are mutated only from Update, which keeps the
// picker single-threaded.
type Model struct {
	picker    *databasesview.View
	surface   *Surface
	databases *resource.Collection

	filter FilterInput
	theme  Theme
	keys   KeyMap
	title  string

	cursor       int
	scrollOffset int
	width        int
	height       int
	ready        bool

	accepted bool

	catalogEvents <-chan catalog.Event

	notice         string
	noticeLevel    slog.Level
	noticeSequence int
}

// NewModel creates the picker view over options.View.Databases and
// draws it onto a fresh surface.
func NewModel(options Options) Model {
	viewOptions := options.View
	identity := viewOptions.Databases.Identity()
	surface := NewSurface(identity)

	if viewOptions.TextFilter == nil {
		viewOptions.TextFilter = categorytree.NewTextFilter()
	}
	viewOptions.Renderer = surface
	outer := viewOptions.VisibleResourcesCallback
	viewOptions.VisibleResourcesCallback = func(visible []resource.Resource) {
		surface.SetVisible(visible)
		if outer != nil {
			outer(visible)
		}
	}

	picker := databasesview.New(viewOptions)
	picker.Render()
	surface.SetVisible(categorytree.VisibleResources(picker.Tree().Root, identity))

	title := options.Title
	if title == "" {
		title = "Databases"
	}

	return Model{
		picker:        picker,
		surface:       surface,
		databases:     viewOptions.Databases,
		filter:        NewFilterInput(viewOptions.TextFilter),
		theme:         DefaultTheme,
		keys:          DefaultKeyMap,
		title:         title,
		catalogEvents: options.CatalogEvents,
	}
}

// Picker returns the underlying view.
func (model Model) Picker() *databasesview.View {
	return model.picker
}

// Accepted reports whether the user confirmed the selection rather than
// quitting.
func (model Model) Accepted() bool {
	return model.accepted
}

// Close releases the view's listeners.
func (model Model) Close() {
	model.picker.Close()
}

// Init implements tea.Model. Starts listening for catalog events when
// a channel was provided.
func (model Model) Init() tea.Cmd {
	if model.catalogEvents == nil {
		return nil
	}
	return listenForCatalogEvent(model.catalogEvents)
}

// listenForCatalogEvent blocks until the watcher delivers an event.
// Returns nil once the channel is closed, which ends the listening.
func listenForCatalogEvent(channel <-chan catalog.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-channel
		if !ok {
			return nil
		}
		return catalogEventMsg{event: event}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.filter.Active {
			return model.handleFilterKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.Accept):
			model.accepted = true
			return model, tea.Quit

		case key.Matches(message, model.keys.FilterActivate):
			model.filter.Active = true
			model.cursor = 0
			model.scrollOffset = 0

		case key.Matches(message, model.keys.FilterClear):
			if model.filter.Input != "" {
				model.filter.Clear()
				model.clampCursor()
			}

		case key.Matches(message, model.keys.Toggle):
			model.toggleCurrent()

		case key.Matches(message, model.keys.SelectAll):
			model.picker.SelectAll()

		case key.Matches(message, model.keys.Collapse):
			model.collapseOrGoToParent()

		case key.Matches(message, model.keys.Expand):
			model.expand()

		default:
			model.handleListKeys(message)
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.clampCursor()

	case catalogEventMsg:
		catalog.Apply(model.databases, message.event)
		model.surface.SetVisible(categorytree.VisibleResources(model.picker.Tree().Root, model.picker.Identity()))
		model.clampCursor()
		return model, listenForCatalogEvent(model.catalogEvents)

	case logNoticeMsg:
		model.noticeSequence++
		model.notice = message.summary
		model.noticeLevel = message.level
		sequence := model.noticeSequence
		return model, tea.Tick(logNoticeFadeDelay, func(time.Time) tea.Msg {
			return logNoticeFadeMsg{sequence: sequence}
		})

	case logNoticeFadeMsg:
		if message.sequence == model.noticeSequence {
			model.notice = ""
		}
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.FilterClear):
		// Esc with text clears it; Esc on an empty bar leaves filter mode.
		if model.filter.Input != "" {
			model.filter.Clear()
		} else {
			model.filter.Active = false
		}

	case message.Type == tea.KeyEnter:
		model.filter.Active = false

	case message.Type == tea.KeyBackspace:
		model.filter.HandleBackspace()

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
	}
	model.clampCursor()
	return model, nil
}

func (model *Model) handleListKeys(message tea.KeyMsg) {
	page := max(model.listHeight()-1, 1)
	switch {
	case key.Matches(message, model.keys.Up):
		model.cursor--
	case key.Matches(message, model.keys.Down):
		model.cursor++
	case key.Matches(message, model.keys.PageUp):
		model.cursor -= page
	case key.Matches(message, model.keys.PageDown):
		model.cursor += page
	case key.Matches(message, model.keys.Home):
		model.cursor = 0
	case key.Matches(message, model.keys.End):
		model.cursor = len(model.surface.rows) - 1
	}
	model.clampCursor()
}

// currentRow returns the row under the cursor, or nil when the list is
// empty.
func (model *Model) currentRow() *row {
	if model.cursor < 0 || model.cursor >= len(model.surface.rows) {
		return nil
	}
	return &model.surface.rows[model.cursor]
}

// toggleCurrent flips the checkbox under the cursor. Indeterminate
// categories become checked. Disabled boxes and message rows ignore
// the key.
func (model *Model) toggleCurrent() {
	current := model.currentRow()
	if current == nil || current.box == nil || current.box.disabled {
		return
	}
	checked := !current.box.checked
	switch current.kind {
	case rowCategory:
		model.picker.SelectCategory(current.name, checked)
	case rowResource:
		model.picker.SelectResource(current.identifier, checked)
	}
}

// collapseOrGoToParent folds the category under the cursor, or moves
// to the enclosing category when the cursor is on a resource or an
// already folded category.
func (model *Model) collapseOrGoToParent() {
	current := model.currentRow()
	if current == nil {
		return
	}
	if current.kind == rowCategory && !current.collapsed && current.depth > 0 {
		model.surface.SetFolded(current.name, true)
		model.picker.Render()
		model.clampCursor()
		return
	}
	if parent := model.surface.parentIndex(model.cursor); parent >= 0 {
		model.cursor = parent
		model.clampCursor()
	}
}

// expand unfolds the category under the cursor.
func (model *Model) expand() {
	current := model.currentRow()
	if current == nil || current.kind != rowCategory || !current.collapsed {
		return
	}
	model.surface.SetFolded(current.name, false)
	model.picker.Render()
	model.clampCursor()
}

func (model *Model) clampCursor() {
	count := len(model.surface.rows)
	model.cursor = max(min(model.cursor, count-1), 0)

	height := model.listHeight()
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+height {
		model.scrollOffset = model.cursor - height + 1
	}
	model.scrollOffset = max(min(model.scrollOffset, count-height), 0)
}

// listHeight is the number of list rows that fit between the header,
// the optional filter bar and the status bar. Before the first window
// size arrives every row fits.
func (model Model) listHeight() int {
	if model.height <= 0 {
		return max(len(model.surface.rows), 1)
	}
	chrome := 2
	if model.filter.Active || model.filter.Input != "" {
		chrome++
	}
	return max(model.height-chrome, 1)
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return ""
	}

	parts := []string{model.renderHeader()}
	if filterBar := model.filter.View(model.theme, model.width); filterBar != "" {
		parts = append(parts, filterBar)
	}
	parts = append(parts, model.renderList(), model.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (model Model) renderHeader() string {
	var summary string
	switch model.picker.Status() {
	case databasesview.StatusLoading:
		summary = "loading…"
	case databasesview.StatusEmpty:
		summary = "no resources"
	default:
		total := model.databases.Len()
		if explicit := model.picker.Explicit(); explicit == nil {
			summary = fmt.Sprintf("all %d selected", total)
		} else {
			summary = fmt.Sprintf("%d of %d selected", len(explicit), total)
		}
		if model.filter.Input != "" {
			summary += fmt.Sprintf(" · %d shown", model.surface.visible)
		}
	}

	title := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).Render(" " + model.title)
	detail := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("  " + summary)
	return ansi.Truncate(title+detail, model.width, "…")
}

func (model Model) renderList() string {
	height := model.listHeight()
	rowWidth := max(model.width-1, 1)

	lines := make([]string, 0, height)
	for index := model.scrollOffset; index < len(model.surface.rows) && len(lines) < height; index++ {
		lines = append(lines, model.renderRow(model.surface.rows[index], index == model.cursor, rowWidth))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	list := lipgloss.NewStyle().Width(rowWidth).Render(strings.Join(lines, "\n"))
	scrollbar := renderScrollbar(model.theme, height, len(model.surface.rows), height, model.scrollOffset)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, scrollbar)
}

func (model Model) renderRow(current row, selected bool, width int) string {
	theme := model.theme
	indent := strings.Repeat("  ", current.depth)

	var line string
	switch current.kind {
	case rowMessage:
		line = lipgloss.NewStyle().Foreground(theme.FaintText).Italic(true).Render(" " + current.label)

	case rowCategory:
		marker := "▾ "
		if current.collapsed {
			marker = "▸ "
		}
		label := lipgloss.NewStyle().Foreground(theme.CategoryForeground).Bold(true).Render(current.label)
		line = " " + indent + marker + model.renderCheckbox(current.box) + " " + label

	case rowResource:
		label := highlightPositions(current.label, current.positions,
			lipgloss.NewStyle().Foreground(theme.NormalText),
			lipgloss.NewStyle().Foreground(theme.NormalText).Background(theme.MatchBackground))
		line = " " + indent + "  " + model.renderCheckbox(current.box) + " " + label
		if current.resource.Domain != "" {
			line += lipgloss.NewStyle().Foreground(theme.FaintText).Render("  " + current.resource.Domain)
		}
	}

	line = ansi.Truncate(line, width, "…")
	if selected {
		line = lipgloss.NewStyle().
			Background(theme.SelectedBackground).
			Foreground(theme.SelectedForeground).
			Width(width).
			Render(line)
	}
	return line
}

func (model Model) renderCheckbox(box *checkbox) string {
	theme := model.theme
	glyph, color := "[ ]", theme.Unchecked
	switch {
	case box.indeterminate:
		glyph, color = "[-]", theme.Indeterminate
	case box.checked:
		glyph, color = "[x]", theme.Checked
	}
	if box.disabled {
		color = theme.FaintText
	}
	return lipgloss.NewStyle().Foreground(color).Render(glyph)
}

// highlightPositions renders text with the runes at positions in match
// style and the rest in plain style. Positions must be sorted.
func highlightPositions(text string, positions []int, plain, match lipgloss.Style) string {
	if len(positions) == 0 {
		return plain.Render(text)
	}

	var builder strings.Builder
	var pending []rune
	pendingMatch := false
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if pendingMatch {
			builder.WriteString(match.Render(string(pending)))
		} else {
			builder.WriteString(plain.Render(string(pending)))
		}
		pending = pending[:0]
	}

	next := 0
	for index, character := range []rune(text) {
		isMatch := next < len(positions) && positions[next] == index
		if isMatch {
			next++
		}
		if isMatch != pendingMatch {
			flush()
			pendingMatch = isMatch
		}
		pending = append(pending, character)
	}
	flush()
	return builder.String()
}

func (model Model) renderStatusBar() string {
	if model.notice != "" {
		color := model.theme.WarningForeground
		if model.noticeLevel >= slog.LevelError {
			color = model.theme.ErrorForeground
		}
		return ansi.Truncate(lipgloss.NewStyle().Foreground(color).Render(" "+model.notice), model.width, "…")
	}

	var parts []string
	for _, binding := range model.keys.helpBindings() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(" " + strings.Join(parts, " · "))
	return ansi.Truncate(help, model.width, "…")
}
