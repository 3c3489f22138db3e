// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package databasesview

import (
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/bureau-foundation/dbpick/lib/categorytree"
	"github.com/bureau-foundation/dbpick/lib/checkstate"
	"github.com/bureau-foundation/dbpick/lib/resource"
	"github.com/bureau-foundation/dbpick/lib/selection"
)

// Status is the loading state of the resource collection.
type Status int

const (
	// StatusOK means the collection holds resources and no fetch is
	// in flight.
	StatusOK Status = iota

	// StatusEmpty means the collection holds no resources.
	StatusEmpty

	// StatusLoading means a fetch is in flight.
	StatusLoading
)

// String returns the status name for logs and the status bar.
func (status Status) String() string {
	switch status {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	default:
		return "ok"
	}
}

// Frame is everything a renderer needs to draw the picker.
type Frame struct {
	Tree         *categorytree.Tree
	Status       Status
	EmptyMessage string
}

// Renderer is the surface a View draws on. RenderTree lays out the
// tree and returns a handle for every checkbox it produced; the view
// then drives those handles through the [checkstate.Controls] methods.
type Renderer interface {
	checkstate.Controls
	RenderTree(frame Frame) checkstate.Inputs
}

// DelayedSelection computes a default selection the first time the
// collection is non-empty: at construction when resources are already
// loaded, otherwise on the first load. It runs only while nothing else
// is selected.
type DelayedSelection func(resources []resource.Resource) []resource.Identifier

// Options configures a [View].
type Options struct {
	// Databases is the resource collection. Required.
	Databases *resource.Collection

	// Selected, when set, is kept equal to the materialized selection.
	// Edits made to it by other code are read back into the view.
	Selected *resource.Collection

	Categories          []categorytree.Category
	TopLevelDisplayName string
	TopLevelClassName   string
	EmptyMessage        string

	// ForceSelection prevents the user from emptying the selection:
	// implicit-all is materialized to an explicit list and the last
	// checked boxes are disabled.
	ForceSelection bool

	// CurrentSelection is the initial explicit selection. Takes
	// precedence over Selected.
	CurrentSelection []resource.Identifier

	DelayedSelection DelayedSelection

	TextFilter *categorytree.TextFilter

	// VisibleResourcesCallback receives the resources visible in the
	// tree after each filter text change.
	VisibleResourcesCallback func([]resource.Resource)

	Renderer Renderer

	// Logger receives debug-level lifecycle records. Nil discards.
	Logger *slog.Logger
}

// View is the picker controller. See the package documentation.
type View struct {
	databases *resource.Collection
	selected  *resource.Collection
	identity  resource.Identity

	categories          []categorytree.Category
	topLevelDisplayName string
	topLevelClassName   string
	emptyMessage        string
	forceSelection      bool

	delayedSelection DelayedSelection
	delayedDone      bool

	textFilter      *categorytree.TextFilter
	visibleCallback func([]resource.Resource)

	renderer Renderer
	logger   *slog.Logger

	selection  *selection.State
	status     Status
	tree       *categorytree.Tree
	generation uint64

	rendered bool
	inputs   checkstate.Inputs
	states   checkstate.Result

	// syncing is true while the view writes to the external
	// collection, so its own events are not read back.
	syncing bool

	lastDelivered   fingerprint
	changeListeners map[int]func([]resource.Identifier)
	changeOrder     []int
	nextListenerID  int

	cancels []func()
	closed  bool
}

// New creates a view, computes the initial selection and tree, and
// starts listening to its collaborators. Nothing is drawn until
// [View.Render].
func New(options Options) *View {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	view := &View{
		databases:           options.Databases,
		selected:            options.Selected,
		identity:            options.Databases.Identity(),
		categories:          options.Categories,
		topLevelDisplayName: options.TopLevelDisplayName,
		topLevelClassName:   options.TopLevelClassName,
		emptyMessage:        options.EmptyMessage,
		forceSelection:      options.ForceSelection,
		delayedSelection:    options.DelayedSelection,
		textFilter:          options.TextFilter,
		visibleCallback:     options.VisibleResourcesCallback,
		renderer:            options.Renderer,
		logger:              logger.With("view", uuid.NewString()),
		changeListeners:     make(map[int]func([]resource.Identifier)),
	}

	view.selection = view.initialSelection(options.CurrentSelection)
	view.status = view.computeStatus()
	if !view.databases.IsEmpty() {
		view.delayedDone = true
	}
	view.rebuild()

	view.cancels = append(view.cancels, view.databases.Listen(view.handleDatabasesEvent))
	if view.selected != nil {
		view.cancels = append(view.cancels, view.selected.Listen(view.handleSelectedEvent))
	}
	if view.textFilter != nil {
		view.cancels = append(view.cancels, view.textFilter.Listen(view.handleTextChange))
	}

	view.lastDelivered = fingerprintOf(view.identity, view.Selection())
	view.syncSelected()

	view.logger.Debug("databases view created",
		"resources", view.databases.Len(),
		"selection", view.selection.Kind().String(),
		"status", view.status.String(),
	)
	return view
}

// initialSelection picks, in order: the explicit initial selection,
// the external collection (full means everything), the delayed
// selection when resources are already loaded and nothing else was
// given, then implicit-all. Force-selection materializes implicit-all.
func (view *View) initialSelection(current []resource.Identifier) *selection.State {
	state := selection.New(view.identity)
	external := view.selected != nil && !view.selected.IsEmpty()
	switch {
	case len(current) > 0:
		state.Set(current)
	case external && !view.coversDatabases(view.selected.Identifiers()):
		state.Set(view.selected.Identifiers())
	case !external && view.delayedSelection != nil && !view.databases.IsEmpty():
		state.Set(view.delayedSelection(view.databases.Resources()))
	}
	if view.forceSelection && state.IsImplicitAll() {
		state.Set(view.databases.Identifiers())
	}
	return state
}

// enforceSelection materializes implicit-all under force-selection.
func (view *View) enforceSelection() {
	if view.forceSelection && view.selection.IsImplicitAll() {
		view.selection.Set(view.databases.Identifiers())
	}
}

func (view *View) computeStatus() Status {
	switch {
	case view.databases.Pending():
		return StatusLoading
	case view.databases.IsEmpty():
		return StatusEmpty
	default:
		return StatusOK
	}
}

// rebuild replaces the tree with a new generation over the current
// collection. The previous tree's views are detached.
func (view *View) rebuild() {
	if view.tree != nil {
		view.tree.Detach()
	}
	view.generation++
	text := ""
	if view.textFilter != nil {
		text = view.textFilter.Text()
	}
	view.tree = categorytree.Build(categorytree.BuildOptions{
		Collection:          view.databases,
		Categories:          view.categories,
		Selection:           view.selection.Explicit(),
		Text:                text,
		TopLevelDisplayName: view.topLevelDisplayName,
		TopLevelClassName:   view.topLevelClassName,
		Generation:          view.generation,
	})
}

// Render draws the whole tree and applies checkbox states. Later
// rebuilds redraw automatically once Render has been called.
func (view *View) Render() {
	view.rendered = true
	view.redraw()
}

func (view *View) redraw() {
	if !view.rendered || view.renderer == nil {
		view.updateCheckedOptions()
		return
	}
	view.inputs = view.renderer.RenderTree(Frame{
		Tree:         view.tree,
		Status:       view.status,
		EmptyMessage: view.emptyMessage,
	})
	view.updateCheckedOptions()
}

// updateCheckedOptions re-derives every checkbox state from the
// explicit selection and pushes it to the renderer.
func (view *View) updateCheckedOptions() {
	deriver := checkstate.Deriver{Identity: view.identity, ForceSelection: view.forceSelection}
	view.states = deriver.Derive(view.tree, view.selection.Explicit())
	if view.rendered && view.renderer != nil {
		checkstate.Apply(view.states, view.identity, view.renderer, view.inputs)
	}
}

// SelectResource checks or unchecks a single resource.
func (view *View) SelectResource(identifier resource.Identifier, checked bool) {
	view.selection.Select(identifier, checked)
	view.enforceSelection()
	view.updateCheckedOptions()
	view.triggerChange()
}

// SelectCategory checks or unchecks every resource currently visible
// under the named category. Unknown names change nothing.
func (view *View) SelectCategory(name string, checked bool) {
	members := categorytree.Members(categorytree.FindNode(view.tree.Root, name), view.identity)
	view.selection.SelectMany(members, checked)
	view.enforceSelection()
	view.updateCheckedOptions()
	view.triggerChange()
}

// SelectAll explicitly selects every visible resource. Does nothing
// when the selection is implicit-all or already covers the whole
// collection.
func (view *View) SelectAll() {
	if view.selection.IsImplicitAll() || view.selection.Len() == view.databases.Len() {
		return
	}
	view.SelectCategory(categorytree.RootName, true)
}

// Selection returns the materialized selection: the explicit list, or
// every identifier in the collection when nothing is chosen.
func (view *View) Selection() []resource.Identifier {
	return view.selection.Materialize(view.databases.Identifiers())
}

// Explicit returns the explicit selection, nil for implicit-all.
func (view *View) Explicit() []resource.Identifier {
	return view.selection.Explicit()
}

// SetSelection replaces the selection wholesale.
func (view *View) SetSelection(identifiers []resource.Identifier) {
	view.selection.Set(identifiers)
	view.enforceSelection()
	view.updateCheckedOptions()
	view.triggerChange()
}

// Status returns the current loading state.
func (view *View) Status() Status {
	return view.status
}

// Tree returns the current tree generation.
func (view *View) Tree() *categorytree.Tree {
	return view.tree
}

// States returns the checkbox states from the last derivation.
func (view *View) States() checkstate.Result {
	return view.states
}

// Identity returns the identity policy of the collection.
func (view *View) Identity() resource.Identity {
	return view.identity
}

// ForceSelection reports whether the view forbids an empty selection.
func (view *View) ForceSelection() bool {
	return view.forceSelection
}

// OnChange registers a listener for selection changes and returns a
// function that removes it.
func (view *View) OnChange(listener func([]resource.Identifier)) (cancel func()) {
	id := view.nextListenerID
	view.nextListenerID++
	view.changeListeners[id] = listener
	view.changeOrder = append(view.changeOrder, id)
	return func() {
		delete(view.changeListeners, id)
		view.changeOrder = slices.DeleteFunc(slices.Clone(view.changeOrder), func(candidate int) bool {
			return candidate == id
		})
	}
}

// Close stops listening to every collaborator and detaches the tree.
// The view must not be used afterwards.
func (view *View) Close() {
	if view.closed {
		return
	}
	view.closed = true
	for _, cancel := range view.cancels {
		cancel()
	}
	view.cancels = nil
	if view.tree != nil {
		view.tree.Detach()
	}
	view.logger.Debug("databases view closed")
}

// triggerChange syncs the external collection and notifies listeners
// if the materialized selection differs from the last one delivered.
func (view *View) triggerChange() {
	current := view.Selection()
	view.syncSelected()

	digest := fingerprintOf(view.identity, current)
	if digest == view.lastDelivered {
		return
	}
	view.lastDelivered = digest

	view.logger.Debug("selection changed",
		"kind", view.selection.Kind().String(),
		"count", len(current),
	)
	for _, id := range view.changeOrder {
		listener, exists := view.changeListeners[id]
		if !exists {
			continue
		}
		listener(current)
	}
}

// syncSelected makes the external collection hold the materialized
// selection.
func (view *View) syncSelected() {
	if view.selected == nil {
		return
	}
	current := view.Selection()
	resources := make([]resource.Resource, len(current))
	for index, identifier := range current {
		if found, exists := view.databases.Find(identifier); exists {
			resources[index] = found
		} else {
			resources[index] = identifier.Resource()
		}
	}
	view.syncing = true
	view.selected.Set(resources)
	view.syncing = false
}

func (view *View) handleDatabasesEvent(event resource.Event) {
	switch event.Kind {
	case resource.EventRequest:
		view.status = StatusLoading
		view.logger.Debug("databases requested")
		view.redraw()

	case resource.EventReset, resource.EventUpdate:
		view.handleDatabasesChanged(event.Kind)

	case resource.EventRemove:
		if view.selection.Remove(view.identity.Of(event.Resource)) {
			view.enforceSelection()
			view.updateCheckedOptions()
			view.triggerChange()
		}
	}
}

// handleDatabasesChanged reconciles the selection with the new
// membership, rebuilds the tree and redraws.
func (view *View) handleDatabasesChanged(kind resource.EventKind) {
	view.status = view.computeStatus()

	pruned := view.selection.Prune(view.databases.Contains)

	if !view.delayedDone && !view.databases.IsEmpty() {
		view.delayedDone = true
		if view.delayedSelection != nil && view.selection.IsImplicitAll() {
			view.selection.Set(view.delayedSelection(view.databases.Resources()))
		}
	}

	view.enforceSelection()

	view.rebuild()
	view.redraw()

	view.logger.Debug("databases changed",
		"event", string(kind),
		"resources", view.databases.Len(),
		"generation", view.generation,
		"pruned", pruned,
		"status", view.status.String(),
	)

	view.triggerChange()
}

// handleSelectedEvent reads an external edit of the selected
// collection back into the selection.
func (view *View) handleSelectedEvent(event resource.Event) {
	if view.syncing {
		return
	}
	if event.Kind != resource.EventReset && event.Kind != resource.EventUpdate {
		return
	}

	external := view.selected.Identifiers()
	full := view.coversDatabases(external)
	if full && view.selection.IsImplicitAll() {
		return
	}
	if view.selection.SameMembers(external) {
		return
	}

	if full && !view.forceSelection {
		view.selection.Set(nil)
	} else {
		view.selection.Set(external)
	}
	view.enforceSelection()
	view.logger.Debug("selection read from external collection", "count", len(external))

	view.updateCheckedOptions()
	view.triggerChange()
}

// coversDatabases reports whether identifiers name every resource in
// the collection and nothing else.
func (view *View) coversDatabases(identifiers []resource.Identifier) bool {
	unique := view.identity.Unique(identifiers)
	if len(unique) != view.databases.Len() {
		return false
	}
	for _, identifier := range unique {
		if !view.databases.Contains(identifier) {
			return false
		}
	}
	return true
}

// handleTextChange refilters the current tree without rebuilding it.
func (view *View) handleTextChange(text string) {
	view.tree.Refilter(text)
	view.redraw()
	if view.visibleCallback != nil {
		view.visibleCallback(categorytree.VisibleResources(view.tree.Root, view.identity))
	}
}
