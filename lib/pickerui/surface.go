// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pickerui

import (
	"github.com/bureau-foundation/dbpick/lib/categorytree"
	"github.com/bureau-foundation/dbpick/lib/checkstate"
	"github.com/bureau-foundation/dbpick/lib/databasesview"
	"github.com/bureau-foundation/dbpick/lib/resource"
)

// checkbox is the state of one rendered checkbox. Pointers to
// checkboxes are the handles the picker view drives.
type checkbox struct {
	checked       bool
	disabled      bool
	indeterminate bool
}

// rowKind distinguishes the lines of the list.
type rowKind int

const (
	rowCategory rowKind = iota
	rowResource
	rowMessage
)

// row is one line of the list.
type row struct {
	kind  rowKind
	depth int
	label string

	// Category rows.
	name      string
	collapsed bool
	leaf      bool

	// Resource rows.
	resource   resource.Resource
	identifier resource.Identifier

	// positions are the rune offsets of the filter match within label.
	positions []int

	box *checkbox
}

// Surface is the render target of a [databasesview.View]. It lays the
// category tree out as indented rows and holds the checkbox state the
// view pushes through the [checkstate.Controls] methods.
//
// A category starts folded when the tree marks it Collapse. Folding
// and unfolding by the user overrides that for every later generation
// of the tree.
type Surface struct {
	identity resource.Identity

	rows       []row
	generation uint64
	status     databasesview.Status

	// folded records user overrides by category name.
	folded map[string]bool

	// filterText is the text the rows were laid out with, for match
	// highlighting.
	filterText string

	// visible is the number of resources the last filter pass left
	// visible. Set by the view's visible-resources callback.
	visible int
}

// NewSurface creates an empty surface for resources identified by
// identity.
func NewSurface(identity resource.Identity) *Surface {
	return &Surface{
		identity: identity,
		folded:   make(map[string]bool),
	}
}

// Check implements checkstate.Controls.
func (surface *Surface) Check(handle checkstate.Handle) { handle.(*checkbox).checked = true }

// Uncheck implements checkstate.Controls.
func (surface *Surface) Uncheck(handle checkstate.Handle) {
	box := handle.(*checkbox)
	box.checked = false
	box.indeterminate = false
}

// Enable implements checkstate.Controls.
func (surface *Surface) Enable(handle checkstate.Handle) { handle.(*checkbox).disabled = false }

// Disable implements checkstate.Controls.
func (surface *Surface) Disable(handle checkstate.Handle) { handle.(*checkbox).disabled = true }

// Determinate implements checkstate.Controls.
func (surface *Surface) Determinate(handle checkstate.Handle) {
	handle.(*checkbox).indeterminate = false
}

// Indeterminate implements checkstate.Controls.
func (surface *Surface) Indeterminate(handle checkstate.Handle) {
	box := handle.(*checkbox)
	box.checked = false
	box.indeterminate = true
}

// RenderTree implements databasesview.Renderer. While the collection
// is loading or empty the surface shows a single message row instead
// of the tree.
func (surface *Surface) RenderTree(frame databasesview.Frame) checkstate.Inputs {
	surface.rows = nil
	surface.status = frame.Status

	switch {
	case frame.Status == databasesview.StatusLoading:
		surface.rows = append(surface.rows, row{kind: rowMessage, label: "Loading…"})
		return checkstate.Inputs{}
	case frame.Status == databasesview.StatusEmpty || frame.Tree == nil:
		surface.rows = append(surface.rows, row{kind: rowMessage, label: frame.EmptyMessage})
		return checkstate.Inputs{}
	}

	surface.generation = frame.Tree.Generation
	surface.filterText = ""
	if leaves := frame.Tree.Leaves(); len(leaves) > 0 {
		surface.filterText = leaves[0].View.Text()
	}

	var inputs checkstate.Inputs
	surface.layout(frame.Tree.Root, 0, &inputs)
	return inputs
}

// layout appends rows for node and, unless it is folded, everything
// under it. Categories with nothing visible under the current filter
// text are skipped, except the root.
func (surface *Surface) layout(node *categorytree.Node, depth int, inputs *checkstate.Inputs) {
	if node.Parent != nil && surface.filterText != "" && len(categorytree.Members(node, surface.identity)) == 0 {
		return
	}

	folded := surface.isFolded(node)
	categoryRow := row{
		kind:      rowCategory,
		depth:     depth,
		label:     categoryLabel(node),
		name:      node.Name,
		collapsed: folded,
		leaf:      node.IsLeaf(),
		box:       &checkbox{},
	}
	surface.rows = append(surface.rows, categoryRow)
	inputs.Categories = append(inputs.Categories, checkstate.CategoryInput{Handle: categoryRow.box, Name: node.Name})

	if folded {
		return
	}

	if node.IsLeaf() {
		for _, member := range node.View.Resources() {
			_, positions := categorytree.MatchText(member, surface.filterText)
			resourceRow := row{
				kind:       rowResource,
				depth:      depth + 1,
				label:      member.Label(),
				resource:   member,
				identifier: surface.identity.Of(member),
				positions:  positions,
				box:        &checkbox{},
			}
			surface.rows = append(surface.rows, resourceRow)
			inputs.Resources = append(inputs.Resources, checkstate.ResourceInput{Handle: resourceRow.box, Identifier: resourceRow.identifier})
		}
		return
	}

	for _, child := range node.Children {
		surface.layout(child, depth+1, inputs)
	}
}

func categoryLabel(node *categorytree.Node) string {
	if node.DisplayName != "" {
		return node.DisplayName
	}
	return node.Name
}

// isFolded applies the user's override for node, falling back to the
// tree's initial collapse state. The root never folds.
func (surface *Surface) isFolded(node *categorytree.Node) bool {
	if node.Parent == nil {
		return false
	}
	if folded, overridden := surface.folded[node.Name]; overridden {
		return folded
	}
	return node.Collapse
}

// SetFolded records a fold override for the named category. The
// change shows on the next render.
func (surface *Surface) SetFolded(name string, folded bool) {
	surface.folded[name] = folded
}

// SetVisible records how many resources the filter left visible.
func (surface *Surface) SetVisible(resources []resource.Resource) {
	surface.visible = len(resources)
}

// Generation returns the tree generation last laid out.
func (surface *Surface) Generation() uint64 {
	return surface.generation
}

// parentIndex returns the index of the nearest category row above
// index with a smaller depth, or -1.
func (surface *Surface) parentIndex(index int) int {
	depth := surface.rows[index].depth
	for candidate := index - 1; candidate >= 0; candidate-- {
		if surface.rows[candidate].kind == rowCategory && surface.rows[candidate].depth < depth {
			return candidate
		}
	}
	return -1
}
