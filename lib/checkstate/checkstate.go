// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package checkstate derives the visual state of every checkbox in a
// category tree from the current selection, and drives a render
// surface through six primitive operations.
//
// [Deriver.Derive] walks the tree post-order. A leaf gathers the
// identifiers in its filtered view; a branch gathers the union of its
// children. The node is checked when every gathered identifier is
// selected, indeterminate when some are, and unchecked when none are
// or when it has no visible members. Under force-selection a checked
// node whose members make up the entire selection is disabled, since
// unchecking it would leave nothing selected. A resource checkbox is
// the one-member case of the same rule.
//
// [Apply] pushes a [Result] to a surface: every input is first reset
// to unchecked, enabled and determinate, then set to its derived
// state, so nothing from a previous pass survives.
package checkstate

import (
	"github.com/bureau-foundation/dbpick/lib/categorytree"
	"github.com/bureau-foundation/dbpick/lib/resource"
)

// Check is the tri-state value of a checkbox.
type Check int

const (
	Unchecked Check = iota
	Checked
	Indeterminate
)

// String returns the check value's name.
func (check Check) String() string {
	switch check {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// State is the derived visual state of one checkbox.
type State struct {
	Check    Check
	Disabled bool
}

// Result holds the derived state of every category and resource
// checkbox for one pass. Resources are keyed by identity key.
type Result struct {
	Categories map[string]State
	Resources  map[string]State
}

// Category returns the state of the named category. Unknown names
// report the reset state.
func (result Result) Category(name string) State {
	return result.Categories[name]
}

// Resource returns the state of a resource checkbox by identity key.
func (result Result) Resource(key string) State {
	return result.Resources[key]
}

// Deriver computes checkbox states.
type Deriver struct {
	Identity       resource.Identity
	ForceSelection bool
}

// Derive computes the state of every node of tree and every resource
// visible in it, testing membership against selection. selection is
// the explicit selection: implicit-all passes an empty list, which
// renders every box unchecked.
func (deriver Deriver) Derive(tree *categorytree.Tree, selection []resource.Identifier) Result {
	result := Result{
		Categories: make(map[string]State),
		Resources:  make(map[string]State),
	}
	if tree == nil || tree.Root == nil {
		return result
	}

	selected := deriver.Identity.KeySet(selection)

	categorytree.Walk(tree.Root, func(node *categorytree.Node) {
		if !node.IsLeaf() {
			return
		}
		for _, identifier := range node.View.Identifiers() {
			key := deriver.Identity.Key(identifier)
			state := State{}
			if _, isSelected := selected[key]; isSelected {
				state.Check = Checked
				state.Disabled = deriver.ForceSelection && len(selection) == 1
			}
			result.Resources[key] = state
		}
	})

	deriver.deriveCategory(tree.Root, selected, len(selection), result)
	return result
}

// deriveCategory records the state of node and returns the identity
// keys gathered beneath it so the parent can build its own set.
func (deriver Deriver) deriveCategory(node *categorytree.Node, selected map[string]struct{}, selectionSize int, result Result) []string {
	var gathered []string
	if node.IsLeaf() {
		for _, identifier := range node.View.Identifiers() {
			gathered = append(gathered, deriver.Identity.Key(identifier))
		}
	} else {
		for _, child := range node.Children {
			gathered = append(gathered, deriver.deriveCategory(child, selected, selectionSize, result)...)
		}
	}
	gathered = uniqueKeys(gathered)

	anySelected, anyUnselected := false, false
	for _, key := range gathered {
		if _, isSelected := selected[key]; isSelected {
			anySelected = true
		} else {
			anyUnselected = true
		}
	}

	state := State{}
	switch {
	case anySelected && anyUnselected:
		state.Check = Indeterminate
	case anySelected:
		state.Check = Checked
		state.Disabled = deriver.ForceSelection && selectionSize == len(gathered)
	}
	result.Categories[node.Name] = state

	return gathered
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	unique := keys[:0:0]
	for _, key := range keys {
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	return unique
}
