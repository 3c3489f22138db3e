// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package categorytree

import "github.com/bureau-foundation/dbpick/lib/resource"

// Predicate decides whether a resource belongs to a category. A nil
// Predicate matches everything.
type Predicate func(resource.Resource) bool

// FilteredView is the cached subset of a collection matching a
// category predicate and the current filter text. The subset is
// recomputed only by [FilteredView.Refilter]; reads return the cached
// list.
type FilteredView struct {
	collection *resource.Collection
	predicate  Predicate
	text       string
	resources  []resource.Resource
	detached   bool
}

// NewFilteredView creates a view over collection and computes its
// initial contents for text.
func NewFilteredView(collection *resource.Collection, predicate Predicate, text string) *FilteredView {
	view := &FilteredView{collection: collection, predicate: predicate}
	view.Refilter(text)
	return view
}

// Refilter recomputes the view's contents for text. Does nothing on a
// detached view.
func (view *FilteredView) Refilter(text string) {
	if view.detached {
		return
	}
	view.text = text
	view.resources = view.collection.Filter(func(candidate resource.Resource) bool {
		if view.predicate != nil && !view.predicate(candidate) {
			return false
		}
		return Matches(candidate, text)
	})
}

// Text returns the filter text the view was last computed for.
func (view *FilteredView) Text() string {
	return view.text
}

// Resources returns a copy of the matching resources.
func (view *FilteredView) Resources() []resource.Resource {
	result := make([]resource.Resource, len(view.resources))
	copy(result, view.resources)
	return result
}

// Len returns the number of matching resources.
func (view *FilteredView) Len() int {
	return len(view.resources)
}

// Identifiers returns the identifiers of the matching resources.
func (view *FilteredView) Identifiers() []resource.Identifier {
	identity := view.collection.Identity()
	result := make([]resource.Identifier, len(view.resources))
	for index, member := range view.resources {
		result[index] = identity.Of(member)
	}
	return result
}

// Detach freezes the view. Later Refilter calls are ignored; the last
// contents remain readable.
func (view *FilteredView) Detach() {
	view.detached = true
}

// Detached reports whether the view was detached.
func (view *FilteredView) Detached() bool {
	return view.detached
}
