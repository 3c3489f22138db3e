// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package selection holds the set of selected resources for a picker.
//
// A [State] is either implicit-all (nothing chosen explicitly, which
// means every current resource is selected) or an explicit list of
// identifiers. The explicit list never contains two identifiers with
// the same identity key. An explicit list that becomes empty collapses
// back to implicit-all, so "the user deselected everything" and
// "nothing was ever chosen" are observably the same.
//
// State does not enforce force-selection. Callers that must prevent
// an empty selection disable the inputs that would cause it, using
// [State.Len] to decide.
package selection

import "github.com/bureau-foundation/dbpick/lib/resource"

// Kind distinguishes the two shapes of a selection.
type Kind int

const (
	// ImplicitAll means every resource in the collection is selected.
	ImplicitAll Kind = iota

	// Explicit means exactly the listed identifiers are selected.
	Explicit
)

// String returns the kind's name for logs.
func (kind Kind) String() string {
	if kind == Explicit {
		return "explicit"
	}
	return "implicit-all"
}

// State is the current selection.
type State struct {
	identity    resource.Identity
	kind        Kind
	identifiers []resource.Identifier
}

// New returns an implicit-all selection.
func New(identity resource.Identity) *State {
	return &State{identity: identity}
}

// NewExplicit returns a selection of identifiers, or implicit-all if
// identifiers is empty.
func NewExplicit(identity resource.Identity, identifiers []resource.Identifier) *State {
	state := New(identity)
	state.Set(identifiers)
	return state
}

// Kind returns the current shape.
func (state *State) Kind() Kind {
	return state.kind
}

// IsImplicitAll reports whether nothing is explicitly selected.
func (state *State) IsImplicitAll() bool {
	return state.kind == ImplicitAll
}

// Len returns the number of explicitly selected identifiers. Zero for
// implicit-all.
func (state *State) Len() int {
	return len(state.identifiers)
}

// Explicit returns a copy of the explicit identifiers. Nil for
// implicit-all.
func (state *State) Explicit() []resource.Identifier {
	if state.kind == ImplicitAll {
		return nil
	}
	result := make([]resource.Identifier, len(state.identifiers))
	copy(result, state.identifiers)
	return result
}

// Contains reports whether identifier is explicitly selected.
func (state *State) Contains(identifier resource.Identifier) bool {
	key := state.identity.Key(identifier)
	for _, selected := range state.identifiers {
		if state.identity.Key(selected) == key {
			return true
		}
	}
	return false
}

// Materialize returns the explicit identifiers, or a copy of all when
// the selection is implicit-all.
func (state *State) Materialize(all []resource.Identifier) []resource.Identifier {
	if state.kind == ImplicitAll {
		result := make([]resource.Identifier, len(all))
		copy(result, all)
		return result
	}
	return state.Explicit()
}

// Set replaces the selection wholesale. Duplicates are dropped.
func (state *State) Set(identifiers []resource.Identifier) {
	state.assign(state.identity.Unique(identifiers))
}

// Select adds identifier when checked, or removes every identifier
// equal to it when not.
func (state *State) Select(identifier resource.Identifier, checked bool) {
	state.SelectMany([]resource.Identifier{identifier}, checked)
}

// SelectMany unions identifiers into the selection when checked, or
// subtracts them when not. Subtracting from implicit-all leaves it
// unchanged: there is no explicit list to remove from.
func (state *State) SelectMany(identifiers []resource.Identifier, checked bool) {
	if checked {
		combined := append(state.Explicit(), identifiers...)
		state.assign(state.identity.Unique(combined))
		return
	}

	if state.kind == ImplicitAll || len(identifiers) == 0 {
		return
	}
	removed := state.identity.KeySet(identifiers)
	kept := make([]resource.Identifier, 0, len(state.identifiers))
	for _, selected := range state.identifiers {
		if _, drop := removed[state.identity.Key(selected)]; !drop {
			kept = append(kept, selected)
		}
	}
	state.assign(kept)
}

// Remove drops a single identifier. Reports whether it was selected.
func (state *State) Remove(identifier resource.Identifier) bool {
	if !state.Contains(identifier) {
		return false
	}
	state.SelectMany([]resource.Identifier{identifier}, false)
	return true
}

// Prune drops every explicit identifier for which present returns
// false. Reports whether the selection changed.
func (state *State) Prune(present func(resource.Identifier) bool) bool {
	if state.kind == ImplicitAll {
		return false
	}
	kept := make([]resource.Identifier, 0, len(state.identifiers))
	for _, selected := range state.identifiers {
		if present(selected) {
			kept = append(kept, selected)
		}
	}
	if len(kept) == len(state.identifiers) {
		return false
	}
	state.assign(kept)
	return true
}

// Equal reports whether the explicit selection is exactly identifiers,
// in the same order. Implicit-all equals only an empty list.
func (state *State) Equal(identifiers []resource.Identifier) bool {
	if len(identifiers) != len(state.identifiers) {
		return false
	}
	for index, identifier := range identifiers {
		if !state.identity.Equal(identifier, state.identifiers[index]) {
			return false
		}
	}
	return true
}

// SameMembers reports whether the explicit selection holds the same
// identities as identifiers, ignoring order and duplicates.
func (state *State) SameMembers(identifiers []resource.Identifier) bool {
	wanted := state.identity.KeySet(identifiers)
	if len(wanted) != len(state.identifiers) {
		return false
	}
	for _, selected := range state.identifiers {
		if _, exists := wanted[state.identity.Key(selected)]; !exists {
			return false
		}
	}
	return true
}

// assign stores a deduplicated list and normalizes empty to
// implicit-all.
func (state *State) assign(identifiers []resource.Identifier) {
	if len(identifiers) == 0 {
		state.kind = ImplicitAll
		state.identifiers = nil
		return
	}
	state.kind = Explicit
	state.identifiers = identifiers
}
