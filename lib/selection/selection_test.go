// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package selection

import (
	"slices"
	"testing"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

var (
	db1 = resource.Identifier{Name: "DB1", Domain: "PUBLIC_INDEXES"}
	db2 = resource.Identifier{Name: "DB2", Domain: "PUBLIC_INDEXES"}
	db3 = resource.Identifier{Name: "DB3", Domain: "PRIVATE_INDEXES"}
	db4 = resource.Identifier{Name: "DB4", Domain: "PRIVATE_INDEXES"}

	allDatabases = []resource.Identifier{db1, db2, db3, db4}
)

func TestImplicitAllMaterializesEverything(t *testing.T) {
	state := New(resource.DomainNameIdentity)
	if !state.IsImplicitAll() {
		t.Fatal("new state should be implicit-all")
	}
	if got := state.Materialize(allDatabases); !slices.Equal(got, allDatabases) {
		t.Errorf("Materialize = %v, want every identifier", got)
	}
	if state.Explicit() != nil {
		t.Error("Explicit should be nil for implicit-all")
	}
}

func TestSelectDeduplicates(t *testing.T) {
	state := New(resource.DomainNameIdentity)
	for range 3 {
		state.Select(db1, true)
	}
	if got := state.Explicit(); !slices.Equal(got, []resource.Identifier{db1}) {
		t.Errorf("Explicit = %v, want exactly one DB1", got)
	}
}

func TestSelectToggleInverse(t *testing.T) {
	state := NewExplicit(resource.DomainNameIdentity, []resource.Identifier{db3})
	before := state.Explicit()

	state.Select(db1, true)
	state.Select(db1, false)

	if got := state.Explicit(); !slices.Equal(got, before) {
		t.Errorf("after toggle Explicit = %v, want %v", got, before)
	}
}

func TestDeselectLastReturnsToImplicitAll(t *testing.T) {
	state := NewExplicit(resource.DomainNameIdentity, []resource.Identifier{db1})
	state.Select(db1, false)
	if !state.IsImplicitAll() {
		t.Errorf("kind = %v, want implicit-all", state.Kind())
	}
}

func TestSelectManyUnionAndSubtract(t *testing.T) {
	state := NewExplicit(resource.DomainNameIdentity, []resource.Identifier{db1})
	before := state.Explicit()

	state.SelectMany([]resource.Identifier{db3, db4, db1}, true)
	if got := state.Explicit(); !slices.Equal(got, []resource.Identifier{db1, db3, db4}) {
		t.Errorf("after union Explicit = %v", got)
	}

	state.SelectMany([]resource.Identifier{db3, db4}, false)
	if got := state.Explicit(); !slices.Equal(got, before) {
		t.Errorf("after subtract Explicit = %v, want %v", got, before)
	}
}

func TestSubtractFromImplicitAllIsNoop(t *testing.T) {
	state := New(resource.DomainNameIdentity)
	state.SelectMany([]resource.Identifier{db1}, false)
	if !state.IsImplicitAll() {
		t.Error("subtracting from implicit-all should leave it unchanged")
	}
}

func TestPrune(t *testing.T) {
	state := NewExplicit(resource.DomainNameIdentity, []resource.Identifier{db1, db2})
	present := func(identifier resource.Identifier) bool {
		return resource.DomainNameIdentity.Equal(identifier, db1)
	}

	if !state.Prune(present) {
		t.Fatal("Prune should report a change")
	}
	if got := state.Explicit(); !slices.Equal(got, []resource.Identifier{db1}) {
		t.Errorf("after prune Explicit = %v, want [DB1]", got)
	}
	if state.Prune(present) {
		t.Error("second Prune with unchanged inputs should report no change")
	}
}

func TestRemove(t *testing.T) {
	state := NewExplicit(resource.DomainNameIdentity, []resource.Identifier{db1, db2})
	if !state.Remove(db2) {
		t.Error("Remove(DB2) should report it was selected")
	}
	if state.Remove(db3) {
		t.Error("Remove(DB3) should report it was not selected")
	}
	if state.Len() != 1 {
		t.Errorf("Len = %d, want 1", state.Len())
	}
}

func TestEqualAndSameMembers(t *testing.T) {
	state := NewExplicit(resource.DomainNameIdentity, []resource.Identifier{db1, db2})

	if !state.Equal([]resource.Identifier{db1, db2}) {
		t.Error("Equal should match the same order")
	}
	if state.Equal([]resource.Identifier{db2, db1}) {
		t.Error("Equal should be order-sensitive")
	}
	if !state.SameMembers([]resource.Identifier{db2, db1, db2}) {
		t.Error("SameMembers should ignore order and duplicates")
	}
	if state.SameMembers([]resource.Identifier{db1}) {
		t.Error("SameMembers should detect a missing identifier")
	}
}

func TestNameIdentityMatchesAcrossDomains(t *testing.T) {
	state := New(resource.NameIdentity)
	state.Select(resource.Identifier{Name: "DB1", Domain: "PUBLIC"}, true)
	if !state.Contains(resource.Identifier{Name: "DB1", Domain: "OTHER"}) {
		t.Error("name identity should match DB1 in any domain")
	}
	if got := state.Explicit()[0].Domain; got != "" {
		t.Errorf("stored identifier kept domain %q under name identity", got)
	}
}
