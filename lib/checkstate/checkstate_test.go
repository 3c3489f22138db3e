// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checkstate

import (
	"fmt"
	"slices"
	"testing"

	"github.com/bureau-foundation/dbpick/lib/categorytree"
	"github.com/bureau-foundation/dbpick/lib/resource"
)

var identity = resource.DomainNameIdentity

func public(name string) resource.Identifier {
	return resource.Identifier{Name: name, Domain: "PUBLIC_INDEXES"}
}

func private(name string) resource.Identifier {
	return resource.Identifier{Name: name, Domain: "PRIVATE_INDEXES"}
}

func testTree(t *testing.T) *categorytree.Tree {
	t.Helper()
	collection := resource.NewCollection(identity,
		public("DB1").Resource(),
		public("DB2").Resource(),
		private("DB3").Resource(),
		private("DB4").Resource(),
	)
	domainIs := func(domain string) categorytree.Predicate {
		return func(candidate resource.Resource) bool { return candidate.Domain == domain }
	}
	return categorytree.Build(categorytree.BuildOptions{
		Collection: collection,
		Categories: []categorytree.Category{
			{Name: "public", Filter: domainIs("PUBLIC_INDEXES")},
			{Name: "private", Filter: domainIs("PRIVATE_INDEXES")},
		},
	})
}

func TestDeriveCategories(t *testing.T) {
	tests := []struct {
		name      string
		force     bool
		selection []resource.Identifier
		want      map[string]State
	}{
		{
			name: "implicit all",
			want: map[string]State{
				"all":     {},
				"public":  {},
				"private": {},
			},
		},
		{
			name:      "one category",
			selection: []resource.Identifier{private("DB3"), private("DB4")},
			want: map[string]State{
				"all":     {Check: Indeterminate},
				"public":  {},
				"private": {Check: Checked},
			},
		},
		{
			name:      "one category forced",
			force:     true,
			selection: []resource.Identifier{private("DB3"), private("DB4")},
			want: map[string]State{
				"all":     {Check: Indeterminate},
				"public":  {},
				"private": {Check: Checked, Disabled: true},
			},
		},
		{
			name:      "partial category forced",
			force:     true,
			selection: []resource.Identifier{private("DB3")},
			want: map[string]State{
				"all":     {Check: Indeterminate},
				"public":  {},
				"private": {Check: Indeterminate},
			},
		},
		{
			name:      "everything forced",
			force:     true,
			selection: []resource.Identifier{public("DB1"), public("DB2"), private("DB3"), private("DB4")},
			want: map[string]State{
				"all":     {Check: Checked, Disabled: true},
				"public":  {Check: Checked},
				"private": {Check: Checked},
			},
		},
		{
			name:      "selection outside the tree",
			force:     true,
			selection: []resource.Identifier{public("DB1"), public("DB2"), public("GONE")},
			want: map[string]State{
				"all":     {Check: Indeterminate},
				"public":  {Check: Checked},
				"private": {},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			deriver := Deriver{Identity: identity, ForceSelection: test.force}
			result := deriver.Derive(testTree(t), test.selection)
			for name, want := range test.want {
				if got := result.Category(name); got != want {
					t.Errorf("category %s = %+v, want %+v", name, got, want)
				}
			}
		})
	}
}

func TestDeriveResources(t *testing.T) {
	tree := testTree(t)

	forced := Deriver{Identity: identity, ForceSelection: true}
	result := forced.Derive(tree, []resource.Identifier{private("DB3")})
	if got := result.Resource(identity.Key(private("DB3"))); got != (State{Check: Checked, Disabled: true}) {
		t.Errorf("sole selected resource = %+v, want checked and disabled", got)
	}
	if got := result.Resource(identity.Key(private("DB4"))); got != (State{}) {
		t.Errorf("unselected resource = %+v", got)
	}

	result = forced.Derive(tree, []resource.Identifier{private("DB3"), private("DB4")})
	if got := result.Resource(identity.Key(private("DB3"))); got != (State{Check: Checked}) {
		t.Errorf("one of two selected = %+v, want checked and enabled", got)
	}

	unforced := Deriver{Identity: identity}
	result = unforced.Derive(tree, []resource.Identifier{private("DB3")})
	if got := result.Resource(identity.Key(private("DB3"))); got.Disabled {
		t.Error("resource disabled without force selection")
	}
}

func TestDeriveHidesFilteredResources(t *testing.T) {
	tree := testTree(t)
	tree.Refilter("db1")

	deriver := Deriver{Identity: identity}
	result := deriver.Derive(tree, []resource.Identifier{public("DB1")})

	if got := result.Category("public"); got.Check != Checked {
		t.Errorf("public = %v, want checked: DB2 is filtered out", got.Check)
	}
	if got := result.Category("private"); got.Check != Unchecked {
		t.Errorf("private with no visible members = %v", got.Check)
	}
	if _, exists := result.Resources[identity.Key(public("DB2"))]; exists {
		t.Error("filtered resource should have no state")
	}
}

func TestDeriveNilTree(t *testing.T) {
	result := Deriver{Identity: identity}.Derive(nil, nil)
	if len(result.Categories) != 0 || len(result.Resources) != 0 {
		t.Errorf("nil tree produced %+v", result)
	}
}

// recorder logs every control call as "operation:handle".
type recorder struct {
	calls []string
}

func (r *recorder) record(operation string, handle Handle) {
	r.calls = append(r.calls, fmt.Sprintf("%s:%v", operation, handle))
}

func (r *recorder) Check(handle Handle)         { r.record("check", handle) }
func (r *recorder) Uncheck(handle Handle)       { r.record("uncheck", handle) }
func (r *recorder) Enable(handle Handle)        { r.record("enable", handle) }
func (r *recorder) Disable(handle Handle)       { r.record("disable", handle) }
func (r *recorder) Determinate(handle Handle)   { r.record("determinate", handle) }
func (r *recorder) Indeterminate(handle Handle) { r.record("indeterminate", handle) }

func TestApplyResetsThenSets(t *testing.T) {
	result := Result{
		Categories: map[string]State{
			"private": {Check: Checked, Disabled: true},
			"all":     {Check: Indeterminate},
		},
		Resources: map[string]State{
			identity.Key(private("DB3")): {Check: Checked},
		},
	}
	inputs := Inputs{
		Resources: []ResourceInput{
			{Handle: "db3", Identifier: private("DB3")},
			{Handle: "db1", Identifier: public("DB1")},
		},
		Categories: []CategoryInput{
			{Handle: "all", Name: "all"},
			{Handle: "private", Name: "private"},
		},
	}

	controls := &recorder{}
	Apply(result, identity, controls, inputs)

	want := []string{
		"uncheck:db3", "enable:db3", "determinate:db3",
		"uncheck:db1", "enable:db1", "determinate:db1",
		"uncheck:all", "enable:all", "determinate:all",
		"uncheck:private", "enable:private", "determinate:private",
		"check:db3",
		"uncheck:db1",
		"indeterminate:all",
		"check:private", "disable:private",
	}
	if !slices.Equal(controls.calls, want) {
		t.Errorf("calls:\n got %v\nwant %v", controls.calls, want)
	}
}

func TestCheckString(t *testing.T) {
	for check, want := range map[Check]string{Unchecked: "unchecked", Checked: "checked", Indeterminate: "indeterminate"} {
		if got := check.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", check, got, want)
		}
	}
}
