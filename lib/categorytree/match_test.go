// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package categorytree

import (
	"slices"
	"testing"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

func filterTestCollection() *resource.Collection {
	return testCollection(
		resource.Resource{Name: "onion beverages", Domain: "PUBLIC_INDEXES"},
		resource.Resource{Name: "cloud interpretations", Domain: "PUBLIC_INDEXES"},
		resource.Resource{Name: "concrete", DisplayName: "Aggregates", Domain: "PRIVATE_INDEXES"},
		resource.Resource{Name: "anions", Domain: "PRIVATE_INDEXES"},
	)
}

func TestFilteredViewVisibility(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{"onion beverages", "cloud interpretations", "concrete", "anions"}},
		{"ions", []string{"cloud interpretations", "anions"}},
		{"Aggregates", []string{"concrete"}},
		{"aggreg", []string{"concrete"}},
		{"concrete", nil},
		{"ONION", []string{"onion beverages"}},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			view := NewFilteredView(filterTestCollection(), nil, test.text)
			var names []string
			for _, member := range view.Resources() {
				names = append(names, member.Name)
			}
			if !slices.Equal(names, test.want) {
				t.Errorf("filter %q shows %v, want %v", test.text, names, test.want)
			}
		})
	}
}

func TestMatchTextPositions(t *testing.T) {
	matched, positions := MatchText(resource.Resource{Name: "anions"}, "ION")
	if !matched {
		t.Fatal("anions should match ION")
	}
	if !slices.Equal(positions, []int{2, 3, 4}) {
		t.Errorf("positions = %v, want [2 3 4]", positions)
	}

	matched, positions = MatchText(resource.Resource{Name: "anions"}, "")
	if !matched || positions != nil {
		t.Errorf("empty text = %v %v, want match with no positions", matched, positions)
	}
}

func TestFilteredViewIsCached(t *testing.T) {
	collection := filterTestCollection()
	view := NewFilteredView(collection, nil, "ions")
	collection.Add(resource.Resource{Name: "more ions"})

	if view.Len() != 2 {
		t.Errorf("view recomputed without Refilter: %d resources", view.Len())
	}
	view.Refilter("ions")
	if view.Len() != 3 {
		t.Errorf("after Refilter view has %d resources, want 3", view.Len())
	}
}

func TestTextFilterNotifiesOnChange(t *testing.T) {
	filter := NewTextFilter()
	var seen []string
	cancel := filter.Listen(func(text string) { seen = append(seen, text) })

	filter.Set("ions")
	filter.Set("ions")
	filter.Set("")
	cancel()
	filter.Set("after")

	if !slices.Equal(seen, []string{"ions", ""}) {
		t.Errorf("listener saw %q", seen)
	}
	if filter.Text() != "after" {
		t.Errorf("Text = %q", filter.Text())
	}
}
