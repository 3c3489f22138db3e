// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"slices"
	"testing"
)

// recordEvents attaches a listener that appends every event kind.
func recordEvents(t *testing.T, collection *Collection) *[]EventKind {
	t.Helper()
	var kinds []EventKind
	collection.Listen(func(event Event) {
		kinds = append(kinds, event.Kind)
	})
	return &kinds
}

func testDatabases() []Resource {
	return []Resource{
		{Name: "DB1", Domain: "PUBLIC_INDEXES"},
		{Name: "DB2", Domain: "PUBLIC_INDEXES"},
		{Name: "DB3", Domain: "PRIVATE_INDEXES"},
	}
}

func TestCollectionDeduplicatesByIdentity(t *testing.T) {
	collection := NewCollection(DomainNameIdentity, testDatabases()...)
	collection.Add(Resource{Name: "DB1", Domain: "PUBLIC_INDEXES", DisplayName: "First"})

	if collection.Len() != 3 {
		t.Fatalf("Len = %d, want 3", collection.Len())
	}
	found, ok := collection.Find(Identifier{Name: "DB1", Domain: "PUBLIC_INDEXES"})
	if !ok || found.DisplayName != "First" {
		t.Errorf("Find(DB1) = %+v, %v; want updated copy", found, ok)
	}
}

func TestCollectionIdentifiers(t *testing.T) {
	collection := NewCollection(DomainNameIdentity,
		Resource{Name: "database1", Domain: "domain1"},
		Resource{Name: "database2", Domain: "domain2"},
	)
	want := []Identifier{
		{Name: "database1", Domain: "domain1"},
		{Name: "database2", Domain: "domain2"},
	}
	if got := collection.Identifiers(); !slices.Equal(got, want) {
		t.Errorf("Identifiers = %v, want %v", got, want)
	}
}

func TestCollectionAddEvents(t *testing.T) {
	collection := NewCollection(DomainNameIdentity, testDatabases()...)
	kinds := recordEvents(t, collection)

	collection.Add(Resource{Name: "DB1", Domain: "PUBLIC_INDEXES"}, Resource{Name: "DB4", Domain: "PRIVATE_INDEXES"})
	want := []EventKind{EventAdd, EventUpdate}
	if !slices.Equal(*kinds, want) {
		t.Errorf("events = %v, want %v", *kinds, want)
	}

	*kinds = nil
	collection.Add(Resource{Name: "DB4", Domain: "PRIVATE_INDEXES"})
	if len(*kinds) != 0 {
		t.Errorf("re-adding existing resource sent %v", *kinds)
	}
}

func TestCollectionRemoveReindexes(t *testing.T) {
	collection := NewCollection(DomainNameIdentity, testDatabases()...)
	kinds := recordEvents(t, collection)

	collection.Remove(Identifier{Name: "DB1", Domain: "PUBLIC_INDEXES"}, Identifier{Name: "missing"})
	if !slices.Equal(*kinds, []EventKind{EventRemove, EventUpdate}) {
		t.Errorf("events = %v", *kinds)
	}
	if !collection.Contains(Identifier{Name: "DB3", Domain: "PRIVATE_INDEXES"}) {
		t.Error("DB3 lost after removing DB1")
	}
	found, ok := collection.Find(Identifier{Name: "DB2", Domain: "PUBLIC_INDEXES"})
	if !ok || found.Name != "DB2" {
		t.Errorf("Find(DB2) after reindex = %+v, %v", found, ok)
	}
}

func TestCollectionRequestAndReset(t *testing.T) {
	collection := NewCollection(DomainNameIdentity)
	kinds := recordEvents(t, collection)

	collection.Request()
	if !collection.Pending() {
		t.Fatal("collection should be pending after Request")
	}
	collection.Reset(testDatabases())
	if collection.Pending() {
		t.Error("Reset should complete the pending request")
	}
	if !slices.Equal(*kinds, []EventKind{EventRequest, EventReset}) {
		t.Errorf("events = %v", *kinds)
	}
	if collection.Len() != 3 {
		t.Errorf("Len = %d, want 3", collection.Len())
	}
}

func TestCollectionSetMerges(t *testing.T) {
	collection := NewCollection(DomainNameIdentity, testDatabases()...)
	var events []Event
	collection.Listen(func(event Event) { events = append(events, event) })

	collection.Set([]Resource{
		{Name: "DB2", Domain: "PUBLIC_INDEXES"},
		{Name: "DB4", Domain: "PRIVATE_INDEXES"},
	})

	if collection.Len() != 2 {
		t.Fatalf("Len = %d, want 2", collection.Len())
	}
	var summary []string
	for _, event := range events {
		summary = append(summary, string(event.Kind)+":"+event.Resource.Name)
	}
	want := []string{"remove:DB1", "remove:DB3", "add:DB4", "update:"}
	if !slices.Equal(summary, want) {
		t.Errorf("events = %v, want %v", summary, want)
	}

	events = nil
	collection.Set(collection.Resources())
	if len(events) != 0 {
		t.Errorf("Set with identical membership sent %d events", len(events))
	}
}

func TestCollectionSetReportsPendingAndModified(t *testing.T) {
	collection := NewCollection(DomainNameIdentity, testDatabases()...)
	var kinds []EventKind
	collection.Listen(func(event Event) { kinds = append(kinds, event.Kind) })

	collection.Request()
	collection.Set(collection.Resources())
	if !slices.Equal(kinds, []EventKind{EventRequest, EventUpdate}) {
		t.Errorf("completing a request sent %v, want request then update", kinds)
	}
	if collection.Pending() {
		t.Error("Set should complete the pending request")
	}

	kinds = nil
	renamed := collection.Resources()
	renamed[0].DisplayName = "Renamed"
	collection.Set(renamed)
	if !slices.Equal(kinds, []EventKind{EventUpdate}) {
		t.Errorf("changing a display name sent %v, want a single update", kinds)
	}
	if found, _ := collection.Find(DomainNameIdentity.Of(renamed[0])); found.DisplayName != "Renamed" {
		t.Errorf("stored display name = %q", found.DisplayName)
	}
}

func TestCollectionListenCancel(t *testing.T) {
	collection := NewCollection(NameIdentity)
	calls := 0
	cancel := collection.Listen(func(Event) { calls++ })
	collection.Add(Resource{Name: "a"})
	cancel()
	collection.Add(Resource{Name: "b"})
	if calls != 2 {
		t.Errorf("listener called %d times, want 2 (add+update before cancel)", calls)
	}
}

func TestCollectionFilterAndCount(t *testing.T) {
	collection := NewCollection(DomainNameIdentity, testDatabases()...)
	public := func(resource Resource) bool { return resource.Domain == "PUBLIC_INDEXES" }
	if got := len(collection.Filter(public)); got != 2 {
		t.Errorf("Filter(public) = %d resources, want 2", got)
	}
	if got := collection.Count(nil); got != 3 {
		t.Errorf("Count(nil) = %d, want 3", got)
	}
}
