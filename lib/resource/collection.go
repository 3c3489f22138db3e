// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

// EventKind identifies a change notification from a [Collection].
type EventKind string

const (
	// EventAdd is sent once per resource that joined the collection.
	EventAdd EventKind = "add"

	// EventRemove is sent once per resource that left the collection.
	EventRemove EventKind = "remove"

	// EventReset is sent after the whole membership was replaced.
	EventReset EventKind = "reset"

	// EventUpdate is sent after a batch of adds and removes
	// completed. Not sent for batches that changed nothing.
	EventUpdate EventKind = "update"

	// EventRequest is sent when a fetch that will repopulate the
	// collection has started.
	EventRequest EventKind = "request"
)

// Event describes a single change to a Collection.
type Event struct {
	Kind EventKind

	// Resource is set for EventAdd and EventRemove.
	Resource Resource
}

// Listener receives collection events synchronously.
type Listener func(Event)

// Collection is an insertion-ordered set of resources deduplicated by
// identity key. Adding a resource whose key is already present
// replaces the stored copy in place without an event.
type Collection struct {
	identity  Identity
	resources []Resource
	positions map[string]int

	pending bool

	listeners      map[int]Listener
	listenerOrder  []int
	nextListenerID int
}

// NewCollection creates a collection holding resources under the
// given identity policy.
func NewCollection(identity Identity, resources ...Resource) *Collection {
	collection := &Collection{
		identity:  identity,
		positions: make(map[string]int),
		listeners: make(map[int]Listener),
	}
	for _, resource := range resources {
		collection.put(resource)
	}
	return collection
}

// Identity returns the collection's identity policy.
func (collection *Collection) Identity() Identity {
	return collection.identity
}

// Len returns the number of resources.
func (collection *Collection) Len() int {
	return len(collection.resources)
}

// IsEmpty reports whether the collection holds no resources.
func (collection *Collection) IsEmpty() bool {
	return len(collection.resources) == 0
}

// Pending reports whether a request is in flight: [Collection.Request]
// was called and no reset or set has completed since.
func (collection *Collection) Pending() bool {
	return collection.pending
}

// Resources returns a copy of the resources in insertion order.
func (collection *Collection) Resources() []Resource {
	result := make([]Resource, len(collection.resources))
	copy(result, collection.resources)
	return result
}

// Identifiers returns the identifier of every resource in insertion
// order.
func (collection *Collection) Identifiers() []Identifier {
	result := make([]Identifier, len(collection.resources))
	for index, resource := range collection.resources {
		result[index] = collection.identity.Of(resource)
	}
	return result
}

// Find returns the resource with the same identity as identifier.
func (collection *Collection) Find(identifier Identifier) (Resource, bool) {
	position, exists := collection.positions[collection.identity.Key(identifier)]
	if !exists {
		return Resource{}, false
	}
	return collection.resources[position], true
}

// Contains reports whether a resource with the given identity exists.
func (collection *Collection) Contains(identifier Identifier) bool {
	_, exists := collection.positions[collection.identity.Key(identifier)]
	return exists
}

// Filter returns the resources for which predicate is true, in
// insertion order. A nil predicate matches everything.
func (collection *Collection) Filter(predicate func(Resource) bool) []Resource {
	var result []Resource
	for _, resource := range collection.resources {
		if predicate == nil || predicate(resource) {
			result = append(result, resource)
		}
	}
	return result
}

// Count returns the number of resources for which predicate is true.
func (collection *Collection) Count(predicate func(Resource) bool) int {
	count := 0
	for _, resource := range collection.resources {
		if predicate == nil || predicate(resource) {
			count++
		}
	}
	return count
}

// Listen registers a listener and returns a function that removes it.
// Listeners are called in registration order.
func (collection *Collection) Listen(listener Listener) (cancel func()) {
	id := collection.nextListenerID
	collection.nextListenerID++
	collection.listeners[id] = listener
	collection.listenerOrder = append(collection.listenerOrder, id)
	return func() {
		delete(collection.listeners, id)
	}
}

// Request marks a fetch as started and notifies listeners.
func (collection *Collection) Request() {
	collection.pending = true
	collection.emit(Event{Kind: EventRequest})
}

// Add inserts resources that are not yet present. Sends EventAdd per
// new resource and a single EventUpdate if anything was added.
func (collection *Collection) Add(resources ...Resource) {
	var added []Resource
	for _, resource := range resources {
		if collection.put(resource) {
			added = append(added, resource)
		}
	}
	for _, resource := range added {
		collection.emit(Event{Kind: EventAdd, Resource: resource})
	}
	if len(added) > 0 {
		collection.emit(Event{Kind: EventUpdate})
	}
}

// Remove deletes the resources with the given identities. Sends
// EventRemove per removed resource and a single EventUpdate if
// anything was removed.
func (collection *Collection) Remove(identifiers ...Identifier) {
	var removed []Resource
	for _, identifier := range identifiers {
		if resource, ok := collection.delete(identifier); ok {
			removed = append(removed, resource)
		}
	}
	for _, resource := range removed {
		collection.emit(Event{Kind: EventRemove, Resource: resource})
	}
	if len(removed) > 0 {
		collection.emit(Event{Kind: EventUpdate})
	}
}

// Reset replaces the whole membership and sends a single EventReset.
// Completes any pending request.
func (collection *Collection) Reset(resources []Resource) {
	collection.resources = nil
	collection.positions = make(map[string]int, len(resources))
	for _, resource := range resources {
		collection.put(resource)
	}
	collection.pending = false
	collection.emit(Event{Kind: EventReset})
}

// Set merges the membership towards resources: resources not in the
// list are removed, new ones are added, existing ones are updated in
// place. Sends per-resource add/remove events followed by EventUpdate
// when membership or any stored attribute changed, or when a request
// was pending. Completes any pending request.
func (collection *Collection) Set(resources []Resource) {
	wanted := make(map[string]struct{}, len(resources))
	for _, resource := range resources {
		wanted[collection.identity.ResourceKey(resource)] = struct{}{}
	}

	var removed []Resource
	for _, existing := range collection.Resources() {
		if _, keep := wanted[collection.identity.ResourceKey(existing)]; !keep {
			collection.delete(collection.identity.Of(existing))
			removed = append(removed, existing)
		}
	}

	var added []Resource
	modified := false
	for _, resource := range resources {
		if existing, exists := collection.Find(collection.identity.Of(resource)); exists && existing != resource {
			modified = true
		}
		if collection.put(resource) {
			added = append(added, resource)
		}
	}

	wasPending := collection.pending
	collection.pending = false

	for _, resource := range removed {
		collection.emit(Event{Kind: EventRemove, Resource: resource})
	}
	for _, resource := range added {
		collection.emit(Event{Kind: EventAdd, Resource: resource})
	}
	if len(removed) > 0 || len(added) > 0 || modified || wasPending {
		collection.emit(Event{Kind: EventUpdate})
	}
}

// put inserts or replaces a resource. Returns true if it was new.
func (collection *Collection) put(resource Resource) bool {
	key := collection.identity.ResourceKey(resource)
	if position, exists := collection.positions[key]; exists {
		collection.resources[position] = resource
		return false
	}
	collection.positions[key] = len(collection.resources)
	collection.resources = append(collection.resources, resource)
	return true
}

// delete removes a resource and reindexes the ones after it.
func (collection *Collection) delete(identifier Identifier) (Resource, bool) {
	key := collection.identity.Key(identifier)
	position, exists := collection.positions[key]
	if !exists {
		return Resource{}, false
	}
	removed := collection.resources[position]
	collection.resources = append(collection.resources[:position], collection.resources[position+1:]...)
	delete(collection.positions, key)
	for index := position; index < len(collection.resources); index++ {
		collection.positions[collection.identity.ResourceKey(collection.resources[index])] = index
	}
	return removed, true
}

// emit delivers an event to the listeners registered at the time of
// the call. A listener cancelled by an earlier listener in the same
// dispatch is skipped.
func (collection *Collection) emit(event Event) {
	order := collection.listenerOrder
	live := order[:0:0]
	for _, id := range order {
		if _, exists := collection.listeners[id]; exists {
			live = append(live, id)
		}
	}
	collection.listenerOrder = live
	for _, id := range live {
		listener, exists := collection.listeners[id]
		if !exists {
			continue
		}
		listener(event)
	}
}
