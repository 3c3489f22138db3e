// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import "github.com/bureau-foundation/dbpick/lib/resource"

// Apply drives a resource collection from a watcher event: a request
// marks the collection pending, a load merges the new resources in,
// and an error completes the pending request with the resources the
// collection already holds.
//
// Apply must run on the goroutine that owns the collection.
func Apply(collection *resource.Collection, event Event) {
	switch event.Kind {
	case EventRequest:
		collection.Request()
	case EventLoaded:
		collection.Set(event.Resources)
	case EventError:
		if collection.Pending() {
			collection.Reset(collection.Resources())
		}
	}
}
