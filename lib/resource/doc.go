// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource defines the selectable items of the picker
// ("databases"), the identity policy that decides when two of them are
// the same, and the [Collection] that holds them.
//
// A [Resource] carries a name, an optional domain, and an optional
// display name. Which of name and domain participate in equality is a
// pluggable [Identity]: [NameIdentity] treats two resources with the
// same name as equal, [DomainNameIdentity] requires the domain to match
// as well. An [Identifier] is the projection of a resource onto its
// identity attributes and is the unit of selection.
//
// [Collection] is an insertion-ordered set deduplicated by identity
// key. It notifies synchronous listeners of add, remove, reset, update
// and request events, mirroring how a repository signals that a fetch
// has started ([Collection.Request]) and completed ([Collection.Reset]
// or [Collection.Set]). Listeners run on the caller's goroutine before
// the mutating method returns; the collection is not safe for
// concurrent use and is meant to be owned by a single event loop.
package resource
