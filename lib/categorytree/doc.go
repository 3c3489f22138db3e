// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package categorytree partitions a flat resource collection into a
// hierarchy of categories and keeps a filtered view of each leaf.
//
// [Build] takes declared [Category] values (name, display name,
// predicate, optional nested children) and produces a [Tree] whose
// root is the synthetic "all" node. Categories whose predicate matches
// no resource are left out of the tree, and so are all of their
// descendants. Each node records whether it should start collapsed:
// a node collapses when an explicit selection exists and none of its
// members is part of it.
//
// Leaves hold a [FilteredView], the subset of the collection matching
// the leaf's predicate and the current filter text. Views cache their
// contents; a text change is applied with [Tree.Refilter] and does not
// rebuild the tree. A change to the collection itself calls for a new
// Build: the caller detaches the old tree and replaces it.
//
// Traversal helpers ([FindNode], [Members], [VisibleResources],
// [Walk]) are free functions over nodes so that callers pass the
// identity policy explicitly.
package categorytree
