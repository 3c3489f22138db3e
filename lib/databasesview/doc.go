// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package databasesview ties a resource collection, a category tree,
// a selection and a render surface together into one checkbox picker.
//
// A [View] owns the selection for its lifetime. It listens to the
// resource collection (request, reset, update, remove), to an optional
// external selected-resources collection, and to an optional
// [categorytree.TextFilter], and keeps four things consistent:
//
//   - the category tree, rebuilt as a new generation whenever the
//     resource collection resets or updates;
//   - the selection, pruned of identifiers that left the collection;
//   - the checkbox states pushed to the [Renderer];
//   - the external collection, which always holds the materialized
//     selection.
//
// Every mutation runs to completion inside the call or listener that
// caused it. The view takes no locks: callers drive it from a single
// goroutine, such as a bubbletea Update loop.
//
// Change listeners registered with [View.OnChange] receive the
// materialized selection only when it actually differs from the last
// one delivered.
package databasesview
