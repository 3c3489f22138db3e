// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog reads the resource catalog a picker offers and
// watches it for changes.
//
// A catalog is a file listing resources (name, optional domain,
// optional display name) in JSON, JSONC (JSON with comments and
// trailing commas, via github.com/tidwall/jsonc), JSONL or YAML. The
// format comes from the file extension.
//
// [Watch] monitors the catalog's directory with inotify so that
// in-place writes and atomic renames are both seen. Each change is
// reported as an [EventRequest] followed, after a short debounce, by
// either [EventLoaded] with the new resources or [EventError]. The
// picker maps these onto request and set operations of its resource
// collection, which is how the view's loading state is driven.
package catalog
