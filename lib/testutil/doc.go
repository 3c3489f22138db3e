// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for dbpick packages.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern for channels fed by background goroutines such as the
// catalog watcher, so that a missing event fails the test instead of
// hanging it. [WriteFile] creates a fixture file in a per-test
// temporary directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
