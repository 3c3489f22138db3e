// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for --version output.
//
// Release builds inject [Version], [GitCommit], [GitDirty] and
// [BuildTime] with -ldflags -X. Development builds leave them at their
// defaults; [Info] then falls back to the VCS stamp the Go toolchain
// records in the binary.
package version
