// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pickerui is the terminal front end of the resource picker,
// built on bubbletea.
//
// [Surface] is the render target of a [databasesview.View]: it lays
// the category tree out as indented rows with one checkbox each and
// records the states the view pushes to it. [Model] wraps a view and
// its surface in a bubbletea model with vim-style navigation, folding,
// a filter bar and a status bar.
//
// Catalog watcher events arrive on a channel and are turned into
// messages, so the resource collection is only ever mutated from
// Update. [LogHandler] routes slog records into the same loop so
// warnings show in the status bar instead of corrupting the screen.
package pickerui
