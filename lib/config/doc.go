// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for dbpick.
//
// Configuration is loaded from a single file specified by either the
// DBPICK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. Running without a config file is
// allowed: [Default] describes a picker with no categories.
//
// Categories are declared as a tree of named matchers. Each matcher
// holds glob patterns (github.com/gobwas/glob syntax) for a resource's
// name, domain and display name; every pattern present must match.
// [Config.CompileCategories] turns the declarations into
// [categorytree.Category] values with compiled predicates.
//
// Variable expansion is performed on the catalog path after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No environment
// variable overrides a config value.
//
// Key exports:
//
//   - [Config] -- identity policy, categories, selection defaults
//   - [Default] -- returns a Config with no categories
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Format] -- output format for the selected resources
package config
