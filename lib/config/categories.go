// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/bureau-foundation/dbpick/lib/categorytree"
	"github.com/bureau-foundation/dbpick/lib/resource"
)

const rootCategoryName = categorytree.RootName

// attributeMatcher pairs a compiled glob with the attribute it reads.
type attributeMatcher struct {
	pattern glob.Glob
	read    func(resource.Resource) string
}

// compile returns the predicate for the matcher's patterns, nil when
// no pattern is set.
func (match MatchConfig) compile() (categorytree.Predicate, error) {
	fields := []struct {
		name    string
		pattern string
		read    func(resource.Resource) string
	}{
		{"name", match.Name, func(candidate resource.Resource) string { return candidate.Name }},
		{"domain", match.Domain, func(candidate resource.Resource) string { return candidate.Domain }},
		{"display_name", match.DisplayName, func(candidate resource.Resource) string { return candidate.DisplayName }},
	}

	var matchers []attributeMatcher
	for _, field := range fields {
		if field.pattern == "" {
			continue
		}
		compiled, err := glob.Compile(field.pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling %s pattern %q: %w", field.name, field.pattern, err)
		}
		matchers = append(matchers, attributeMatcher{pattern: compiled, read: field.read})
	}

	if len(matchers) == 0 {
		return nil, nil
	}
	return func(candidate resource.Resource) bool {
		for _, matcher := range matchers {
			if !matcher.pattern.Match(matcher.read(candidate)) {
				return false
			}
		}
		return true
	}, nil
}

// CompileCategories converts the declared categories into category
// tree input with compiled predicates.
func (c *Config) CompileCategories() ([]categorytree.Category, error) {
	return compileCategories(c.Categories)
}

func compileCategories(declared []CategoryConfig) ([]categorytree.Category, error) {
	if len(declared) == 0 {
		return nil, nil
	}
	categories := make([]categorytree.Category, 0, len(declared))
	for _, category := range declared {
		predicate, err := category.Match.compile()
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", category.Name, err)
		}
		children, err := compileCategories(category.Children)
		if err != nil {
			return nil, err
		}
		displayName := category.DisplayName
		if displayName == "" {
			displayName = category.Name
		}
		categories = append(categories, categorytree.Category{
			Name:        category.Name,
			DisplayName: displayName,
			ClassName:   category.ClassName,
			Filter:      predicate,
			Children:    children,
		})
	}
	return categories, nil
}

// DelayedSelectionFunc returns a function selecting the members of
// the category named by DelayedSelection, or nil when none is set.
// Membership follows the same rules as the tree: every ancestor's
// filter applies, and a branch holds what its descendants hold.
func (c *Config) DelayedSelectionFunc(identity resource.Identity, categories []categorytree.Category) func([]resource.Resource) []resource.Identifier {
	if c.DelayedSelection == "" {
		return nil
	}
	predicate, found := categoryPredicate(categories, c.DelayedSelection, nil)
	if !found {
		return nil
	}
	return func(available []resource.Resource) []resource.Identifier {
		var chosen []resource.Identifier
		for _, candidate := range available {
			if predicate(candidate) {
				chosen = append(chosen, identity.Of(candidate))
			}
		}
		return chosen
	}
}

// categoryPredicate finds the named category and returns its effective
// membership test.
func categoryPredicate(categories []categorytree.Category, name string, inherited []categorytree.Predicate) (categorytree.Predicate, bool) {
	for _, category := range categories {
		chain := inherited
		if category.Filter != nil {
			chain = append(chain[:len(chain):len(chain)], category.Filter)
		}
		if category.Name == name {
			return membership(category, chain), true
		}
		if predicate, found := categoryPredicate(category.Children, name, chain); found {
			return predicate, true
		}
	}
	return nil, false
}

// membership matches a resource that passes every filter in chain and,
// for a branch, belongs to at least one descendant leaf.
func membership(category categorytree.Category, chain []categorytree.Predicate) categorytree.Predicate {
	return func(candidate resource.Resource) bool {
		for _, filter := range chain {
			if !filter(candidate) {
				return false
			}
		}
		if len(category.Children) == 0 {
			return true
		}
		for _, child := range category.Children {
			if membership(child, filterOf(child))(candidate) {
				return true
			}
		}
		return false
	}
}

func filterOf(category categorytree.Category) []categorytree.Predicate {
	if category.Filter == nil {
		return nil
	}
	return []categorytree.Predicate{category.Filter}
}
