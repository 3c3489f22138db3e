// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package categorytree

import "github.com/bureau-foundation/dbpick/lib/resource"

// RootName is the name of the synthetic root node. Selecting the
// category with this name selects every visible resource.
const RootName = "all"

// Category declares a named group of resources. A category with
// Children is a branch: its Filter, if any, narrows every descendant.
// A category without Children is a leaf whose members are the
// resources matching Filter (every resource when Filter is nil).
type Category struct {
	Name        string
	DisplayName string
	ClassName   string
	Filter      Predicate
	Children    []Category
}

// Node is one category in a built tree. Exactly one of Children and
// View is set: branches have Children, leaves have a View.
type Node struct {
	Name        string
	DisplayName string
	ClassName   string

	// Collapse is true when the node should start folded because none
	// of its members is explicitly selected. Computed once at build
	// time.
	Collapse bool

	// Parent is nil for the root. Not owning.
	Parent *Node

	Children []*Node
	View     *FilteredView

	// predicate is the effective membership test: the node's own
	// filter combined with every ancestor's.
	predicate Predicate
}

// IsLeaf reports whether the node holds resources directly.
func (node *Node) IsLeaf() bool {
	return node.View != nil
}

// Depth returns the number of ancestors.
func (node *Node) Depth() int {
	depth := 0
	for parent := node.Parent; parent != nil; parent = parent.Parent {
		depth++
	}
	return depth
}

// Matches reports whether a resource belongs to this node, ignoring
// filter text. A branch matches what any of its children match.
func (node *Node) Matches(candidate resource.Resource) bool {
	if node.IsLeaf() {
		return node.predicate == nil || node.predicate(candidate)
	}
	for _, child := range node.Children {
		if child.Matches(candidate) {
			return true
		}
	}
	return false
}

// Tree is an immutable snapshot of the category hierarchy over one
// generation of the resource collection. Rebuilding produces a new
// Tree; the old one is detached.
type Tree struct {
	Root       *Node
	Generation uint64
}

// BuildOptions carries the inputs of [Build].
type BuildOptions struct {
	Collection *resource.Collection
	Categories []Category

	// Selection is the explicit selection used to compute Collapse.
	// Empty means implicit-all: nothing collapses.
	Selection []resource.Identifier

	// Text is the active filter text applied to every leaf view.
	Text string

	TopLevelDisplayName string
	TopLevelClassName   string

	Generation uint64
}

// Build partitions the collection into a category tree. Categories
// matching no resources are omitted together with their descendants.
// With no categories the root is a single leaf over the whole
// collection.
func Build(options BuildOptions) *Tree {
	root := &Node{
		Name:        RootName,
		DisplayName: options.TopLevelDisplayName,
		ClassName:   options.TopLevelClassName,
	}

	if len(options.Categories) == 0 {
		root.View = NewFilteredView(options.Collection, nil, options.Text)
		return &Tree{Root: root, Generation: options.Generation}
	}

	selected := resolveSelection(options.Collection, options.Selection)
	for _, category := range options.Categories {
		if child := buildNode(options, category, nil, selected); child != nil {
			root.Children = append(root.Children, child)
		}
	}
	setParents(root)

	return &Tree{Root: root, Generation: options.Generation}
}

// buildNode returns the node for category, or nil if it has no
// members in the collection.
func buildNode(options BuildOptions, category Category, inherited Predicate, selected []resource.Resource) *Node {
	predicate := combine(inherited, category.Filter)
	node := &Node{
		Name:        category.Name,
		DisplayName: category.DisplayName,
		ClassName:   category.ClassName,
		predicate:   predicate,
	}

	if len(category.Children) == 0 {
		if options.Collection.Count(predicate) == 0 {
			return nil
		}
		node.View = NewFilteredView(options.Collection, predicate, options.Text)
	} else {
		for _, childCategory := range category.Children {
			if child := buildNode(options, childCategory, predicate, selected); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		if len(node.Children) == 0 {
			return nil
		}
	}

	node.Collapse = shouldCollapse(node, options.Selection, selected)
	return node
}

// shouldCollapse is false when nothing is explicitly selected or when
// a selected resource belongs to the node.
func shouldCollapse(node *Node, selection []resource.Identifier, selected []resource.Resource) bool {
	if len(selection) == 0 {
		return false
	}
	for _, candidate := range selected {
		if node.Matches(candidate) {
			return false
		}
	}
	return true
}

// resolveSelection maps selected identifiers to the resources they
// denote, dropping any that are not in the collection.
func resolveSelection(collection *resource.Collection, selection []resource.Identifier) []resource.Resource {
	var resolved []resource.Resource
	for _, identifier := range selection {
		if found, exists := collection.Find(identifier); exists {
			resolved = append(resolved, found)
		}
	}
	return resolved
}

func combine(first, second Predicate) Predicate {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	default:
		return func(candidate resource.Resource) bool {
			return first(candidate) && second(candidate)
		}
	}
}

func setParents(node *Node) {
	for _, child := range node.Children {
		child.Parent = node
		setParents(child)
	}
}

// Refilter re-applies filter text to every leaf view. Membership and
// collapse state are unchanged.
func (tree *Tree) Refilter(text string) {
	for _, leaf := range tree.Leaves() {
		leaf.View.Refilter(text)
	}
}

// Detach freezes every leaf view of the tree.
func (tree *Tree) Detach() {
	for _, leaf := range tree.Leaves() {
		leaf.View.Detach()
	}
}

// Leaves returns the leaf nodes in depth-first order.
func (tree *Tree) Leaves() []*Node {
	var leaves []*Node
	Walk(tree.Root, func(node *Node) {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	})
	return leaves
}

// Find returns the node with the given name, or nil.
func (tree *Tree) Find(name string) *Node {
	return FindNode(tree.Root, name)
}

// Walk visits node and its descendants in depth-first pre-order.
func Walk(node *Node, visit func(*Node)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Children {
		Walk(child, visit)
	}
}

// FindNode searches depth-first for the first node named name.
func FindNode(node *Node, name string) *Node {
	if node == nil {
		return nil
	}
	if node.Name == name {
		return node
	}
	for _, child := range node.Children {
		if found := FindNode(child, name); found != nil {
			return found
		}
	}
	return nil
}

// Members returns the identifiers currently visible under node,
// deduplicated by identity. Nil node yields nil.
func Members(node *Node, identity resource.Identity) []resource.Identifier {
	if node == nil {
		return nil
	}
	if node.IsLeaf() {
		return identity.Unique(node.View.Identifiers())
	}
	var gathered []resource.Identifier
	for _, child := range node.Children {
		gathered = append(gathered, Members(child, identity)...)
	}
	return identity.Unique(gathered)
}

// VisibleResources returns the resources currently visible anywhere
// under node, deduplicated by identity, in depth-first order.
func VisibleResources(node *Node, identity resource.Identity) []resource.Resource {
	seen := make(map[string]struct{})
	var visible []resource.Resource
	Walk(node, func(current *Node) {
		if !current.IsLeaf() {
			return
		}
		for _, member := range current.View.Resources() {
			key := identity.ResourceKey(member)
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}
			visible = append(visible, member)
		}
	})
	return visible
}
