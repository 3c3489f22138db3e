// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package databasesview

import (
	"github.com/bureau-foundation/dbpick/lib/categorytree"
	"github.com/bureau-foundation/dbpick/lib/checkstate"
	"github.com/bureau-foundation/dbpick/lib/resource"
)

// checkbox is the recorded state of one rendered input.
type checkbox struct {
	checked       bool
	disabled      bool
	indeterminate bool
}

type checkboxHandle struct {
	category string
	key      string
}

// recordingRenderer keeps the state of every checkbox from the most
// recent render, keyed the way a DOM would be: by category name or by
// resource identity key.
type recordingRenderer struct {
	identity   resource.Identity
	categories map[string]*checkbox
	resources  map[string]*checkbox
	frames     []Frame
	collapsed  map[string]bool
}

func newRecordingRenderer(identity resource.Identity) *recordingRenderer {
	return &recordingRenderer{identity: identity}
}

func (renderer *recordingRenderer) RenderTree(frame Frame) checkstate.Inputs {
	renderer.frames = append(renderer.frames, frame)
	renderer.categories = make(map[string]*checkbox)
	renderer.resources = make(map[string]*checkbox)
	renderer.collapsed = make(map[string]bool)

	var inputs checkstate.Inputs
	categorytree.Walk(frame.Tree.Root, func(node *categorytree.Node) {
		renderer.categories[node.Name] = &checkbox{}
		renderer.collapsed[node.Name] = node.Collapse
		inputs.Categories = append(inputs.Categories, checkstate.CategoryInput{
			Handle: checkboxHandle{category: node.Name},
			Name:   node.Name,
		})
		if !node.IsLeaf() {
			return
		}
		for _, identifier := range node.View.Identifiers() {
			key := renderer.identity.Key(identifier)
			renderer.resources[key] = &checkbox{}
			inputs.Resources = append(inputs.Resources, checkstate.ResourceInput{
				Handle:     checkboxHandle{key: key},
				Identifier: identifier,
			})
		}
	})
	return inputs
}

func (renderer *recordingRenderer) box(handle checkstate.Handle) *checkbox {
	typed := handle.(checkboxHandle)
	if typed.category != "" {
		return renderer.categories[typed.category]
	}
	return renderer.resources[typed.key]
}

func (renderer *recordingRenderer) Check(handle checkstate.Handle)   { renderer.box(handle).checked = true }
func (renderer *recordingRenderer) Uncheck(handle checkstate.Handle) { renderer.box(handle).checked = false }
func (renderer *recordingRenderer) Enable(handle checkstate.Handle)  { renderer.box(handle).disabled = false }
func (renderer *recordingRenderer) Disable(handle checkstate.Handle) { renderer.box(handle).disabled = true }
func (renderer *recordingRenderer) Determinate(handle checkstate.Handle) {
	renderer.box(handle).indeterminate = false
}
func (renderer *recordingRenderer) Indeterminate(handle checkstate.Handle) {
	renderer.box(handle).indeterminate = true
}

// checkedCount returns the number of checked resource inputs.
func (renderer *recordingRenderer) checkedCount() int {
	count := 0
	for _, box := range renderer.resources {
		if box.checked {
			count++
		}
	}
	return count
}

func (renderer *recordingRenderer) category(name string) checkbox {
	box, exists := renderer.categories[name]
	if !exists {
		return checkbox{}
	}
	return *box
}

func (renderer *recordingRenderer) resource(identifier resource.Identifier) checkbox {
	box, exists := renderer.resources[renderer.identity.Key(identifier)]
	if !exists {
		return checkbox{}
	}
	return *box
}

func (renderer *recordingRenderer) lastFrame() Frame {
	return renderer.frames[len(renderer.frames)-1]
}
