// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checkstate

import "github.com/bureau-foundation/dbpick/lib/resource"

// Handle is an opaque reference to a rendered checkbox. Only the
// [Controls] implementation that produced it knows what it is.
type Handle any

// Controls is the capability a render surface provides to change a
// checkbox.
type Controls interface {
	Check(Handle)
	Uncheck(Handle)
	Enable(Handle)
	Disable(Handle)
	Determinate(Handle)
	Indeterminate(Handle)
}

// ResourceInput is a rendered resource checkbox.
type ResourceInput struct {
	Handle     Handle
	Identifier resource.Identifier
}

// CategoryInput is a rendered category checkbox.
type CategoryInput struct {
	Handle Handle
	Name   string
}

// Inputs lists every checkbox a render pass produced. A resource that
// appears in two categories has two inputs.
type Inputs struct {
	Resources  []ResourceInput
	Categories []CategoryInput
}

// Apply resets every input to unchecked, enabled and determinate, then
// drives it to the state recorded in result.
func Apply(result Result, identity resource.Identity, controls Controls, inputs Inputs) {
	reset := func(handle Handle) {
		controls.Uncheck(handle)
		controls.Enable(handle)
		controls.Determinate(handle)
	}
	for _, input := range inputs.Resources {
		reset(input.Handle)
	}
	for _, input := range inputs.Categories {
		reset(input.Handle)
	}

	for _, input := range inputs.Resources {
		applyState(controls, input.Handle, result.Resource(identity.Key(input.Identifier)))
	}
	for _, input := range inputs.Categories {
		applyState(controls, input.Handle, result.Category(input.Name))
	}
}

func applyState(controls Controls, handle Handle, state State) {
	switch state.Check {
	case Checked:
		controls.Check(handle)
	case Indeterminate:
		controls.Indeterminate(handle)
	default:
		controls.Uncheck(handle)
	}
	if state.Disabled {
		controls.Disable(handle)
	}
}
