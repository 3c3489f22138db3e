// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package categorytree

import "slices"

// TextFilter is an observable filter text. The picker's search input
// writes it; the view listens and re-filters the current tree.
type TextFilter struct {
	text           string
	listeners      map[int]func(string)
	listenerOrder  []int
	nextListenerID int
}

// NewTextFilter returns a filter with no text.
func NewTextFilter() *TextFilter {
	return &TextFilter{listeners: make(map[int]func(string))}
}

// Text returns the current filter text.
func (filter *TextFilter) Text() string {
	return filter.text
}

// Set changes the filter text. Listeners run only when the value
// actually changed.
func (filter *TextFilter) Set(text string) {
	if text == filter.text {
		return
	}
	filter.text = text
	for _, id := range filter.listenerOrder {
		if listener, exists := filter.listeners[id]; exists {
			listener(text)
		}
	}
}

// Listen registers a listener called with the new text after every
// change. Returns a function that removes it.
func (filter *TextFilter) Listen(listener func(string)) (cancel func()) {
	if filter.listeners == nil {
		filter.listeners = make(map[int]func(string))
	}
	id := filter.nextListenerID
	filter.nextListenerID++
	filter.listeners[id] = listener
	filter.listenerOrder = append(filter.listenerOrder, id)
	return func() {
		delete(filter.listeners, id)
		filter.listenerOrder = slices.DeleteFunc(slices.Clone(filter.listenerOrder), func(candidate int) bool {
			return candidate == id
		})
	}
}
