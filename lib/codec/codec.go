// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

// Selection is the machine-readable record of a pick.
type Selection struct {
	// Identity names the identity policy the identifiers were
	// projected with ("name" or "domain-name").
	Identity string `json:"identity" yaml:"identity"`

	// All is true when the user left every resource implicitly
	// selected. Resources then lists the whole collection.
	All bool `json:"all" yaml:"all"`

	// Resources is the resolved selection in selection order.
	Resources []resource.Identifier `json:"resources" yaml:"resources"`
}

// Keys returns the identity key of every selected resource under the
// named identity policy.
func (selection Selection) Keys() ([]string, error) {
	identity, ok := resource.IdentityByName(selection.Identity)
	if !ok {
		return nil, fmt.Errorf("unknown identity policy %q", selection.Identity)
	}
	keys := make([]string, len(selection.Resources))
	for index, identifier := range selection.Resources {
		keys[index] = identity.Key(identifier)
	}
	return keys, nil
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	// Selections are read back by tests and by programs consuming
	// the picker's output. Duplicate map keys would make the decoded
	// value depend on the decoder, so reject them.
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// WriteCBOR writes selection to w as a single deterministic CBOR item.
func WriteCBOR(w io.Writer, selection Selection) error {
	if selection.Resources == nil {
		selection.Resources = []resource.Identifier{}
	}
	return encMode.NewEncoder(w).Encode(selection)
}

// ReadCBOR decodes one selection from r.
func ReadCBOR(r io.Reader) (Selection, error) {
	var selection Selection
	if err := decMode.NewDecoder(r).Decode(&selection); err != nil {
		return Selection{}, fmt.Errorf("decoding selection: %w", err)
	}
	return selection, nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
