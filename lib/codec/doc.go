// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec encodes the result of a pick for other programs.
//
// A finished pick is described by a [Selection]: the identity policy
// in force, whether the user left everything implicitly selected, and
// the resolved list of selected identifiers. The CLI prints it as
// text, JSON or YAML, or writes it as CBOR for programs that read the
// picker's output from a pipe.
//
// CBOR output uses Core Deterministic Encoding (RFC 8949 §4.2): map
// keys sorted, integers in their shortest form, no indefinite-length
// items. Two picks with the same result produce identical bytes, so a
// caller can compare or hash outputs directly.
//
// Types in this package carry only `json` tags. fxamacker/cbor falls
// back to them when a `cbor` tag is absent, so one tag names a field
// in every format.
package codec
