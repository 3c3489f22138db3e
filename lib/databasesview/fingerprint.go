// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package databasesview

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

// fingerprint is a BLAKE3 digest of an ordered identifier list.
type fingerprint [32]byte

// fingerprintOf hashes the identity key of every identifier in order.
// Keys are length-prefixed so that no two different lists produce the
// same byte stream.
func fingerprintOf(identity resource.Identity, identifiers []resource.Identifier) fingerprint {
	hasher := blake3.New()
	var length [4]byte
	for _, identifier := range identifiers {
		key := identity.Key(identifier)
		binary.BigEndian.PutUint32(length[:], uint32(len(key)))
		hasher.Write(length[:])
		hasher.Write([]byte(key))
	}
	var result fingerprint
	copy(result[:], hasher.Sum(nil))
	return result
}
