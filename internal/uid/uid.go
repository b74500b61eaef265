// Package uid derives deterministic UUIDs from externally meaningful
// strings (System codes, ConversionGraph expressions), so that equal
// strings always map to equal record keys.
//
// This is a direct, bug-compatible port of the original Rust
// implementation's generate_deterministic_uuid: a 64-bit digest fills
// the first 8 bytes, and the same digest rotated right by 32 bits fills
// the last 8. This is collision-prone compared to a proper UUIDv5/SHA-1
// derivation, and is kept that way intentionally — see DESIGN.md.
package uid

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Derive maps s to a 16-byte UUID via a 64-bit digest duplicated and
// rotated to fill 128 bits.
func Derive(s string) uuid.UUID {
	digest := xxhash.Sum64String(s)
	rotated := bits.RotateLeft64(digest, -32) // right-rotate by 32

	var raw [16]byte
	binary.LittleEndian.PutUint64(raw[0:8], digest)
	binary.LittleEndian.PutUint64(raw[8:16], rotated)

	id, _ := uuid.FromBytes(raw[:])
	return id
}
