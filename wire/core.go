// Package wire implements the MUD Section Core codec (component B, §4.B):
// the fixed 24-byte prefix that precedes every Section's payload on disk.
package wire

import (
	"github.com/mudformat/mud/buffer"
)

// CoreSize is the serialized size of a Core in bytes. §3 resolves an
// inconsistency in the distilled spec (it calls the Core both "24 bytes on
// the wire" and, via the GLOSSARY, a "16-byte serialized prefix") by
// writing the Core as six little-endian u32 fields: the four meaningful
// ones plus two reserved-zero fields standing in for the legacy producer's
// in-memory sizeof/procRef slots. See SPEC_FULL.md §3.
const CoreSize = 24

// Core is the fixed prefix of every Section: nextOffset, size, secID, and
// instanceID. The two in-memory-only fields from §3 (Sizeof, the struct's
// in-memory size, and the dispatch-entry reference) are not kept in memory
// at all: on the wire they are the two reserved fields that Encode
// zero-fills and Decode discards.
type Core struct {
	// NextOffset is the byte count from the start of this Section to the
	// start of its next sibling; 0 marks the last member of its enclosing
	// scope.
	NextOffset uint32
	// Size is the payload length in bytes, not including the Core.
	Size uint32
	// SecID is the 32-bit type identifier selecting a registry entry.
	SecID uint32
	// InstanceID disambiguates repeated children of the same SecID within
	// a Group; the friendly API treats it as a 1-based selector.
	InstanceID uint32
}

// Decode reads a Core from b. The two reserved wire fields are consumed
// and discarded; they are never validated, matching their role as inert
// padding from the legacy on-disk layout.
func Decode(b *buffer.Buffer) (Core, error) {
	var c Core

	nextOffset, err := b.ReadU32()
	if err != nil {
		return Core{}, err
	}
	size, err := b.ReadU32()
	if err != nil {
		return Core{}, err
	}
	secID, err := b.ReadU32()
	if err != nil {
		return Core{}, err
	}
	instanceID, err := b.ReadU32()
	if err != nil {
		return Core{}, err
	}
	if _, err := b.ReadRaw(8); err != nil { // reserved
		return Core{}, err
	}

	c.NextOffset = nextOffset
	c.Size = size
	c.SecID = secID
	c.InstanceID = instanceID

	return c, nil
}

// Encode writes c to b, zero-filling the two reserved wire fields.
func Encode(b *buffer.Buffer, c Core) {
	b.WriteU32(c.NextOffset)
	b.WriteU32(c.Size)
	b.WriteU32(c.SecID)
	b.WriteU32(c.InstanceID)
	b.WriteRaw([]byte{0, 0, 0, 0, 0, 0, 0, 0})
}
