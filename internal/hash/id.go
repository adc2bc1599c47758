// Package hash provides the xxHash64 digest used by the content-digest
// domain feature (§4.J): a SEC_CHECKSUM_ID Section stores the xxHash64 of
// the concatenated serialized bytes of its parent Group's other members,
// giving readers a cheap (non-fatal) integrity check on top of the plain
// nextOffset/size bookkeeping the engine already does.
package hash

import "github.com/cespare/xxhash/v2"

// Digest computes the xxHash64 of data.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
