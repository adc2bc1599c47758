// Package histpack implements the packed histogram bin codec from spec.md
// §6: the variable-length integer stream used when a histogram's
// bytesPerBin is 0. The exact scheme used by the legacy producer isn't
// recoverable from the public header (§9 "Packed histogram scheme
// ambiguity"), so this is a self-delimiting substitute verified by
// round-trip rather than golden bytes, as the spec permits.
//
// Each value is written in the minimum of {1, 2, 4} bytes, preceded by a
// one-byte width tag: 0x00 selects a following byte, 0x01 a following u16,
// 0x02 a following u32. All multi-byte values are little-endian.
package histpack

import (
	"github.com/mudformat/mud/internal/pool"
	"github.com/mudformat/mud/muderr"
)

const (
	tagU8  = 0x00
	tagU16 = 0x01
	tagU32 = 0x02
)

// Pack encodes xs as a tag-prefixed variable-width byte stream.
func Pack(xs []uint32) []byte {
	out := make([]byte, 0, len(xs)*2) // most bin counts fit one or two bytes

	for _, v := range xs {
		switch {
		case v <= 0xFF:
			out = append(out, tagU8, byte(v))
		case v <= 0xFFFF:
			out = append(out, tagU16, byte(v), byte(v>>8))
		default:
			out = append(out, tagU32, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		}
	}

	return out
}

// UnpackInto decodes data into out, stopping once len(out) values have been
// read. Returns ErrCorruptSection if data is exhausted before out is full
// or carries a tag this scheme doesn't recognize.
func UnpackInto(data []byte, out []uint32) error {
	pos := 0

	for i := range out {
		if pos >= len(data) {
			return muderr.ErrCorruptSection
		}
		tag := data[pos]
		pos++

		var v uint32
		switch tag {
		case tagU8:
			if pos+1 > len(data) {
				return muderr.ErrCorruptSection
			}
			v = uint32(data[pos])
			pos++
		case tagU16:
			if pos+2 > len(data) {
				return muderr.ErrCorruptSection
			}
			v = uint32(data[pos]) | uint32(data[pos+1])<<8
			pos += 2
		case tagU32:
			if pos+4 > len(data) {
				return muderr.ErrCorruptSection
			}
			v = uint32(data[pos]) | uint32(data[pos+1])<<8 | uint32(data[pos+2])<<16 | uint32(data[pos+3])<<24
			pos += 4
		default:
			return muderr.ErrCorruptSection
		}

		out[i] = v
	}

	return nil
}

// Unpack decodes data into nBins values, using a pooled destination slice.
// Callers must invoke the returned release func once done with the slice.
func Unpack(data []byte, nBins int) ([]uint32, func(), error) {
	out, release := pool.GetUint32Slice(nBins)

	if err := UnpackInto(data, out); err != nil {
		release()
		return nil, nil, err
	}

	return out, release, nil
}
