// Package buffer implements the MUD engine's byte buffer and primitive
// codec (component A, §4.A): an expandable byte array with independent
// read and write cursors, and the fixed-width/length-prefixed primitives
// every higher layer (the Core codec, the type registry, the catalogue)
// builds on.
//
// A Buffer is created once per open file or per in-memory Section build
// and carries a single endian.EndianEngine for its lifetime — the file
// driver selects that engine once, at open time (§4.A), and every read or
// write through the buffer honors it.
package buffer

import (
	"math"
	"time"

	"github.com/mudformat/mud/endian"
	"github.com/mudformat/mud/internal/pool"
	"github.com/mudformat/mud/muderr"
)

// MaxStringLength is the largest string payload the wire format can
// represent: a u16 length prefix tops out at 65535 bytes.
const MaxStringLength = math.MaxUint16

// Buffer is a dual-cursor byte buffer: WriteXxx methods append to the
// internal growable slice, ReadXxx methods consume from an independent
// read cursor. Reading and writing the same Buffer concurrently from
// multiple goroutines is not safe; see §5.
type Buffer struct {
	engine endian.EndianEngine
	pb     *pool.ByteBuffer
	rpos   int
}

// New creates an empty Buffer ready for writing, using engine for all
// multi-byte primitives.
func New(engine endian.EndianEngine) *Buffer {
	return &Buffer{engine: engine, pb: pool.GetSectionBuffer()}
}

// NewReader wraps data for sequential reading with engine as the byte
// order. The returned Buffer does not copy data; callers must not mutate
// it while the Buffer is in use.
func NewReader(engine endian.EndianEngine, data []byte) *Buffer {
	pb := &pool.ByteBuffer{B: data}

	return &Buffer{engine: engine, pb: pb}
}

// Release returns the Buffer's internal storage to the package pool. Only
// Buffers created with New (not NewReader, which wraps caller-owned data)
// should be released.
func (b *Buffer) Release() {
	if b.pb != nil {
		pool.PutSectionBuffer(b.pb)
		b.pb = nil
	}
}

// Engine returns the byte order this Buffer encodes and decodes with.
func (b *Buffer) Engine() endian.EndianEngine { return b.engine }

// Bytes returns the buffer's written content (for a write Buffer) or its
// full backing data (for a read Buffer). The returned slice aliases the
// Buffer's internal storage.
func (b *Buffer) Bytes() []byte { return b.pb.Bytes() }

// Len returns the total number of bytes held by the buffer.
func (b *Buffer) Len() int { return b.pb.Len() }

// Pos returns the current read cursor position.
func (b *Buffer) Pos() int { return b.rpos }

// Seek repositions the read cursor to an absolute byte offset. It does not
// validate pos against the buffer length; the next Read call will report
// ErrCorruptSection if pos turns out to be out of range.
func (b *Buffer) Seek(pos int) { b.rpos = pos }

// Remaining returns the number of unread bytes left from the read cursor
// to the end of the buffer.
func (b *Buffer) Remaining() int {
	n := b.pb.Len() - b.rpos
	if n < 0 {
		return 0
	}

	return n
}

func (b *Buffer) requireRead(n int) error {
	if b.rpos < 0 || n < 0 || b.rpos+n > b.pb.Len() {
		return muderr.ErrCorruptSection
	}

	return nil
}

// ReadRaw reads and returns the next n bytes without interpretation. The
// returned slice aliases the Buffer's storage; callers that retain it
// beyond the current decode must copy it first (see §9 string ownership).
func (b *Buffer) ReadRaw(n int) ([]byte, error) {
	if err := b.requireRead(n); err != nil {
		return nil, err
	}
	out := b.pb.Bytes()[b.rpos : b.rpos+n]
	b.rpos += n

	return out, nil
}

// WriteRaw appends n bytes verbatim, growing the buffer if necessary.
func (b *Buffer) WriteRaw(data []byte) {
	b.pb.Grow(len(data))
	b.pb.MustWrite(data)
}

// ReadU16 reads an unsigned 16-bit integer in the buffer's byte order.
func (b *Buffer) ReadU16() (uint16, error) {
	if err := b.requireRead(2); err != nil {
		return 0, err
	}
	v := b.engine.Uint16(b.pb.Bytes()[b.rpos : b.rpos+2])
	b.rpos += 2

	return v, nil
}

// WriteU16 appends an unsigned 16-bit integer in the buffer's byte order.
func (b *Buffer) WriteU16(v uint16) {
	var tmp [2]byte
	b.engine.PutUint16(tmp[:], v)
	b.WriteRaw(tmp[:])
}

// ReadI16 reads a signed 16-bit integer in the buffer's byte order.
func (b *Buffer) ReadI16() (int16, error) {
	v, err := b.ReadU16()
	return int16(v), err //nolint:gosec
}

// WriteI16 appends a signed 16-bit integer in the buffer's byte order.
func (b *Buffer) WriteI16(v int16) {
	b.WriteU16(uint16(v)) //nolint:gosec
}

// ReadU32 reads an unsigned 32-bit integer in the buffer's byte order.
func (b *Buffer) ReadU32() (uint32, error) {
	if err := b.requireRead(4); err != nil {
		return 0, err
	}
	v := b.engine.Uint32(b.pb.Bytes()[b.rpos : b.rpos+4])
	b.rpos += 4

	return v, nil
}

// WriteU32 appends an unsigned 32-bit integer in the buffer's byte order.
func (b *Buffer) WriteU32(v uint32) {
	var tmp [4]byte
	b.engine.PutUint32(tmp[:], v)
	b.WriteRaw(tmp[:])
}

// ReadI32 reads a signed 32-bit integer in the buffer's byte order.
func (b *Buffer) ReadI32() (int32, error) {
	v, err := b.ReadU32()
	return int32(v), err //nolint:gosec
}

// WriteI32 appends a signed 32-bit integer in the buffer's byte order.
func (b *Buffer) WriteI32(v int32) {
	b.WriteU32(uint32(v)) //nolint:gosec
}

// ReadF64 reads an IEEE-754 double in the buffer's byte order.
func (b *Buffer) ReadF64() (float64, error) {
	if err := b.requireRead(8); err != nil {
		return 0, err
	}
	bits := b.engine.Uint64(b.pb.Bytes()[b.rpos : b.rpos+8])
	b.rpos += 8

	return math.Float64frombits(bits), nil
}

// WriteF64 appends an IEEE-754 double in the buffer's byte order.
func (b *Buffer) WriteF64(v float64) {
	var tmp [8]byte
	b.engine.PutUint64(tmp[:], math.Float64bits(v))
	b.WriteRaw(tmp[:])
}

// ReadTime reads a 32-bit unsigned seconds-since-epoch timestamp (§4.A).
// MUD never widens this field to 64 bits on disk.
func (b *Buffer) ReadTime() (time.Time, error) {
	secs, err := b.ReadU32()
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(int64(secs), 0).UTC(), nil
}

// WriteTime appends t as a 32-bit unsigned seconds-since-epoch timestamp.
// Times after the u32 epoch rollover (year 2106) are truncated by the
// wire format itself; callers that set far-future times should expect
// the round-trip to wrap.
func (b *Buffer) WriteTime(t time.Time) {
	b.WriteU32(uint32(t.Unix())) //nolint:gosec
}

// ReadStr reads a length-prefixed string: a u16 byte length followed by
// that many bytes, with no trailing NUL on disk. A length of 0 yields an
// empty string. Returns ErrCorruptSection if the declared length exceeds
// the remaining payload.
func (b *Buffer) ReadStr() (string, error) {
	n, err := b.ReadU16()
	if err != nil {
		return "", err
	}
	raw, err := b.ReadRaw(int(n))
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

// WriteStr appends s as a u16 byte length followed by its bytes. Returns
// an error if s is longer than MaxStringLength.
func (b *Buffer) WriteStr(s string) error {
	if len(s) > MaxStringLength {
		return muderr.ErrInvalidInput
	}
	b.WriteU16(uint16(len(s))) //nolint:gosec
	b.WriteRaw([]byte(s))

	return nil
}
