package secs

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/compress"
	"github.com/mudformat/mud/format"
	"github.com/mudformat/mud/internal/hash"
	"github.com/mudformat/mud/muderr"
	"github.com/mudformat/mud/secid"
)

func init() {
	catalog.Register(secid.SecCompressedID, compressedOps)
	catalog.Register(secid.SecChecksumID, newOps(func() payload { return &Checksum{} }))
}

// Compressed is SEC_COMPRESSED_ID (SPEC_FULL.md §4.I): a wrapper Section
// whose payload is {codec:u8, rawSize:u32, compressed:[]byte} — another
// Section's fully-serialized bytes (Core included), run through one of
// the compress package's codecs.
type Compressed struct {
	Codec   format.CompressionType
	RawSize uint32
	Wrapped []byte // codec-compressed bytes of the wrapped Section's Core+payload
}

func (c *Compressed) decode(buf *buffer.Buffer) (err error) {
	codecByte, err := buf.ReadRaw(1)
	if err != nil {
		return err
	}
	c.Codec = format.CompressionType(codecByte[0])

	if c.RawSize, err = buf.ReadU32(); err != nil {
		return err
	}

	c.Wrapped, err = buf.ReadRaw(buf.Remaining())

	return err
}

func (c *Compressed) encode(buf *buffer.Buffer) error {
	buf.WriteRaw([]byte{byte(c.Codec)})
	buf.WriteU32(c.RawSize)
	buf.WriteRaw(c.Wrapped)

	return nil
}

func (c *Compressed) size() uint32 { return 5 + uint32(len(c.Wrapped)) } //nolint:gosec

func (c *Compressed) show() string {
	return fmt.Sprintf("<Compressed codec=%s rawSize=%d wrappedLen=%d>", c.Codec, c.RawSize, len(c.Wrapped))
}

// Unwrap decompresses and returns the wrapped Section's raw Core+payload
// bytes, for the caller to feed back through catalog.Decode.
func (c *Compressed) Unwrap() ([]byte, error) {
	codec, err := compress.GetCodec(c.Codec)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(c.Wrapped)
	if err != nil {
		return nil, muderr.ErrCorruptSection
	}
	if uint32(len(raw)) != c.RawSize { //nolint:gosec
		return nil, muderr.ErrCorruptSection
	}

	return raw, nil
}

// Wrap compresses raw (a Section's Core+payload bytes) with codec and
// returns a Compressed ready to be inserted in place of the original.
func Wrap(codec format.CompressionType, raw []byte) (*Compressed, error) {
	c, err := compress.GetCodec(codec)
	if err != nil {
		return nil, err
	}

	compressed, err := c.Compress(raw)
	if err != nil {
		return nil, err
	}

	return &Compressed{Codec: codec, RawSize: uint32(len(raw)), Wrapped: compressed}, nil //nolint:gosec
}

// compressedOps is the registry entry for SEC_COMPRESSED_ID. Unlike the
// generic newOps adapter, it gives the compression envelope its §4.I
// transparency: Decode inflates the wrapped bytes and splices the inner
// Section's Core, Payload and Children into the outer Section in place,
// so every later tree consumer (friendly API, tree.Search, groupEncode)
// dispatches on the inner Section's real secID and never sees
// SEC_COMPRESSED_ID again. Encode/Size still serialize a *Compressed
// payload directly, for the write-side wrapper filedrv constructs when an
// instanceID carries secid.CompressFlag.
var compressedOps = catalog.Ops{
	New: func(uint32) any { return &Compressed{} },
	Decode: func(s *catalog.Section, buf *buffer.Buffer) error {
		c, ok := s.Payload.(*Compressed)
		if !ok {
			c = &Compressed{}
		}
		if err := c.decode(buf); err != nil {
			return err
		}

		raw, err := c.Unwrap()
		if err != nil {
			return err
		}

		inner, err := catalog.Decode(buffer.NewReader(buf.Engine(), raw))
		if err != nil {
			return err
		}

		s.Core.SecID = inner.Core.SecID
		s.Core.InstanceID = inner.Core.InstanceID
		s.Payload = inner.Payload
		s.Children = inner.Children
		for _, child := range s.Children {
			child.Parent = s
		}

		return nil
	},
	Encode: func(s *catalog.Section, buf *buffer.Buffer) error {
		c, ok := s.Payload.(*Compressed)
		if !ok {
			return muderr.SectionContext(muderr.ErrInvalidInput, s.Core.SecID, s.Core.InstanceID)
		}

		return c.encode(buf)
	},
	Size: func(s *catalog.Section) (uint32, error) {
		c, ok := s.Payload.(*Compressed)
		if !ok {
			return 0, muderr.SectionContext(muderr.ErrInvalidInput, s.Core.SecID, s.Core.InstanceID)
		}

		return c.size(), nil
	},
	Free: func(s *catalog.Section) { s.Payload = nil },
	Show: func(s *catalog.Section) string {
		if c, ok := s.Payload.(*Compressed); ok {
			return c.show()
		}

		return fmt.Sprintf("<compressed secID=0x%x instanceID=%d>", s.Core.SecID, s.Core.InstanceID)
	},
}

// Checksum is SEC_CHECKSUM_ID (SPEC_FULL.md §4.J): an xxHash64 digest
// (payload: digest:u64) of the concatenated serialized bytes of the
// enclosing Group's other members, for tamper/corruption detection
// outside the engine's own bounds checking.
type Checksum struct {
	Digest uint64
}

func (c *Checksum) decode(buf *buffer.Buffer) (err error) {
	hi, err := buf.ReadU32()
	if err != nil {
		return err
	}
	lo, err := buf.ReadU32()
	if err != nil {
		return err
	}
	c.Digest = uint64(hi)<<32 | uint64(lo)

	return nil
}

func (c *Checksum) encode(buf *buffer.Buffer) error {
	buf.WriteU32(uint32(c.Digest >> 32))
	buf.WriteU32(uint32(c.Digest))

	return nil
}

func (c *Checksum) size() uint32 { return 8 }

func (c *Checksum) show() string {
	return fmt.Sprintf("<Checksum digest=%016x>", c.Digest)
}

// Verify reports whether data (the enclosing Group's other serialized
// members, concatenated) matches c.Digest.
func (c *Checksum) Verify(data []byte) bool {
	return hash.Digest(data) == c.Digest
}

// NewChecksum computes a Checksum over data, the concatenated serialized
// bytes of a Group's other members.
func NewChecksum(data []byte) *Checksum {
	return &Checksum{Digest: hash.Digest(data)}
}
