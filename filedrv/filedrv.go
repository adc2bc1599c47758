// Package filedrv implements the MUD file driver (component E, §4.E):
// whole-file read into a tree, and whole-tree write with the sizing and
// offset fix-up passes that keep nextOffset byte-compatible with legacy
// readers that seek by it instead of by size.
package filedrv

import (
	"io"
	"log/slog"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/endian"
	"github.com/mudformat/mud/format"
	"github.com/mudformat/mud/muderr"
	"github.com/mudformat/mud/secid"
	"github.com/mudformat/mud/secs"
	"github.com/mudformat/mud/tree"
	"github.com/mudformat/mud/wire"
)

// defaultCompressionCodec is used to wrap any Section whose instanceID
// carries secid.CompressFlag (§4.I). The flag itself carries no codec
// selector, so one codec has to be picked; zstd gives the best ratio of
// the teacher's codec set for the delta-encodable histogram and
// independent-variable-array payloads this envelope mainly targets.
const defaultCompressionCodec = format.CompressionZstd

func isFileFormatID(id uint32) bool {
	for _, known := range []uint32{secid.FmtGenID, secid.FmtTriTDID, secid.FmtTriTIID} {
		if id == known {
			return true
		}
	}

	return false
}

// ReadFile decodes a complete MUD stream read from r, using engine as the
// byte order. The outer Core's secID must be one of the file-format IDs
// (§6); anything else is ErrInvalidFile. Returns the root Group Section
// with the whole tree linked beneath it.
func ReadFile(r io.Reader, engine endian.EndianEngine) (*catalog.Section, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, muderr.ErrIOFailure
	}

	buf := buffer.NewReader(engine, raw)

	core, err := wire.Decode(buf)
	if err != nil {
		return nil, muderr.ErrInvalidFile
	}
	if !isFileFormatID(core.SecID) {
		return nil, muderr.ErrInvalidFile
	}

	payload, err := buf.ReadRaw(int(core.Size))
	if err != nil {
		return nil, muderr.ErrInvalidFile
	}

	ops, ok := catalog.Lookup(core.SecID)
	if !ok {
		return nil, muderr.ErrInvalidFile
	}

	root := &catalog.Section{Core: core}
	root.Payload = ops.New(core.InstanceID)

	payloadBuf := buffer.NewReader(engine, payload)
	if err := ops.Decode(root, payloadBuf); err != nil {
		catalog.Free(root)
		slog.Default().Error("mud: readFile failed, discarding partial tree", "error", err)

		return nil, muderr.SectionContext(err, core.SecID, core.InstanceID)
	}

	verifyDigests(root, engine)

	return root, nil
}

// verifyDigests walks every Group in s looking for a SEC_CHECKSUM_ID
// child and, when found, recomputes the digest over its siblings and
// compares it against the stored one (§4.J). A mismatch is logged, never
// returned as an error — digesting is a diagnostic aid, not a §7 error
// condition, and runs regardless of how the handle was opened.
func verifyDigests(s *catalog.Section, engine endian.EndianEngine) {
	if s.IsGroup() {
		var checksum *secs.Checksum
		others := make([]*catalog.Section, 0, len(s.Children))

		for _, child := range s.Children {
			if c, ok := child.Payload.(*secs.Checksum); ok {
				checksum = c
				continue
			}
			others = append(others, child)
		}

		if checksum != nil {
			data, err := digestBytes(others, engine)
			if err != nil {
				slog.Default().Warn("mud: digest verification skipped",
					"secID", s.Core.SecID, "instanceID", s.Core.InstanceID, "error", err)
			} else if !checksum.Verify(data) {
				slog.Default().Warn("mud: content digest mismatch",
					"secID", s.Core.SecID, "instanceID", s.Core.InstanceID)
			}
		}
	}

	for _, child := range s.Children {
		verifyDigests(child, engine)
	}
}

// PrepareForWrite performs the size pass and the offset pass (§4.E steps
// 1-2) over root and everything beneath it, so the emit pass (WriteFile)
// can write correct nextOffset values without a third traversal.
//
// Returns root's own payload size (not including its Core), matching what
// the caller needs to fill in root.Core.Size before emitting the outer
// Core.
func PrepareForWrite(root *catalog.Section) (uint32, error) {
	size, err := catalog.Size(root)
	if err != nil {
		return 0, err
	}

	if err := assignNextOffsets(root.Children); err != nil {
		return 0, err
	}

	return size, nil
}

// assignNextOffsets sets Size and NextOffset on each of children per §8
// invariants 3 and 5: Size is the child's own payload byte count, and
// NextOffset is coreSize+size for every non-last member, 0 for the last.
// Both fields must land on the Section before groupEncode serializes its
// Core, or the re-decode's ReadRaw(Size) slices the wrong number of bytes.
// It recurses into each child's own children so a nested Group's members
// get the same treatment.
func assignNextOffsets(children []*catalog.Section) error {
	for i, child := range children {
		childSize, err := catalog.Size(child)
		if err != nil {
			return err
		}
		child.Core.Size = childSize

		if i == len(children)-1 {
			child.Core.NextOffset = 0
		} else {
			child.Core.NextOffset = wire.CoreSize + childSize
		}

		if err := assignNextOffsets(child.Children); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile runs the compression, digest, size and offset passes over
// root and emits the complete stream to w (§4.E step 3): the outer Core
// followed by a depth-first walk writing each Section's Core+payload.
// digest requests that a trailing SEC_CHECKSUM_ID child be computed and
// appended to every Group (§4.J); it has no effect on whether a
// compressed-flagged Section (§4.I) gets wrapped, which always happens.
func WriteFile(w io.Writer, root *catalog.Section, engine endian.EndianEngine, digest bool) error {
	if err := applyCompressionFlags(root.Children, engine); err != nil {
		return err
	}

	if digest {
		if err := appendDigests(root, engine); err != nil {
			return err
		}
	}

	size, err := PrepareForWrite(root)
	if err != nil {
		return err
	}
	root.Core.Size = size
	root.Core.NextOffset = 0

	buf := buffer.New(engine)
	defer buf.Release()

	wire.Encode(buf, root.Core)
	if err := catalog.Encode(root, buf); err != nil {
		return err
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return muderr.ErrIOFailure
	}

	return nil
}

// applyCompressionFlags replaces every Section in children whose
// instanceID carries secid.CompressFlag with a SEC_COMPRESSED_ID wrapper
// Section holding its compressed Core+payload bytes (§4.I), recursing
// into unflagged children's own children. A flagged Section's own
// children are never visited afterward — they are already sealed inside
// the wrapper's compressed bytes.
func applyCompressionFlags(children []*catalog.Section, engine endian.EndianEngine) error {
	for i, child := range children {
		if child.Core.InstanceID&secid.CompressFlag != 0 {
			wrapped, err := wrapCompressed(child, engine)
			if err != nil {
				return err
			}

			wrapped.Parent = child.Parent
			children[i] = wrapped

			continue
		}

		if err := applyCompressionFlags(child.Children, engine); err != nil {
			return err
		}
	}

	return nil
}

// wrapCompressed serializes child's full Core+payload, compresses it
// with the default codec, and returns a fresh SEC_COMPRESSED_ID Section
// to stand in its place. child's InstanceID has its compress flag
// cleared before serialization, so the wrapped bytes decode back to the
// Section's real identity once inflated.
func wrapCompressed(child *catalog.Section, engine endian.EndianEngine) (*catalog.Section, error) {
	child.Core.InstanceID &^= secid.CompressFlag

	childSize, err := catalog.Size(child)
	if err != nil {
		return nil, err
	}
	child.Core.Size = childSize
	child.Core.NextOffset = 0

	raw := buffer.New(engine)
	defer raw.Release()

	wire.Encode(raw, child.Core)
	if err := catalog.Encode(child, raw); err != nil {
		return nil, err
	}

	compressed, err := secs.Wrap(defaultCompressionCodec, raw.Bytes())
	if err != nil {
		return nil, err
	}

	return &catalog.Section{
		Core:    wire.Core{SecID: secid.SecCompressedID, InstanceID: child.Core.InstanceID},
		Payload: compressed,
	}, nil
}

// appendDigests walks s depth-first and, for every Group it finds
// (including s itself), appends a trailing SEC_CHECKSUM_ID child holding
// the xxHash64 of its other members' serialized bytes (§4.J). It runs
// after compression wrapping so the digest covers the Sections that will
// actually be written, and before the size/offset pass so the new
// checksum children get sized and offset like any other member.
func appendDigests(s *catalog.Section, engine endian.EndianEngine) error {
	for _, child := range s.Children {
		if err := appendDigests(child, engine); err != nil {
			return err
		}
	}

	if !s.IsGroup() {
		return nil
	}

	data, err := digestBytes(s.Children, engine)
	if err != nil {
		return err
	}

	checksum := &catalog.Section{
		Core:    wire.Core{SecID: secid.SecChecksumID},
		Payload: secs.NewChecksum(data),
	}
	tree.AddToGroup(s, checksum)

	return nil
}

// digestBytes concatenates each member's serialized Core+payload (with
// NextOffset forced to zero, so the digest covers content rather than
// layout position) into one byte slice suitable for hash.Digest. Each
// member's own nested Sections get their Size and NextOffset assigned
// first, as the offset pass will write them.
func digestBytes(members []*catalog.Section, engine endian.EndianEngine) ([]byte, error) {
	buf := buffer.New(engine)
	defer buf.Release()

	for _, m := range members {
		if err := assignNextOffsets(m.Children); err != nil {
			return nil, err
		}

		size, err := catalog.Size(m)
		if err != nil {
			return nil, err
		}

		core := m.Core
		core.Size = size
		core.NextOffset = 0

		wire.Encode(buf, core)
		if err := catalog.Encode(m, buf); err != nil {
			return nil, err
		}
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
