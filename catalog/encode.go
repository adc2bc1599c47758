package catalog

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/muderr"
)

// Size reports s's payload byte count if encoded now (§8 invariant 3):
// Opaque sections return len(Bytes) (verbatim re-emission), Groups return
// 4 + Σ(CoreSize + child.Size) (§8 invariant 4), and every other type
// defers to its registered Ops.Size.
func Size(s *Section) (uint32, error) {
	if opaque, ok := s.Payload.(Opaque); ok {
		return uint32(len(opaque.Bytes)), nil //nolint:gosec
	}

	ops, ok := Lookup(s.Core.SecID)
	if !ok {
		return 0, muderr.SectionContext(muderr.ErrUnknownSection, s.Core.SecID, s.Core.InstanceID)
	}

	return ops.Size(s)
}

// Encode writes s's payload (not its Core) to buf. Callers encode the
// Core themselves (see wire.Encode and filedrv's emit pass) so that a
// Group can set each child's Core fields from PrepareForWrite before
// writing them.
func Encode(s *Section, buf *buffer.Buffer) error {
	if opaque, ok := s.Payload.(Opaque); ok {
		buf.WriteRaw(opaque.Bytes)
		return nil
	}

	ops, ok := Lookup(s.Core.SecID)
	if !ok {
		return muderr.SectionContext(muderr.ErrUnknownSection, s.Core.SecID, s.Core.InstanceID)
	}

	return ops.Encode(s, buf)
}

// Free releases payload-owned storage recursively (§3 Lifecycle): it
// walks every child before invoking the type's own Free op, matching "a
// recursive free that invokes each type's dedicated free op."
func Free(s *Section) {
	if s == nil {
		return
	}

	for _, c := range s.Children {
		Free(c)
	}

	if _, ok := s.Payload.(Opaque); ok {
		s.Payload = nil
		return
	}

	ops, ok := Lookup(s.Core.SecID)
	if ok && ops.Free != nil {
		ops.Free(s)
	}
	s.Payload = nil
	s.Children = nil
}

// Show renders a human-readable dump of s. Exact formatting is
// unspecified (§4.C); this is a debugging aid, not part of the wire
// contract.
func Show(s *Section) string {
	if opaque, ok := s.Payload.(Opaque); ok {
		return fmt.Sprintf("<opaque secID=0x%x len=%d>", s.Core.SecID, len(opaque.Bytes))
	}

	ops, ok := Lookup(s.Core.SecID)
	if !ok || ops.Show == nil {
		return fmt.Sprintf("<section secID=0x%x instanceID=%d>", s.Core.SecID, s.Core.InstanceID)
	}

	return ops.Show(s)
}
