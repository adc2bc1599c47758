package catalog

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/muderr"
	"github.com/mudformat/mud/wire"
)

// groupPayload is the Group's own bookkeeping. A Group's members live in
// Section.Children; groupPayload only records the member count Decode read
// from the wire. Decode reads exactly that many children and makes no
// further check against it.
type groupPayload struct {
	numMembers uint32
}

// groupOps implements the generic Group dispatch (§4.C): a Group's wire
// payload is a u32 member count followed by that many complete Sections
// (Core + payload each), nested to whatever depth the tree requires. Every
// secID marked via RegisterGroup shares this one Ops value.
var groupOps = Ops{
	New: func(uint32) any {
		return &groupPayload{}
	},
	Decode: groupDecode,
	Encode: groupEncode,
	Size:   groupSize,
	Free:   groupFree,
	Show:   groupShow,
}

func groupDecode(s *Section, buf *buffer.Buffer) error {
	numMembers, err := buf.ReadU32()
	if err != nil {
		return err
	}

	s.Payload = &groupPayload{numMembers: numMembers}
	s.Children = make([]*Section, 0, numMembers)

	for i := uint32(0); i < numMembers; i++ {
		child, err := Decode(buf)
		if err != nil {
			return err
		}

		child.Parent = s
		s.Children = append(s.Children, child)
	}

	return validateNextOffsets(s.Children)
}

// validateNextOffsets checks the redundant NextOffset field every non-last
// child carries against its neighbor's position (§7 CorruptSection): each
// child but the last must declare NextOffset == CoreSize + child.Size, and
// the last child must declare NextOffset == 0. A mismatch means the file
// was hand-edited or truncated inconsistently with its own bookkeeping.
func validateNextOffsets(children []*Section) error {
	for i, child := range children {
		isLast := i == len(children)-1

		if isLast {
			if child.Core.NextOffset != 0 {
				return muderr.SectionContext(muderr.ErrCorruptSection, child.Core.SecID, child.Core.InstanceID)
			}
			continue
		}

		want := wire.CoreSize + child.Core.Size
		if child.Core.NextOffset != want {
			return muderr.SectionContext(muderr.ErrCorruptSection, child.Core.SecID, child.Core.InstanceID)
		}
	}

	return nil
}

func groupEncode(s *Section, buf *buffer.Buffer) error {
	buf.WriteU32(uint32(len(s.Children))) //nolint:gosec

	for _, child := range s.Children {
		wire.Encode(buf, child.Core)
		if err := Encode(child, buf); err != nil {
			return err
		}
	}

	return nil
}

func groupSize(s *Section) (uint32, error) {
	total := uint32(4) // member count

	for _, child := range s.Children {
		childSize, err := Size(child)
		if err != nil {
			return 0, err
		}
		total += wire.CoreSize + childSize
	}

	return total, nil
}

func groupFree(s *Section) {
	s.Payload = nil
}

func groupShow(s *Section) string {
	return fmt.Sprintf("<group secID=0x%x instanceID=%d members=%d>", s.Core.SecID, s.Core.InstanceID, len(s.Children))
}
