package secs

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
)

// payload is what every non-Group catalogue type implements; newOps adapts
// it to catalog.Ops so each type only writes its own wire schema.
type payload interface {
	decode(buf *buffer.Buffer) error
	encode(buf *buffer.Buffer) error
	size() uint32
}

// shower is an optional refinement of payload for a debug-friendly Show.
type shower interface {
	show() string
}

func newOps(factory func() payload) catalog.Ops {
	return catalog.Ops{
		New: func(uint32) any { return factory() },
		Decode: func(s *catalog.Section, buf *buffer.Buffer) error {
			return s.Payload.(payload).decode(buf) //nolint:forcetypeassert
		},
		Encode: func(s *catalog.Section, buf *buffer.Buffer) error {
			return s.Payload.(payload).encode(buf) //nolint:forcetypeassert
		},
		Size: func(s *catalog.Section) (uint32, error) {
			return s.Payload.(payload).size(), nil //nolint:forcetypeassert
		},
		Show: func(s *catalog.Section) string {
			if sh, ok := s.Payload.(shower); ok {
				return sh.show()
			}

			return fmt.Sprintf("%T", s.Payload)
		},
	}
}
