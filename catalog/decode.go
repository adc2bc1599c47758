package catalog

import (
	"log/slog"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/muderr"
	"github.com/mudformat/mud/wire"
)

// Decode reads one Section (Core + payload) from buf: a wire.Core,
// followed by exactly Core.Size bytes of payload. If Core.SecID is
// unregistered, the payload is preserved verbatim as Opaque (§4.C) — this
// is logged but never returned as an error, matching §7's "UnknownSection:
// not fatal" rule.
//
// buf must already be bounded to the enclosing scope (the parent Group's
// payload, or the whole-file buffer for the outermost Core); Decode
// relies on that bound to catch a declared Size that would overrun it.
func Decode(buf *buffer.Buffer) (*Section, error) {
	core, err := wire.Decode(buf)
	if err != nil {
		return nil, muderr.SectionContext(err, 0, 0)
	}

	payload, err := buf.ReadRaw(int(core.Size))
	if err != nil {
		return nil, muderr.SectionContext(err, core.SecID, core.InstanceID)
	}

	s := &Section{Core: core}

	ops, ok := Lookup(core.SecID)
	if !ok {
		slog.Default().Warn("mud: unknown section, preserving as opaque",
			"secID", core.SecID, "instanceID", core.InstanceID, "size", core.Size)
		s.Payload = Opaque{Bytes: payload}

		return s, nil
	}

	s.Payload = ops.New(core.InstanceID)

	payloadBuf := buffer.NewReader(buf.Engine(), payload)
	if err := ops.Decode(s, payloadBuf); err != nil {
		return nil, muderr.SectionContext(err, core.SecID, core.InstanceID)
	}

	return s, nil
}
