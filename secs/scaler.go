package secs

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/secid"
)

func init() {
	catalog.Register(secid.GenScalerID, newOps(func() payload { return &Scaler{} }))
	catalog.Register(secid.TriTDScalerID, newOps(func() payload { return &Scaler{} }))
}

// Scaler is the schema behind GEN_SCALER_ID and TRI_TD_SCALER_ID (§6): a
// pair of counters plus a label, shared verbatim by both variants.
type Scaler struct {
	Counts [2]uint32
	Label  string
}

func (s *Scaler) decode(buf *buffer.Buffer) (err error) {
	if s.Counts[0], err = buf.ReadU32(); err != nil {
		return err
	}
	if s.Counts[1], err = buf.ReadU32(); err != nil {
		return err
	}

	s.Label, err = buf.ReadStr()

	return err
}

func (s *Scaler) encode(buf *buffer.Buffer) error {
	buf.WriteU32(s.Counts[0])
	buf.WriteU32(s.Counts[1])

	return buf.WriteStr(s.Label)
}

func (s *Scaler) size() uint32 { return 8 + strSize(s.Label) }

func (s *Scaler) show() string {
	return fmt.Sprintf("<Scaler %q counts=%v>", s.Label, s.Counts)
}
