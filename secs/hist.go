package secs

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/endian"
	"github.com/mudformat/mud/histpack"
	"github.com/mudformat/mud/muderr"
	"github.com/mudformat/mud/secid"
)

func init() {
	catalog.Register(secid.GenHistHdrID, newOps(func() payload { return &HistHeader{} }))
	catalog.Register(secid.TriTDHistID, newOps(func() payload { return &HistHeader{} }))
	catalog.Register(secid.TriTIHistID, newOps(func() payload { return &HistHeader{} }))
	catalog.Register(secid.SecondsPerBinID, newOps(func() payload { return &SecondsPerBin{} }))
}

// HistHeader is the common schema behind GEN_HIST_HDR_ID, TRI_TD_HIST_ID,
// and TRI_TI_HIST_ID (§6): the three variants differ only in which Group
// they live under, not in wire layout.
//
// Data holds the raw nBytes payload exactly as it appears on disk: when
// BytesPerBin is 1, 2, or 4, Data is a little-endian element array of that
// width; when BytesPerBin is 0, Data is a histpack-packed variable-length
// stream. The friendly API (GetHistData/SetHistData) is responsible for
// unpacking and repacking — HistHeader itself is a byte-exact mirror of
// the wire format (§6 "Histogram packing").
type HistHeader struct {
	HistType    uint32
	NBytes      uint32
	NBins       uint32
	BytesPerBin uint32
	FsPerBin    uint32
	T0Ps        uint32
	T0Bin       uint32
	GoodBin1    uint32
	GoodBin2    uint32
	Bkgd1       uint32
	Bkgd2       uint32
	NEvents     uint32
	Title       string
	Data        []byte
}

func (h *HistHeader) decode(buf *buffer.Buffer) (err error) {
	fields := []*uint32{
		&h.HistType, &h.NBytes, &h.NBins, &h.BytesPerBin, &h.FsPerBin,
		&h.T0Ps, &h.T0Bin, &h.GoodBin1, &h.GoodBin2, &h.Bkgd1, &h.Bkgd2, &h.NEvents,
	}
	for _, f := range fields {
		if *f, err = buf.ReadU32(); err != nil {
			return err
		}
	}

	if h.Title, err = buf.ReadStr(); err != nil {
		return err
	}

	h.Data, err = buf.ReadRaw(int(h.NBytes))

	return err
}

func (h *HistHeader) encode(buf *buffer.Buffer) error {
	fields := []uint32{
		h.HistType, h.NBytes, h.NBins, h.BytesPerBin, h.FsPerBin,
		h.T0Ps, h.T0Bin, h.GoodBin1, h.GoodBin2, h.Bkgd1, h.Bkgd2, h.NEvents,
	}
	for _, f := range fields {
		buf.WriteU32(f)
	}

	if err := buf.WriteStr(h.Title); err != nil {
		return err
	}

	buf.WriteRaw(h.Data)

	return nil
}

func (h *HistHeader) size() uint32 {
	return 12*4 + strSize(h.Title) + uint32(len(h.Data)) //nolint:gosec
}

func (h *HistHeader) show() string {
	return fmt.Sprintf("<HistHeader title=%q nBins=%d bytesPerBin=%d>", h.Title, h.NBins, h.BytesPerBin)
}

// UnpackedData returns h.Data as nBins 32-bit values, unpacking the
// histpack stream when BytesPerBin is 0 and decoding the fixed-width
// little-endian array otherwise (§6 "Histogram packing").
func (h *HistHeader) UnpackedData(engine endian.EndianEngine) ([]uint32, error) {
	switch h.BytesPerBin {
	case 0:
		out, release, err := histpack.Unpack(h.Data, int(h.NBins))
		if err != nil {
			return nil, err
		}
		defer release()

		cp := make([]uint32, len(out))
		copy(cp, out)

		return cp, nil
	case 1:
		out := make([]uint32, h.NBins)
		for i := range out {
			if int(i) >= len(h.Data) {
				return nil, muderr.ErrCorruptSection
			}
			out[i] = uint32(h.Data[i])
		}

		return out, nil
	case 2:
		out := make([]uint32, h.NBins)
		for i := range out {
			off := i * 2
			if off+2 > len(h.Data) {
				return nil, muderr.ErrCorruptSection
			}
			out[i] = uint32(engine.Uint16(h.Data[off : off+2]))
		}

		return out, nil
	case 4:
		out := make([]uint32, h.NBins)
		for i := range out {
			off := i * 4
			if off+4 > len(h.Data) {
				return nil, muderr.ErrCorruptSection
			}
			out[i] = engine.Uint32(h.Data[off : off+4])
		}

		return out, nil
	default:
		return nil, muderr.ErrInvalidInput
	}
}

// SecondsPerBin is the auxiliary Section (SEC §6 Bin-time invariant) that
// carries the exact bin interval when FsPerBin can't represent it. It sits
// alongside a HistHeader in the same Group, sharing its InstanceID.
type SecondsPerBin struct {
	Value float64
}

func (s *SecondsPerBin) decode(buf *buffer.Buffer) (err error) {
	s.Value, err = buf.ReadF64()
	return err
}

func (s *SecondsPerBin) encode(buf *buffer.Buffer) error {
	buf.WriteF64(s.Value)
	return nil
}

func (s *SecondsPerBin) size() uint32 { return 8 }

func (s *SecondsPerBin) show() string { return fmt.Sprintf("<SecondsPerBin %v>", s.Value) }
