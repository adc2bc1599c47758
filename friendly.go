package mud

import (
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/endian"
	"github.com/mudformat/mud/histpack"
	"github.com/mudformat/mud/muderr"
	"github.com/mudformat/mud/secid"
	"github.com/mudformat/mud/secs"
	"github.com/mudformat/mud/tree"
)

// runDescSecID reports which run-description variant fmtID's files carry
// (§6): TRI-TI files use the subtitle/comment layout, everything else
// uses the generic one.
func runDescSecID(fmtID uint32) uint32 {
	if fmtID == secid.FmtTriTIID {
		return secid.TriTiRunDescID
	}

	return secid.GenRunDescID
}

// histIDs reports the (group, header) secID pair fmtID's histograms live
// under (§6).
func histIDs(fmtID uint32) (groupID, hdrID uint32) {
	switch fmtID {
	case secid.FmtTriTDID:
		return secid.GrpTriTDHistID, secid.TriTDHistID
	case secid.FmtTriTIID:
		return secid.GrpTriTIHistID, secid.TriTIHistID
	default:
		return secid.GrpGenericID, secid.GenHistHdrID
	}
}

func runDesc(of *openFile) (*catalog.Section, bool) {
	s := tree.Search(of.root, tree.Step{SecID: of.fmtID, InstanceID: 0}, tree.Step{SecID: runDescSecID(of.fmtID), InstanceID: 1})
	return s, s != nil
}

// GetRunNumber returns the run number recorded in h's run description.
// ok is false if h is invalid or carries no run description.
func GetRunNumber(h Handle) (runNumber uint32, ok bool) {
	of, found := lookupHandle(h)
	if !found {
		return 0, false
	}
	s, found := runDesc(of)
	if !found {
		return 0, false
	}

	switch p := s.Payload.(type) {
	case *secs.GenRunDesc:
		return p.RunNumber, true
	case *secs.TriTiRunDesc:
		return p.RunNumber, true
	default:
		return 0, false
	}
}

// SetRunNumber sets the run number in h's run description. Returns false
// (never raises, §7) if h is invalid or carries no run description.
func SetRunNumber(h Handle, runNumber uint32) bool {
	of, found := lookupHandle(h)
	if !found {
		return false
	}
	s, found := runDesc(of)
	if !found {
		return false
	}

	switch p := s.Payload.(type) {
	case *secs.GenRunDesc:
		p.RunNumber = runNumber
	case *secs.TriTiRunDesc:
		p.RunNumber = runNumber
	default:
		return false
	}

	return true
}

// GetTitle returns h's run title.
func GetTitle(h Handle) (title string, ok bool) {
	of, found := lookupHandle(h)
	if !found {
		return "", false
	}
	s, found := runDesc(of)
	if !found {
		return "", false
	}

	switch p := s.Payload.(type) {
	case *secs.GenRunDesc:
		return p.Title, true
	case *secs.TriTiRunDesc:
		return p.Title, true
	default:
		return "", false
	}
}

// SetTitle sets h's run title.
func SetTitle(h Handle, title string) bool {
	of, found := lookupHandle(h)
	if !found {
		return false
	}
	s, found := runDesc(of)
	if !found {
		return false
	}

	switch p := s.Payload.(type) {
	case *secs.GenRunDesc:
		p.Title = title
	case *secs.TriTiRunDesc:
		p.Title = title
	default:
		return false
	}

	return true
}

func histGroup(of *openFile) (*catalog.Section, uint32, bool) {
	groupID, hdrID := histIDs(of.fmtID)
	g := tree.Search(of.root, tree.Step{SecID: of.fmtID, InstanceID: 0}, tree.Step{SecID: groupID, InstanceID: 1})

	return g, hdrID, g != nil
}

// GetHists reports the histogram group's secID and member count (S3).
func GetHists(h Handle) (groupSecID uint32, n int, ok bool) {
	of, found := lookupHandle(h)
	if !found {
		return 0, 0, false
	}
	g, _, found := histGroup(of)
	if !found {
		return 0, 0, false
	}

	return g.Core.SecID, len(g.Children), true
}

func histHeader(of *openFile, instanceID uint32) (*secs.HistHeader, bool) {
	g, hdrID, found := histGroup(of)
	if !found {
		return nil, false
	}

	s := tree.FindChild(g, hdrID, instanceID)
	if s == nil {
		return nil, false
	}

	hdr, ok := s.Payload.(*secs.HistHeader)

	return hdr, ok
}

// GetHistNumBins returns the bin count of the instanceID-th histogram
// (1-based, §4.D) (S3).
func GetHistNumBins(h Handle, instanceID uint32) (nBins uint32, ok bool) {
	of, found := lookupHandle(h)
	if !found {
		return 0, false
	}
	hdr, found := histHeader(of, instanceID)
	if !found {
		return 0, false
	}

	return hdr.NBins, true
}

// GetHistData unpacks the instanceID-th histogram's bin data into 32-bit
// elements, per the BytesPerBin/packed-stream rule of §6 (S3).
func GetHistData(h Handle, instanceID uint32) ([]uint32, bool) {
	of, found := lookupHandle(h)
	if !found {
		return nil, false
	}
	hdr, found := histHeader(of, instanceID)
	if !found {
		return nil, false
	}

	data, err := hdr.UnpackedData(endian.GetLittleEndianEngine())
	if err != nil {
		return nil, false
	}

	return data, true
}

// SetHistData repacks in as the instanceID-th histogram's bin data. If
// BytesPerBin is 0 the data is histpack-encoded; otherwise it is stored as
// a fixed-width little-endian array (§6).
func SetHistData(h Handle, instanceID uint32, in []uint32) bool {
	of, found := lookupHandle(h)
	if !found {
		return false
	}
	hdr, found := histHeader(of, instanceID)
	if !found {
		return false
	}

	if err := setHistDataInto(hdr, in); err != nil {
		return false
	}

	return true
}

// GetHistSecondsPerBin returns the exact bin interval, preferring the
// SecondsPerBin auxiliary Section over fsPerBin*1e-15 when present (§6
// Bin-time invariant).
func GetHistSecondsPerBin(h Handle, instanceID uint32) (seconds float64, ok bool) {
	of, found := lookupHandle(h)
	if !found {
		return 0, false
	}
	g, hdrID, found := histGroup(of)
	if !found {
		return 0, false
	}

	hdr, found := histHeader(of, instanceID)
	if !found {
		return 0, false
	}

	hdrSec := tree.FindChild(g, hdrID, instanceID)
	for _, aux := range g.Children {
		if aux.Core.SecID != secid.SecondsPerBinID || aux.Core.InstanceID != hdrSec.Core.InstanceID {
			continue
		}
		if sp, ok := aux.Payload.(*secs.SecondsPerBin); ok {
			return sp.Value, true
		}
	}

	return float64(hdr.FsPerBin) * 1e-15, true
}

// GetComment returns the instanceID-th comment attached to h's comment
// group.
func GetComment(h Handle, instanceID uint32) (*secs.Comment, bool) {
	of, found := lookupHandle(h)
	if !found {
		return nil, false
	}
	s := tree.Search(of.root, tree.Step{SecID: of.fmtID, InstanceID: 0},
		tree.Step{SecID: secid.GrpCommentID, InstanceID: 1})
	if s == nil {
		return nil, false
	}

	c := tree.FindChild(s, secid.CmtID, instanceID)
	if c == nil {
		return nil, false
	}

	cmt, ok := c.Payload.(*secs.Comment)

	return cmt, ok
}

// SetComment replaces the instanceID-th comment's fields in h's comment
// group with c.
func SetComment(h Handle, instanceID uint32, c secs.Comment) bool {
	existing, found := GetComment(h, instanceID)
	if !found {
		return false
	}

	*existing = c

	return true
}

// GetIndVar returns the instanceID-th independent-variable summary
// attached to h.
func GetIndVar(h Handle, instanceID uint32) (*secs.IndVar, bool) {
	of, found := lookupHandle(h)
	if !found {
		return nil, false
	}
	s := tree.Search(of.root, tree.Step{SecID: of.fmtID, InstanceID: 0},
		tree.Step{SecID: secid.GrpIndVarID, InstanceID: 1})
	if s == nil {
		return nil, false
	}

	v := tree.FindChild(s, secid.GenIndVarID, instanceID)
	if v == nil {
		return nil, false
	}

	iv, ok := v.Payload.(*secs.IndVar)

	return iv, ok
}

// SetIndVar replaces the instanceID-th independent-variable summary.
func SetIndVar(h Handle, instanceID uint32, v secs.IndVar) bool {
	existing, found := GetIndVar(h, instanceID)
	if !found {
		return false
	}

	*existing = v

	return true
}

// GetIndVarArray returns the instanceID-th independent-variable array
// attached to h.
func GetIndVarArray(h Handle, instanceID uint32) (*secs.IndVarArray, bool) {
	of, found := lookupHandle(h)
	if !found {
		return nil, false
	}
	s := tree.Search(of.root, tree.Step{SecID: of.fmtID, InstanceID: 0},
		tree.Step{SecID: secid.GrpIndVarArrID, InstanceID: 1})
	if s == nil {
		return nil, false
	}

	a := tree.FindChild(s, secid.GenIndVarArrID, instanceID)
	if a == nil {
		return nil, false
	}

	arr, ok := a.Payload.(*secs.IndVarArray)

	return arr, ok
}

// SetIndVarArray replaces the instanceID-th independent-variable array.
func SetIndVarArray(h Handle, instanceID uint32, a secs.IndVarArray) bool {
	existing, found := GetIndVarArray(h, instanceID)
	if !found {
		return false
	}

	*existing = a

	return true
}

// setHistDataInto repacks data into hdr per its configured BytesPerBin,
// matching the initializer contract described alongside setHists (§6).
func setHistDataInto(hdr *secs.HistHeader, data []uint32) error {
	engine := endian.GetLittleEndianEngine()

	switch hdr.BytesPerBin {
	case 0:
		hdr.Data = histpack.Pack(data)
	case 1:
		out := make([]byte, len(data))
		for i, v := range data {
			if v > 0xFF {
				return muderr.ErrInvalidInput
			}
			out[i] = byte(v)
		}
		hdr.Data = out
	case 2:
		out := make([]byte, len(data)*2)
		for i, v := range data {
			if v > 0xFFFF {
				return muderr.ErrInvalidInput
			}
			engine.PutUint16(out[i*2:i*2+2], uint16(v)) //nolint:gosec
		}
		hdr.Data = out
	case 4:
		out := make([]byte, len(data)*4)
		for i, v := range data {
			engine.PutUint32(out[i*4:i*4+4], v)
		}
		hdr.Data = out
	default:
		return muderr.ErrInvalidInput
	}

	hdr.NBytes = uint32(len(hdr.Data)) //nolint:gosec
	hdr.NBins = uint32(len(data))      //nolint:gosec

	return nil
}
