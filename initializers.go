package mud

import (
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/secid"
	"github.com/mudformat/mud/secs"
	"github.com/mudformat/mud/tree"
	"github.com/mudformat/mud/wire"
)

// SetRunDesc is the setRunDesc initializer (§4.F): it creates h's run
// description Section if absent, of the variant runDescSecID(h's
// file-format ID) selects, and links it directly under the root. A no-op
// (returns true) if the Section already exists, so callers can call it
// unconditionally before any per-field run-description setter.
func SetRunDesc(h Handle) bool {
	of, found := lookupHandle(h)
	if !found {
		return false
	}

	if _, exists := runDesc(of); exists {
		return true
	}

	secID := runDescSecID(of.fmtID)

	ops, ok := catalog.Lookup(secID)
	if !ok {
		return false
	}

	s := &catalog.Section{Core: wire.Core{SecID: secID, InstanceID: 1}, Payload: ops.New(1)}
	tree.AddToGroup(of.root, s)

	return true
}

// SetHists is the setHists(fh, type, n) initializer (§4.F): it replaces
// any existing histogram group under h's root with a fresh Group holding
// n zero-initialized histogram headers, each stamped with histType.
// Subsequent GetHistData/SetHistData/GetHistNumBins calls index 1..n.
func SetHists(h Handle, histType uint32, n int) bool {
	of, found := lookupHandle(h)
	if !found || n < 0 {
		return false
	}

	groupID, hdrID := histIDs(of.fmtID)

	ops, ok := catalog.Lookup(hdrID)
	if !ok {
		return false
	}

	group := &catalog.Section{Core: wire.Core{SecID: groupID, InstanceID: 1}}
	for i := 1; i <= n; i++ {
		hdr, ok := ops.New(uint32(i)).(*secs.HistHeader) //nolint:forcetypeassert
		if !ok {
			return false
		}
		hdr.HistType = histType

		child := &catalog.Section{Core: wire.Core{SecID: hdrID, InstanceID: uint32(i)}, Payload: hdr} //nolint:gosec
		tree.AddToGroup(group, child)
	}

	replaceGroup(of.root, group)

	return true
}

// SetScalers is the setScalers(fh, n) initializer (§4.F): it replaces any
// existing scaler group under h's root with a fresh Group holding n
// zero-initialized scalers.
func SetScalers(h Handle, n int) bool {
	of, found := lookupHandle(h)
	if !found || n < 0 {
		return false
	}

	scalerID := secid.GenScalerID
	if of.fmtID == secid.FmtTriTDID {
		scalerID = secid.TriTDScalerID
	}

	ops, ok := catalog.Lookup(scalerID)
	if !ok {
		return false
	}

	group := &catalog.Section{Core: wire.Core{SecID: secid.GrpScalerID, InstanceID: 1}}
	for i := 1; i <= n; i++ {
		child := &catalog.Section{
			Core:    wire.Core{SecID: scalerID, InstanceID: uint32(i)}, //nolint:gosec
			Payload: ops.New(uint32(i)),                                //nolint:gosec
		}
		tree.AddToGroup(group, child)
	}

	replaceGroup(of.root, group)

	return true
}

// replaceGroup detaches root's existing direct child sharing group's
// secID and instanceID (if any) and attaches group in its place.
func replaceGroup(root *catalog.Section, group *catalog.Section) {
	if existing := tree.FindChild(root, group.Core.SecID, group.Core.InstanceID); existing != nil {
		tree.RemoveFromGroup(root, existing)
		catalog.Free(existing)
	}

	tree.AddToGroup(root, group)
}
