package mud

import (
	"path/filepath"
	"testing"

	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/secid"
	"github.com/mudformat/mud/secs"
	"github.com/mudformat/mud/tree"
	"github.com/mudformat/mud/wire"
	"github.com/stretchr/testify/require"
)

// buildTriTD assembles a minimal TRI-TD tree: a run description plus a
// single-member histogram group, matching the layout the friendly API
// expects for secid.FmtTriTDID.
func buildTriTD(t *testing.T, runNumber uint32, title string) *catalog.Section {
	t.Helper()

	root := &catalog.Section{Core: wire.Core{SecID: secid.FmtTriTDID}}

	runDescOps, ok := catalog.Lookup(secid.GenRunDescID)
	require.True(t, ok)
	rd := &catalog.Section{Core: wire.Core{SecID: secid.GenRunDescID, InstanceID: 1}}
	rd.Payload = runDescOps.New(1)
	rd.Payload.(*secs.GenRunDesc).RunNumber = runNumber
	rd.Payload.(*secs.GenRunDesc).Title = title
	tree.AddToGroup(root, rd)

	group := &catalog.Section{Core: wire.Core{SecID: secid.GrpTriTDHistID, InstanceID: 1}}
	tree.AddToGroup(root, group)

	histOps, ok := catalog.Lookup(secid.TriTDHistID)
	require.True(t, ok)
	hist := &catalog.Section{Core: wire.Core{SecID: secid.TriTDHistID, InstanceID: 1}}
	hist.Payload = histOps.New(1)
	hdr := hist.Payload.(*secs.HistHeader)
	hdr.NBins = 4
	hdr.BytesPerBin = 0
	hdr.Data = nil // filled in by the caller via SetHistData
	tree.AddToGroup(group, hist)

	return root
}

func openHandleFor(root *catalog.Section, mode fileMode, path string) Handle {
	return allocHandle(&openFile{root: root, fmtID: root.Core.SecID, mode: mode, path: path})
}

// TestFriendlyAPI_HeadlineFields covers S1: reading run number and title
// off a freshly-built TRI-TD tree.
func TestFriendlyAPI_HeadlineFields(t *testing.T) {
	root := buildTriTD(t, 6663, "Sample calibration")
	h := openHandleFor(root, modeRead, "")
	defer CloseRead(h)

	runNumber, ok := GetRunNumber(h)
	require.True(t, ok)
	require.Equal(t, uint32(6663), runNumber)

	title, ok := GetTitle(h)
	require.True(t, ok)
	require.Equal(t, "Sample calibration", title)
}

// TestFriendlyAPI_SetTitleRoundTrip covers S2: setTitle, closeWriteFile,
// reopen, and confirm only the title changed.
func TestFriendlyAPI_SetTitleRoundTrip(t *testing.T) {
	root := buildTriTD(t, 6663, "Sample calibration")
	h := openHandleFor(root, modeReadWrite, "")

	require.True(t, SetTitle(h, "New Title"))

	out := filepath.Join(t.TempDir(), "out.msr")
	require.True(t, CloseWriteFile(h, out))

	h2, err := OpenRead(out)
	require.NoError(t, err)
	defer CloseRead(h2)

	title, ok := GetTitle(h2)
	require.True(t, ok)
	require.Equal(t, "New Title", title)

	runNumber, ok := GetRunNumber(h2)
	require.True(t, ok)
	require.Equal(t, uint32(6663), runNumber)
}

// TestFriendlyAPI_HistogramLocate covers S3: GetHists reports the group
// and GetHistNumBins/GetHistData find the right member.
func TestFriendlyAPI_HistogramLocate(t *testing.T) {
	root := buildTriTD(t, 1, "t")
	h := openHandleFor(root, modeReadWrite, "")
	defer CloseRead(h)

	require.True(t, SetHistData(h, 1, []uint32{0, 1, 255, 256}))

	groupSecID, n, ok := GetHists(h)
	require.True(t, ok)
	require.Equal(t, secid.GrpTriTDHistID, groupSecID)
	require.Equal(t, 1, n)

	nBins, ok := GetHistNumBins(h, 1)
	require.True(t, ok)
	require.Equal(t, uint32(4), nBins)

	data, ok := GetHistData(h, 1)
	require.True(t, ok)
	require.Equal(t, []uint32{0, 1, 255, 256}, data)
}

// TestFriendlyAPI_SearchChainedPath covers S4: a chained Search over
// fmtID -> group -> histogram instance.
func TestFriendlyAPI_SearchChainedPath(t *testing.T) {
	root := buildTriTD(t, 1, "t")

	got := tree.Search(root,
		tree.Step{SecID: secid.FmtTriTDID, InstanceID: 0},
		tree.Step{SecID: secid.GrpTriTDHistID, InstanceID: 1},
		tree.Step{SecID: secid.TriTDHistID, InstanceID: 1},
	)
	require.NotNil(t, got)
	require.Equal(t, secid.TriTDHistID, got.Core.SecID)
}

// TestFriendlyAPI_UnknownSectionPreserved covers S5: a Section with an
// unregistered secID survives a write/read round trip as opaque bytes.
func TestFriendlyAPI_UnknownSectionPreserved(t *testing.T) {
	root := buildTriTD(t, 1, "t")
	unknown := &catalog.Section{
		Core:    wire.Core{SecID: 0xABCD1234, InstanceID: 1},
		Payload: catalog.Opaque{Bytes: []byte("vendor-extension-payload")},
	}
	tree.AddToGroup(root, unknown)

	h := openHandleFor(root, modeReadWrite, "")
	out := filepath.Join(t.TempDir(), "out.msr")
	require.True(t, CloseWriteFile(h, out))

	h2, err := OpenRead(out)
	require.NoError(t, err)
	defer CloseRead(h2)

	reopened, found := lookupHandle(h2)
	require.True(t, found)

	var last *catalog.Section
	for _, c := range reopened.root.Children {
		if c.Core.SecID == 0xABCD1234 {
			last = c
		}
	}
	require.NotNil(t, last)
	opaque, ok := last.Payload.(catalog.Opaque)
	require.True(t, ok)
	require.Equal(t, []byte("vendor-extension-payload"), opaque.Bytes)
}

// TestFriendlyAPI_HistDataPackingRoundTrip covers S6 end to end through
// the friendly API: Set then Get on a histpack-backed histogram.
func TestFriendlyAPI_HistDataPackingRoundTrip(t *testing.T) {
	root := buildTriTD(t, 1, "t")
	h := openHandleFor(root, modeReadWrite, "")
	defer CloseRead(h)

	in := []uint32{0, 1, 255, 256, 65535, 65536, 0xFFFFFFFF}
	hist := tree.FindChild(tree.FindChild(root, secid.GrpTriTDHistID, 1), secid.TriTDHistID, 1)
	hist.Payload.(*secs.HistHeader).NBins = uint32(len(in))

	require.True(t, SetHistData(h, 1, in))

	out, ok := GetHistData(h, 1)
	require.True(t, ok)
	require.Equal(t, in, out)
}

// TestFriendlyAPI_SecondsPerBinPreferred checks the bin-time invariant:
// the auxiliary SecondsPerBin Section wins over fsPerBin*1e-15.
func TestFriendlyAPI_SecondsPerBinPreferred(t *testing.T) {
	root := buildTriTD(t, 1, "t")
	group := tree.FindChild(root, secid.GrpTriTDHistID, 1)
	hist := tree.FindChild(group, secid.TriTDHistID, 1)
	hist.Payload.(*secs.HistHeader).FsPerBin = 800000 // 0.8 ns, imprecise in fs

	aux := &catalog.Section{
		Core:    wire.Core{SecID: secid.SecondsPerBinID, InstanceID: 1},
		Payload: &secs.SecondsPerBin{Value: 0.8000000001e-9},
	}
	tree.AddToGroup(group, aux)

	h := openHandleFor(root, modeRead, "")
	defer CloseRead(h)

	seconds, ok := GetHistSecondsPerBin(h, 1)
	require.True(t, ok)
	require.Equal(t, 0.8000000001e-9, seconds)
}

// TestFriendlyAPI_CommentRoundTrip exercises GetComment/SetComment.
func TestFriendlyAPI_CommentRoundTrip(t *testing.T) {
	root := buildTriTD(t, 1, "t")
	group := &catalog.Section{Core: wire.Core{SecID: secid.GrpCommentID, InstanceID: 1}}
	tree.AddToGroup(root, group)

	cmtOps, ok := catalog.Lookup(secid.CmtID)
	require.True(t, ok)
	cmt := &catalog.Section{Core: wire.Core{SecID: secid.CmtID, InstanceID: 1}}
	cmt.Payload = cmtOps.New(1)
	cmt.Payload.(*secs.Comment).Title = "original"
	tree.AddToGroup(group, cmt)

	h := openHandleFor(root, modeReadWrite, "")
	defer CloseRead(h)

	got, ok := GetComment(h, 1)
	require.True(t, ok)
	require.Equal(t, "original", got.Title)

	require.True(t, SetComment(h, 1, secs.Comment{ID: 1, Title: "edited", Text: "body"}))

	got2, ok := GetComment(h, 1)
	require.True(t, ok)
	require.Equal(t, "edited", got2.Title)
	require.Equal(t, "body", got2.Text)
}

// TestOpenWrite_InitializerContract builds a TRI-TD file entirely from
// scratch through OpenWrite and the setRunDesc/setHists/setScalers
// initializers, writes it out, and confirms every field survives a
// round trip through OpenRead.
func TestOpenWrite_InitializerContract(t *testing.T) {
	h, err := OpenWrite("", secid.FmtTriTDID)
	require.NoError(t, err)

	require.True(t, SetRunDesc(h))
	require.True(t, SetRunNumber(h, 6663))
	require.True(t, SetTitle(h, "Sample calibration"))

	require.True(t, SetHists(h, 1, 2))
	require.True(t, SetHistData(h, 1, []uint32{0, 1, 2, 3}))
	require.True(t, SetHistData(h, 2, []uint32{10, 20}))

	require.True(t, SetScalers(h, 2))

	out := filepath.Join(t.TempDir(), "fresh.msr")
	require.True(t, CloseWriteFile(h, out))

	h2, err := OpenRead(out)
	require.NoError(t, err)
	defer CloseRead(h2)

	runNumber, ok := GetRunNumber(h2)
	require.True(t, ok)
	require.Equal(t, uint32(6663), runNumber)

	title, ok := GetTitle(h2)
	require.True(t, ok)
	require.Equal(t, "Sample calibration", title)

	groupSecID, n, ok := GetHists(h2)
	require.True(t, ok)
	require.Equal(t, secid.GrpTriTDHistID, groupSecID)
	require.Equal(t, 2, n)

	data1, ok := GetHistData(h2, 1)
	require.True(t, ok)
	require.Equal(t, []uint32{0, 1, 2, 3}, data1)

	data2, ok := GetHistData(h2, 2)
	require.True(t, ok)
	require.Equal(t, []uint32{10, 20}, data2)

	of2, found := lookupHandle(h2)
	require.True(t, found)
	scalerGroup := tree.FindChild(of2.root, secid.GrpScalerID, 1)
	require.NotNil(t, scalerGroup)
	require.Len(t, scalerGroup.Children, 2)
}

// TestSetHists_ReplacesExistingGroup checks that a second SetHists call
// discards the first group rather than appending a sibling.
func TestSetHists_ReplacesExistingGroup(t *testing.T) {
	h, err := OpenWrite("", secid.FmtTriTDID)
	require.NoError(t, err)

	require.True(t, SetHists(h, 1, 3))
	require.True(t, SetHists(h, 1, 1))

	_, n, ok := GetHists(h)
	require.True(t, ok)
	require.Equal(t, 1, n)
}

// TestFriendlyAPI_InvalidHandleFailsClosed checks that every getter/setter
// returns ok=false rather than panicking on an unknown handle.
func TestFriendlyAPI_InvalidHandleFailsClosed(t *testing.T) {
	const bogus Handle = 99999

	_, ok := GetRunNumber(bogus)
	require.False(t, ok)
	require.False(t, SetTitle(bogus, "x"))
	_, _, ok = GetHists(bogus)
	require.False(t, ok)
	_, ok = GetComment(bogus, 1)
	require.False(t, ok)
}
