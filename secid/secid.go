// Package secid lists the 32-bit Section ID constants the MUD registry
// (catalog) dispatches on, per the canonical catalogue in spec.md §6.
// These values select a registry entry and a factory zero-payload shape;
// they carry no structure of their own.
package secid

// File-format IDs. The outer Group of a MUD file is always one of these;
// the file driver (component E) rejects any other secID as ErrInvalidFile
// for the outermost Core.
const (
	FmtGenID   uint32 = 0x00000001
	FmtTriTDID uint32 = 0x00000002
	FmtTriTIID uint32 = 0x00000003
)

// Group IDs. Every Group — the outer file group and every nested one — is
// dispatched through the generic Group Ops in package catalog; these
// constants just distinguish what a Group is grouping.
const (
	GrpGenericID  uint32 = 0x00000010
	GrpTriTDHistID uint32 = 0x00000011
	GrpTriTIHistID uint32 = 0x00000012
	GrpScalerID    uint32 = 0x00000013
	GrpIndVarID    uint32 = 0x00000014
	GrpIndVarArrID uint32 = 0x00000015
	GrpCommentID   uint32 = 0x00000016
)

// groupIDs lists every secID dispatched through the generic Group Ops.
var groupIDs = []uint32{
	FmtGenID, FmtTriTDID, FmtTriTIID,
	GrpGenericID, GrpTriTDHistID, GrpTriTIHistID,
	GrpScalerID, GrpIndVarID, GrpIndVarArrID, GrpCommentID,
}

// GroupIDs returns every secID that is a Group (outer file groups and
// nested groups alike). The returned slice must not be mutated.
func GroupIDs() []uint32 { return groupIDs }

// Catalogue payload IDs (spec.md §6).
const (
	GenRunDescID    uint32 = 0x00000020
	TriTiRunDescID  uint32 = 0x00000021
	GenHistHdrID    uint32 = 0x00000030
	TriTDHistID     uint32 = 0x00000031
	TriTIHistID     uint32 = 0x00000032
	GenScalerID     uint32 = 0x00000040
	TriTDScalerID   uint32 = 0x00000041
	GenIndVarID     uint32 = 0x00000050
	GenIndVarArrID  uint32 = 0x00000051
	CmtID           uint32 = 0x00000060
	SecondsPerBinID uint32 = 0x00000070 // auxiliary Section for the bin-time invariant (§6)
)

// Domain-stack additions (SPEC_FULL.md §4.I/§4.J): not part of the
// distilled catalogue, but ordinary registry entries in every other
// respect — no special-casing in the dispatcher.
const (
	SecCompressedID uint32 = 0x00000080
	SecChecksumID   uint32 = 0x00000081
)

// CompressFlag is the instanceID high bit a producer sets on a Section
// before writing to request that it be wrapped in a SEC_COMPRESSED_ID
// envelope on encode (SPEC_FULL.md §4.I), mirroring the legacy producer's
// habit of stealing bits from disambiguator fields. Clear it
// (instanceID &^ CompressFlag) to recover the Section's real InstanceID.
const CompressFlag uint32 = 0x80000000
