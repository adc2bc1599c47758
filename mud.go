// Package mud provides a high-performance binary format for muon-spin
// spectroscopy data: run descriptions, time-differential and
// time-integral histograms, scalers, independent variables, and threaded
// comments, all addressable through a flat handle-based API.
//
// # Core features
//
//   - A section-dispatch engine (buffer, wire, catalog) that walks a
//     binary stream of variable-size typed records linked by
//     next-section offsets
//   - An in-memory tree of Sections with parent/child/sibling links
//     (tree), rebuilt byte-compatibly on write
//   - A friendly flat getter/setter API over a process-wide handle table,
//     matching the field-level accessor contract historically exposed by
//     muon-spin analysis tooling
//   - Optional Section-level compression (compress) and content digests
//     (internal/hash) layered on top of the core format
//
// # Basic usage
//
//	import "github.com/mudformat/mud"
//
//	h, err := mud.OpenRead("run06663.msr")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mud.CloseRead(h)
//
//	if runNumber, ok := mud.GetRunNumber(h); ok {
//	    fmt.Println("run", runNumber)
//	}
package mud

import (
	"log/slog"
	"os"
	"sync"

	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/endian"
	"github.com/mudformat/mud/filedrv"
	"github.com/mudformat/mud/muderr"
	_ "github.com/mudformat/mud/secs" // registers the catalogue Ops
	"github.com/mudformat/mud/secid"
	"github.com/mudformat/mud/tree"
	"github.com/mudformat/mud/wire"
)

// Logger is the structured logger that reports CloseWrite/CloseWriteFile
// failures. Callers may replace it; it starts as the slog.Default() logger
// of package initialization. The catalog and filedrv packages log their own
// diagnostics (unknown sections preserved as opaque, partial-tree teardown
// on read failure, digest mismatches) through slog.Default(), not Logger.
var Logger = slog.Default()

func init() {
	catalog.RegisterGroup(secid.FmtGenID)
	catalog.RegisterGroup(secid.FmtTriTDID)
	catalog.RegisterGroup(secid.FmtTriTIID)
	catalog.RegisterGroup(secid.GrpGenericID)
	catalog.RegisterGroup(secid.GrpTriTDHistID)
	catalog.RegisterGroup(secid.GrpTriTIHistID)
	catalog.RegisterGroup(secid.GrpScalerID)
	catalog.RegisterGroup(secid.GrpIndVarID)
	catalog.RegisterGroup(secid.GrpIndVarArrID)
	catalog.RegisterGroup(secid.GrpCommentID)
}

// Handle is a process-scoped token referring to an open file's in-memory
// tree (§4.F). InvalidHandle is returned by a failed open.
type Handle int

// InvalidHandle is returned by Open* on failure; no handle is allocated.
const InvalidHandle Handle = -1

type fileMode int

const (
	modeRead fileMode = iota
	modeWrite
	modeReadWrite
)

type openFile struct {
	root     *catalog.Section
	fmtID    uint32
	mode     fileMode
	path     string
	readonly bool
	digest   bool
}

// Option configures an Open* call. See WithDigest.
type Option func(*openFile)

// WithDigest enables content digesting (SPEC_FULL.md §4.J) on the handle:
// every Group gets a trailing checksum child computed on CloseWrite/
// CloseWriteFile. Digest verification on read is unconditional and does
// not depend on this option — it only governs whether new digests are
// computed and appended on write.
func WithDigest() Option {
	return func(of *openFile) { of.digest = true }
}

func applyOptions(of *openFile, opts []Option) {
	for _, opt := range opts {
		opt(of)
	}
}

var (
	handleMu sync.RWMutex
	handles  = map[Handle]*openFile{}
)

func allocHandle(of *openFile) Handle {
	handleMu.Lock()
	defer handleMu.Unlock()

	var h Handle
	for h = 0; ; h++ {
		if _, taken := handles[h]; !taken {
			break
		}
	}
	handles[h] = of

	return h
}

func lookupHandle(h Handle) (*openFile, bool) {
	handleMu.RLock()
	defer handleMu.RUnlock()
	of, ok := handles[h]

	return of, ok
}

func freeHandle(h Handle) {
	handleMu.Lock()
	delete(handles, h)
	handleMu.Unlock()
}

// OpenRead opens path, decodes the whole tree into memory, and returns a
// handle marked read-only. The mark is only recorded: the friendly setters
// and CloseWrite/CloseWriteFile do not check it. Returns InvalidHandle and
// an error on any read
// failure (§4.E): short stream, unknown outer secID, or a corrupt
// Section anywhere in the tree.
func OpenRead(path string, opts ...Option) (Handle, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return InvalidHandle, err
	}
	defer f.Close() //nolint:errcheck

	root, err := filedrv.ReadFile(f, endian.GetLittleEndianEngine())
	if err != nil {
		return InvalidHandle, err
	}

	of := &openFile{root: root, fmtID: root.Core.SecID, mode: modeRead, path: path, readonly: true}
	applyOptions(of, opts)
	h := allocHandle(of)

	return h, nil
}

// OpenWrite creates a fresh, empty tree of the given file-format type,
// ready for SetRunDesc/SetHists/SetScalers initialization and eventual
// CloseWrite.
func OpenWrite(path string, fmtID uint32, opts ...Option) (Handle, error) {
	if !isFileFormatID(fmtID) {
		return InvalidHandle, muderr.ErrInvalidInput
	}

	root := &catalog.Section{Core: wire.Core{SecID: fmtID}}

	of := &openFile{root: root, fmtID: fmtID, mode: modeWrite, path: path}
	applyOptions(of, opts)
	h := allocHandle(of)

	return h, nil
}

// OpenReadWrite opens path like OpenRead, but the returned handle is not
// marked read-only; it accepts friendly setters and may be flushed with
// CloseWrite or CloseWriteFile.
func OpenReadWrite(path string, opts ...Option) (Handle, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return InvalidHandle, err
	}
	defer f.Close() //nolint:errcheck

	root, err := filedrv.ReadFile(f, endian.GetLittleEndianEngine())
	if err != nil {
		return InvalidHandle, err
	}

	of := &openFile{root: root, fmtID: root.Core.SecID, mode: modeReadWrite, path: path}
	applyOptions(of, opts)
	h := allocHandle(of)

	return h, nil
}

// CloseRead discards h's in-memory tree without writing it back.
func CloseRead(h Handle) {
	of, ok := lookupHandle(h)
	if !ok {
		return
	}

	tree.FreeTree(of.root)
	freeHandle(h)
}

// CloseWrite writes h's in-memory tree back to the path it was opened
// against and frees it. Returns false on write failure; the caller must
// still call CloseRead to release memory (§7 user-visible behavior).
func CloseWrite(h Handle) bool {
	of, ok := lookupHandle(h)
	if !ok {
		return false
	}

	return writeAndMaybeFree(h, of, of.path, true)
}

// CloseWriteFile writes h's in-memory tree to path (which may differ from
// the handle's original path) and frees it.
func CloseWriteFile(h Handle, path string) bool {
	of, ok := lookupHandle(h)
	if !ok {
		return false
	}

	return writeAndMaybeFree(h, of, path, true)
}

func writeAndMaybeFree(h Handle, of *openFile, path string, freeOnSuccess bool) bool {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		Logger.Error("mud: closeWrite failed to open output", "path", path, "error", err)

		return false
	}
	defer f.Close() //nolint:errcheck

	if err := filedrv.WriteFile(f, of.root, endian.GetLittleEndianEngine(), of.digest); err != nil {
		Logger.Error("mud: closeWrite failed", "path", path, "error", err)

		return false
	}

	if freeOnSuccess {
		tree.FreeTree(of.root)
		freeHandle(h)
	}

	return true
}

func isFileFormatID(id uint32) bool {
	return id == secid.FmtGenID || id == secid.FmtTriTDID || id == secid.FmtTriTIID
}
