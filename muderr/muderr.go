// Package muderr defines the sentinel error taxonomy shared by every layer
// of the MUD engine: the buffer/primitive codec, the Core header codec, the
// type registry, the tree model, and the file driver.
//
// Callers identify an error class with errors.Is against one of the
// exported sentinels; the concrete error returned by a function is usually
// wrapped with section-identifying context by SectionContext, whose error
// unwraps to the sentinel so it survives errors.Is while the message stays
// specific.
package muderr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFile indicates the outer Core has an unrecognized secID or
	// the stream is shorter than a Core.
	ErrInvalidFile = errors.New("mud: invalid file")

	// ErrCorruptSection indicates a nextOffset or size would overrun the
	// enclosing scope, or a string's declared length exceeds the remaining
	// payload.
	ErrCorruptSection = errors.New("mud: corrupt section")

	// ErrUnknownSection indicates a secID absent from the type registry.
	// This is informational, not fatal: the decoder preserves the payload
	// verbatim as an opaque blob and continues.
	ErrUnknownSection = errors.New("mud: unknown section")

	// ErrNotFound indicates a friendly getter/setter addressed a Section
	// absent from the tree.
	ErrNotFound = errors.New("mud: section not found")

	// ErrInvalidInput indicates a friendly setter received a value that
	// violates a type constraint (e.g. a negative count).
	ErrInvalidInput = errors.New("mud: invalid input")

	// ErrIOFailure indicates the underlying read, write, or open failed.
	ErrIOFailure = errors.New("mud: I/O failure")
)

// SectionContext wraps err with the identifying coordinates of the Section
// being processed when the failure occurred. It always returns a non-nil
// error that still unwraps to err via errors.Is/errors.As.
func SectionContext(err error, secID, instanceID uint32) error {
	if err == nil {
		return nil
	}

	return &sectionError{secID: secID, instanceID: instanceID, err: err}
}

type sectionError struct {
	secID, instanceID uint32
	err               error
}

func (e *sectionError) Error() string {
	return fmt.Sprintf("secID=0x%x instanceID=%d: %v", e.secID, e.instanceID, e.err)
}

func (e *sectionError) Unwrap() error { return e.err }
