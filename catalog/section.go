// Package catalog implements the MUD type registry and dispatcher
// (component C, §4.C): a process-wide, initialize-once mapping from
// 32-bit Section IDs to the five operations (decode, encode, size, free,
// show) a concrete type must provide, plus the generic Group dispatch and
// the opaque fallback for unregistered IDs that keeps the format
// forward-compatible.
package catalog

import (
	"sync"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/wire"
)

// Section is Core plus a type-specific payload, linked into the tree
// (component D) via Parent/Children. Payload holds whatever concrete type
// the registered Ops factory produced — a §6 catalogue struct, an Opaque
// blob for unregistered secIDs, or, for a Group, a small record of its
// declared member count (the members themselves live in Children).
type Section struct {
	Core     wire.Core
	Payload  any
	Parent   *Section
	Children []*Section // ordered sibling list; non-empty only for Groups
}

// IsGroup reports whether s dispatches through the generic Group Ops,
// i.e. whether its members live in s.Children rather than s.Payload.
func (s *Section) IsGroup() bool {
	_, isGroup := groupSet[s.Core.SecID]
	return isGroup
}

// Opaque is the payload of a Section whose secID is not registered. The
// engine preserves it verbatim: decoded bytes are re-emitted unchanged on
// encode, giving forward-compatibility for producers using section types
// this build doesn't know about (§4.C).
type Opaque struct {
	Bytes []byte
}

// Ops is the set of five operations a registered type provides.
type Ops struct {
	// New allocates a zero-initialized payload for a fresh Section of this
	// type, given the disambiguating instanceID the factory was called
	// with (most types ignore it).
	New func(instanceID uint32) any

	// Decode consumes s.Core.Size bytes from buf (already sliced to
	// exactly that many bytes) into s.Payload/s.Children.
	Decode func(s *Section, buf *buffer.Buffer) error

	// Encode emits s.Payload/s.Children to buf. It must write exactly
	// Size(s) bytes.
	Encode func(s *Section, buf *buffer.Buffer) error

	// Size reports the payload byte count if encoded now.
	Size func(s *Section) (uint32, error)

	// Free releases payload-owned heap storage (strings, variable
	// arrays). Optional; nil if the type owns no such storage.
	Free func(s *Section)

	// Show renders a human-readable dump. Optional; tests do not depend
	// on its exact format (§4.C).
	Show func(s *Section) string
}

var (
	registryMu sync.RWMutex
	registry   = map[uint32]Ops{}
	groupSet   = map[uint32]struct{}{}
)

// Register adds ops for secID to the process-wide registry. Intended to
// be called from package-level init() functions in the catalogue package
// (secs) before any file is opened; the registry is read-only thereafter
// (§5) — callers that register after concurrent reads have begun must
// provide their own synchronization.
func Register(secID uint32, ops Ops) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[secID] = ops
}

// RegisterGroup marks secID as dispatching through the generic Group Ops
// (§4.C) and registers it. Safe to call multiple times for the same ID.
func RegisterGroup(secID uint32) {
	registryMu.Lock()
	groupSet[secID] = struct{}{}
	registryMu.Unlock()
	Register(secID, groupOps)
}

// Lookup returns the registered Ops for secID, or ok=false if secID is
// unregistered (§4.C: not fatal, handled by the opaque fallback).
func Lookup(secID uint32) (Ops, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ops, ok := registry[secID]

	return ops, ok
}

// New creates a Section of the given type, allocating a zero-initialized
// payload per the registered factory. Returns ok=false if secID is
// unregistered — callers construct an Opaque Section themselves in that
// case, since there is no shape to allocate.
func New(secID, instanceID uint32) (*Section, bool) {
	ops, ok := Lookup(secID)
	if !ok {
		return nil, false
	}

	return &Section{
		Core:    wire.Core{SecID: secID, InstanceID: instanceID},
		Payload: ops.New(instanceID),
	}, true
}
