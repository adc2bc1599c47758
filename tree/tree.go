// Package tree implements the MUD tree model (component D, §4.D):
// insertion, detachment, and search operations over the catalog.Section
// hierarchy a file decodes into.
package tree

import (
	"github.com/mudformat/mud/catalog"
)

// AddToGroup appends child at the end of parent's members. parent takes
// ownership of child (§3 Ownership); child.Parent is set to parent.
func AddToGroup(parent, child *catalog.Section) {
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

// RemoveFromGroup detaches child from parent's members. The caller takes
// ownership of child; child.Parent is cleared. A no-op if child is not
// among parent's direct children.
func RemoveFromGroup(parent, child *catalog.Section) {
	for i, c := range parent.Children {
		if c == child {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			child.Parent = nil

			return
		}
	}
}

// FindChild returns the instanceID-th 1-based occurrence (in insertion
// order) of a direct child of parent whose Core.SecID matches secID, or
// nil if there is no such occurrence.
func FindChild(parent *catalog.Section, secID, instanceID uint32) *catalog.Section {
	if instanceID == 0 {
		return nil
	}

	matched := uint32(0)
	for _, c := range parent.Children {
		if c.Core.SecID != secID {
			continue
		}
		matched++
		if matched == instanceID {
			return c
		}
	}

	return nil
}

// Step is one element of a Search path: the secID to match and the
// 1-based occurrence to select. InstanceID == 0 selects nothing and does
// not move: it only checks that the current Section's SecID is SecID (for
// example the root's file-format Group), so that the next Step selects
// among that Section's children.
type Step struct {
	SecID      uint32
	InstanceID uint32
}

// Search chains FindChild across path, depth-first, starting from root.
// Returns nil if any step fails to match.
func Search(root *catalog.Section, path ...Step) *catalog.Section {
	cur := root

	for _, step := range path {
		if step.InstanceID == 0 {
			if cur.Core.SecID != step.SecID {
				return nil
			}

			continue
		}

		cur = FindChild(cur, step.SecID, step.InstanceID)
		if cur == nil {
			return nil
		}
	}

	return cur
}

// FreeTree recursively frees root and everything beneath it.
func FreeTree(root *catalog.Section) {
	catalog.Free(root)
}
