package tree

import (
	"testing"

	"github.com/mudformat/mud/catalog"
	"github.com/stretchr/testify/require"
)

func TestAddAndRemoveFromGroup(t *testing.T) {
	parent := &catalog.Section{}
	child := &catalog.Section{}

	AddToGroup(parent, child)
	require.Len(t, parent.Children, 1)
	require.Same(t, parent, child.Parent)

	RemoveFromGroup(parent, child)
	require.Empty(t, parent.Children)
	require.Nil(t, child.Parent)
}

func TestFindChild_OneBasedOccurrence(t *testing.T) {
	parent := &catalog.Section{}
	for i := uint32(1); i <= 3; i++ {
		c := &catalog.Section{}
		c.Core.SecID = 0xAA
		c.Core.InstanceID = i
		AddToGroup(parent, c)
	}

	got := FindChild(parent, 0xAA, 2)
	require.NotNil(t, got)
	require.Equal(t, uint32(2), got.Core.InstanceID)

	require.Nil(t, FindChild(parent, 0xAA, 4))
	require.Nil(t, FindChild(parent, 0xAA, 0))
	require.Nil(t, FindChild(parent, 0xBB, 1))
}

func TestSearch_ChainedPath(t *testing.T) {
	root := &catalog.Section{}
	root.Core.SecID = 0x01

	group := &catalog.Section{}
	group.Core.SecID = 0x10
	AddToGroup(root, group)

	for i := uint32(1); i <= 3; i++ {
		hist := &catalog.Section{}
		hist.Core.SecID = 0x30
		hist.Core.InstanceID = i
		AddToGroup(group, hist)
	}

	got := Search(root,
		Step{SecID: 0x01, InstanceID: 0},
		Step{SecID: 0x10, InstanceID: 1},
		Step{SecID: 0x30, InstanceID: 3},
	)
	require.NotNil(t, got)
	require.Equal(t, uint32(3), got.Core.InstanceID)
}

func TestSearch_MissingStepReturnsNil(t *testing.T) {
	root := &catalog.Section{}
	root.Core.SecID = 0x01

	require.Nil(t, Search(root, Step{SecID: 0x99, InstanceID: 0}))
}

func TestFreeTree_RecursesChildren(t *testing.T) {
	root := &catalog.Section{}
	child := &catalog.Section{}
	AddToGroup(root, child)

	require.NotPanics(t, func() {
		FreeTree(root)
	})
	require.Nil(t, root.Children)
}
