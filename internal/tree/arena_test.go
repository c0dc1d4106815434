package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimpleTree() *Arena {
	a := NewArena()
	root := a.AddNode(ComponentNode{FnName: "root"})
	_ = root
	a.AddNode(ComponentNode{FnName: "child1"})
	a.PopNode()
	a.AddNode(ComponentNode{FnName: "child2"})
	a.PopNode()
	a.PopNode()
	return a
}

func TestArenaAddAndChildren(t *testing.T) {
	a := buildSimpleTree()
	require.Equal(t, 3, a.Len())
	root := a.Root()
	children := a.ChildrenOf(root)
	require.Len(t, children, 2)
	assert.Equal(t, "child1", a.Node(children[0]).FnName)
	assert.Equal(t, "child2", a.Node(children[1]).FnName)
	assert.Equal(t, root, a.ParentOf(children[0]))
}

func TestArenaUnbalancedPopPanics(t *testing.T) {
	a := NewArena()
	assert.Panics(t, func() { a.PopNode() })
}

func TestIdentityStableAcrossRebuilds(t *testing.T) {
	id1 := NewIdentity(RootIdentity, 42, "key-a")
	id2 := NewIdentity(RootIdentity, 42, "key-a")
	assert.Equal(t, id1, id2, "identity must be stable for the same (parent, logicID, instanceKey)")

	id3 := NewIdentity(RootIdentity, 42, "key-b")
	assert.NotEqual(t, id1, id3, "distinct instance keys must get distinct identities")
}

func TestMetadataMutSingleWriterPerKey(t *testing.T) {
	metas := NewMetadatas(4)
	m1 := metas.MetadataMut(0)
	m2 := metas.MetadataMut(0)
	assert.Same(t, m1, m2, "repeated MetadataMut for the same id returns the same handle")
}

func TestFlattenWithoutCommandsIsEmpty(t *testing.T) {
	a := buildSimpleTree()
	metas := NewMetadatas(a.Len())
	root := a.Root()
	children := a.ChildrenOf(root)

	metas.MetadataMut(root)

	// Commands aren't populated here (that's command/layout's job); this
	// test only verifies that flattening nodes with no commands yields an
	// empty stream.
	metas.MetadataMut(children[0])
	metas.MetadataMut(children[1])

	cmds := Flatten(a, metas, root)
	assert.Empty(t, cmds, "no commands were pushed, so the flattened stream is empty")
}
