// Package tree implements the component tree arena: a slice-backed,
// rebuilt-every-frame tree of ComponentNode values addressed by NodeID, plus
// the per-node Metadata produced by the layout and command-building phases.
//
// No indextree-equivalent third-party library fit this shape cleanly, so
// the arena is a hand-rolled, append-only slice of slots (no free list: a
// fresh Arena is built every frame), matching
// maya.go's own plain-struct tree
// (internal/core/node.go) rather than a wrapped dependency; see DESIGN.md.
package tree

import (
	"fmt"
	"sync"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/units"
)

// NodeID addresses a node within a single frame's Arena. It is never valid
// across frames — cross-frame identity is Identity, held separately.
type NodeID int32

const InvalidNodeID NodeID = -1

// MeasureFn measures a node's children and commits to a size. It is defined
// here (rather than in internal/layout) because ComponentNode must hold one
// without creating an import cycle between tree and layout; internal/layout
// is what actually invokes it.
type MeasureFn func(input *MeasureInput) (units.ComputedData, error)

// InputHandlerFn handles bottom-up input dispatch for a node. Defined here
// for the same reason as MeasureFn.
type InputHandlerFn func(input *InputHandlerInput)

// ComponentNode is one entry of a single frame's rebuilt tree.
type ComponentNode struct {
	FnName         string
	LogicID        uint64
	InstanceKey    string
	Identity       Identity
	LayoutSpec     MeasureFn // nil means DefaultLayoutFn should be used
	InputHandlerFn InputHandlerFn
}

type node struct {
	comp     ComponentNode
	parent   NodeID
	children []NodeID
}

// Arena holds exactly one frame's worth of ComponentNodes. Build()
// (internal/frame) discards the previous frame's Arena and starts fresh
// every frame — Tessera never diffs or retains the tree itself.
type Arena struct {
	nodes []node
	stack []NodeID // currently-open AddNode/PopNode scopes
}

func NewArena() *Arena {
	return &Arena{stack: []NodeID{InvalidNodeID}}
}

// AddNode appends a new child under the node currently on top of the
// builder stack and pushes it as the new top, so subsequent AddNode calls
// become its children until the matching PopNode.
func (a *Arena) AddNode(comp ComponentNode) NodeID {
	parent := a.stack[len(a.stack)-1]
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, node{comp: comp, parent: parent})
	if parent != InvalidNodeID {
		a.nodes[parent].children = append(a.nodes[parent].children, id)
	}
	a.stack = append(a.stack, id)
	return id
}

// PopNode closes the children scope opened by the matching AddNode. Callers
// must balance AddNode/PopNode exactly; an unbalanced call is a programming
// error caught here rather than silently corrupting the tree.
func (a *Arena) PopNode() {
	if len(a.stack) <= 1 {
		panic("tree: PopNode called without a matching AddNode")
	}
	a.stack = a.stack[:len(a.stack)-1]
}

// Root returns the first node added at the top level, or InvalidNodeID if
// the arena is empty.
func (a *Arena) Root() NodeID {
	if len(a.nodes) == 0 {
		return InvalidNodeID
	}
	return 0
}

func (a *Arena) ChildrenOf(id NodeID) []NodeID {
	if int(id) < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id].children
}

func (a *Arena) ParentOf(id NodeID) NodeID {
	if int(id) < 0 || int(id) >= len(a.nodes) {
		return InvalidNodeID
	}
	return a.nodes[id].parent
}

func (a *Arena) Node(id NodeID) ComponentNode {
	return a.nodes[id].comp
}

func (a *Arena) Len() int { return len(a.nodes) }

// shardCount is chosen as a small fixed power of two; Metadatas is sized for
// typical per-frame tree sizes (hundreds to low thousands of nodes), not for
// extreme contention, so a large shard count would be wasted memory.
const shardCount = 16

type shard struct {
	mu   sync.RWMutex
	data map[NodeID]*Metadata
}

// Metadatas is the concurrent NodeID -> *Metadata map every measuring
// goroutine writes into during layout. It guarantees a single writer per key
// (each NodeID is only ever measured by the one goroutine that owns it) and
// sharding is solely to reduce lock contention across unrelated keys, ported
// from the upstream Rust DashMap<NodeId, ComponentNodeMetaData>. No
// concurrent-map third-party library fit this shape cleanly, so this is
// implemented directly; see DESIGN.md.
type Metadatas struct {
	shards [shardCount]*shard
}

func NewMetadatas(capacityHint int) *Metadatas {
	m := &Metadatas{}
	perShard := capacityHint/shardCount + 1
	for i := range m.shards {
		m.shards[i] = &shard{data: make(map[NodeID]*Metadata, perShard)}
	}
	return m
}

func (m *Metadatas) shardFor(id NodeID) *shard {
	return m.shards[uint32(id)%shardCount]
}

// Metadata is the per-node output of measuring and command-building.
type Metadata struct {
	Computed      units.ComputedData
	RelPosition   units.PxPosition // relative to parent, set during measurement by the parent's PlaceChild
	AbsPosition   units.PxPosition // absolute, set during placement
	Commands      []command.Command
	ClipsChildren bool
}

// MetadataMut returns (creating if necessary) the mutable Metadata for id.
// Callers must only mutate it from the single goroutine that owns this
// NodeID during measurement.
func (m *Metadatas) MetadataMut(id NodeID) *Metadata {
	s := m.shardFor(id)
	s.mu.RLock()
	meta, ok := s.data[id]
	s.mu.RUnlock()
	if ok {
		return meta
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if meta, ok := s.data[id]; ok {
		return meta
	}
	meta = &Metadata{}
	s.data[id] = meta
	return meta
}

func (m *Metadatas) Get(id NodeID) (*Metadata, bool) {
	s := m.shardFor(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.data[id]
	return meta, ok
}

// PushDrawCommandOn records a draw command onto id's metadata directly. It
// is the Go analogue of push_draw_command<C>; MeasureFn implementations
// should prefer the MeasureInput-scoped PushDrawCommand in measure.go, which
// is the only one reachable from inside a measurement call.
func PushDrawCommandOn[C any](m *Metadatas, id NodeID, payload C, bar command.Barrier, nodeRect units.PxRect) {
	meta := m.MetadataMut(id)
	cmd := command.NewDrawCommand(payload, bar, nodeRect)
	meta.Commands = append(meta.Commands, cmd)
	tlog.Trace(tlog.TagCommand, "node %d pushed draw command %s", id, cmd.TypeID)
}

// PushComputeCommandOn is the compute analogue of PushDrawCommandOn.
func PushComputeCommandOn[C any](m *Metadatas, id NodeID, payload C, bar command.Barrier, nodeRect units.PxRect) {
	meta := m.MetadataMut(id)
	cmd := command.NewComputeCommand(payload, bar, nodeRect)
	meta.Commands = append(meta.Commands, cmd)
	tlog.Trace(tlog.TagCommand, "node %d pushed compute command %s", id, cmd.TypeID)
}

func (id NodeID) String() string {
	return fmt.Sprintf("#%d", int32(id))
}
