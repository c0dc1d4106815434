package tree

import (
	"context"
	"fmt"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/units"
)

// MeasurementError is returned by a MeasureFn (or anything it calls) that
// cannot produce a valid size. It bubbles all the way to the root call and
// causes that frame's render phase to be skipped; it never panics.
type MeasurementError struct {
	NodeID NodeID
	FnName string
	Reason string
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("tree: measurement failed for node %s (%s): %s", e.NodeID, e.FnName, e.Reason)
}

// Measurer is implemented by internal/layout's measuring engine. It is
// defined here, rather than in internal/layout, purely to let MeasureInput
// call back into the engine without an import cycle (tree cannot import
// layout, since layout's ComponentNode.LayoutSpec type lives in tree).
type Measurer interface {
	MeasureNode(ctx context.Context, id NodeID, constraint units.Constraint) (units.ComputedData, error)
	// MeasureMany measures a set of sibling nodes in parallel, bounded by
	// the engine's worker pool, short-circuiting on the first error.
	MeasureMany(ctx context.Context, ids []NodeID, constraint units.Constraint) (map[NodeID]units.ComputedData, error)
}

// MeasureInput is the single argument every MeasureFn receives. It scopes
// all tree mutation to the node currently being measured.
type MeasureInput struct {
	Arena    *Arena
	Metas    *Metadatas
	Self     NodeID
	Measurer Measurer

	// Constraint is the constraint the node currently being measured was
	// itself measured against — set by the engine before invoking a
	// MeasureFn, so a custom layout (or DefaultLayoutFn) knows what space it
	// has to divide among its children.
	Constraint units.Constraint

	// Recorded, when non-nil, captures the constraint each child was
	// measured against so the layout cache can replay a hit without
	// re-invoking this node's MeasureFn. internal/layout sets this before
	// calling a MeasureFn and reads it back afterward.
	Recorded map[NodeID]units.Constraint
}

func (in *MeasureInput) record(id NodeID, c units.Constraint) {
	if in.Recorded != nil {
		in.Recorded[id] = c
	}
}

// MetadataMut returns the mutable Metadata for the node currently being
// measured.
func (in *MeasureInput) MetadataMut() *Metadata {
	return in.Metas.MetadataMut(in.Self)
}

// MeasureChild measures a single child against constraint and returns its
// ComputedData, recursing through the Measurer (which applies memoization).
func (in *MeasureInput) MeasureChild(ctx context.Context, child NodeID, constraint units.Constraint) (units.ComputedData, error) {
	in.record(child, constraint)
	return in.Measurer.MeasureNode(ctx, child, constraint)
}

// MeasureChildren measures every direct child of the node currently being
// measured against constraint, in parallel, short-circuiting on the first
// error exactly as the original's rayon par_iter + `?` does (see
// internal/layout for the concurrency policy).
func (in *MeasureInput) MeasureChildren(ctx context.Context, constraint units.Constraint) (map[NodeID]units.ComputedData, error) {
	children := in.Arena.ChildrenOf(in.Self)
	for _, c := range children {
		in.record(c, constraint)
	}
	return in.Measurer.MeasureMany(ctx, children, constraint)
}

// PlaceChild records child's position relative to the node currently being
// measured. Negative coordinates are permitted (DESIGN.md OQ-1). Absolute
// positions are resolved later, in a single top-down pass, once every node
// in the tree has measured (internal/layout.Place).
func (in *MeasureInput) PlaceChild(child NodeID, pos units.PxPosition) {
	in.Metas.MetadataMut(child).RelPosition = pos
}

// EnableClipping marks the node currently being measured as clipping its
// descendants' commands to its own bounds.
func (in *MeasureInput) EnableClipping() {
	in.MetadataMut().ClipsChildren = true
}

func (in *MeasureInput) DisableClipping() {
	in.MetadataMut().ClipsChildren = false
}

// PushDrawCommand is only reachable from inside an active MeasureFn
// invocation (it requires a *MeasureInput), which is exactly why the "layout
// spec mutates metadata on a cache hit" question (DESIGN.md OQ-2) cannot
// arise: a cache hit never constructs a MeasureInput or calls a MeasureFn at
// all.
func PushDrawCommand[C any](in *MeasureInput, payload C, bar command.Barrier, nodeRect units.PxRect) {
	PushDrawCommandOn(in.Metas, in.Self, payload, bar, nodeRect)
}

// PushComputeCommand is the compute analogue of PushDrawCommand.
func PushComputeCommand[C any](in *MeasureInput, payload C, bar command.Barrier, nodeRect units.PxRect) {
	PushComputeCommandOn(in.Metas, in.Self, payload, bar, nodeRect)
}
