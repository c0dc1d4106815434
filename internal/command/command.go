// Package command defines the tagged Draw/Compute command model every node
// emits during the command-stream-building phase, and the barrier
// vocabulary the reorderer (internal/reorder) and renderer (internal/renderer)
// key off of.
package command

import (
	"reflect"

	"github.com/tessera-ui/tessera/internal/units"
)

// BarrierKind tags which variant of Barrier a command reports.
type BarrierKind int

const (
	// BarrierNone means the command can be batched with any adjacent
	// commands of the same category and pipeline; it reads nothing back
	// from the frame so far.
	BarrierNone BarrierKind = iota
	// BarrierGlobal means the command depends on the entire surface so far
	// (e.g. a full-screen blur) and forces a pass boundary.
	BarrierGlobal
	// BarrierPaddedLocal means the command depends on its own node rect
	// expanded by the given padding (e.g. a drop shadow or local blur).
	BarrierPaddedLocal
	// BarrierAbsolute means the command depends on an explicit rect
	// unrelated to its own node bounds.
	BarrierAbsolute
)

// Barrier describes what portion of the frame-so-far a command's pipeline
// needs visible before it can run.
type Barrier struct {
	Kind                     BarrierKind
	Top, Right, Bottom, Left units.Px // valid for BarrierPaddedLocal
	Rect                     units.PxRect // valid for BarrierAbsolute
}

func NoBarrier() Barrier                { return Barrier{Kind: BarrierNone} }
func GlobalBarrier() Barrier            { return Barrier{Kind: BarrierGlobal} }
func AbsoluteBarrier(r units.PxRect) Barrier {
	return Barrier{Kind: BarrierAbsolute, Rect: r}
}
func PaddedLocalBarrier(top, right, bottom, left units.Px) Barrier {
	return Barrier{Kind: BarrierPaddedLocal, Top: top, Right: right, Bottom: bottom, Left: left}
}

// PipelineTypeID identifies which concrete DrawablePipeline/ComputablePipeline
// a command targets, standing in for the original's TypeId::of::<C>().
type PipelineTypeID struct {
	t reflect.Type
}

func TypeIDOf[C any](v C) PipelineTypeID {
	return PipelineTypeID{t: reflect.TypeOf(v)}
}

func (p PipelineTypeID) String() string {
	if p.t == nil {
		return "<nil>"
	}
	return p.t.String()
}

func (p PipelineTypeID) Equal(o PipelineTypeID) bool { return p.t == o.t }

// Command is the tagged union every queued draw/compute instruction
// satisfies.
type Command interface {
	Barrier() Barrier
	PipelineTypeID() PipelineTypeID
	// IsCompute distinguishes compute commands from draw commands; the
	// reorderer's Compute category always wins priority over draw
	// categories regardless of barrier.
	IsCompute() bool
}

// DrawCommand wraps a concrete drawable pipeline payload.
type DrawCommand struct {
	TypeID  PipelineTypeID
	Payload any
	Bar     Barrier
	// NodeRect is the emitting node's rect, used to derive the affected rect
	// for PaddedLocal barriers and ContinuationDraws. It is node-local at
	// push time; internal/layout.Place translates it to frame-absolute
	// coordinates once placement resolves every ancestor's position.
	NodeRect units.PxRect
	// Clip is the rect accumulated from every ancestor that enabled
	// clipping, valid only when HasClip is true. Set by internal/layout.Place
	// alongside NodeRect.
	Clip    units.PxRect
	HasClip bool
}

func (d DrawCommand) Barrier() Barrier               { return d.Bar }
func (d DrawCommand) PipelineTypeID() PipelineTypeID { return d.TypeID }
func (d DrawCommand) IsCompute() bool                { return false }

// NewDrawCommand constructs a DrawCommand for a pipeline payload of type C,
// the Go analogue of push_draw_command<C>.
func NewDrawCommand[C any](payload C, bar Barrier, nodeRect units.PxRect) DrawCommand {
	return DrawCommand{TypeID: TypeIDOf(payload), Payload: payload, Bar: bar, NodeRect: nodeRect}
}

// ComputeCommand wraps a concrete computable pipeline payload.
type ComputeCommand struct {
	TypeID   PipelineTypeID
	Payload  any
	Bar      Barrier
	NodeRect units.PxRect
	Clip     units.PxRect
	HasClip  bool
}

func (c ComputeCommand) Barrier() Barrier               { return c.Bar }
func (c ComputeCommand) PipelineTypeID() PipelineTypeID { return c.TypeID }
func (c ComputeCommand) IsCompute() bool                { return true }

func NewComputeCommand[C any](payload C, bar Barrier, nodeRect units.PxRect) ComputeCommand {
	return ComputeCommand{TypeID: TypeIDOf(payload), Payload: payload, Bar: bar, NodeRect: nodeRect}
}

// AffectedRect derives the rect a command's barrier concerns, used by the
// reorderer to test orthogonality between two commands. A BarrierNone
// command's affected rect is its own node rect, the same as
// InstructionInfo::new treats a no-barrier draw in the original: it still
// occupies space, so an overlapping draw or compute of another pipeline
// cannot be freely reordered across it.
func AffectedRect(cmd Command, surface units.PxRect) (units.PxRect, bool) {
	bar := cmd.Barrier()
	switch bar.Kind {
	case BarrierNone:
		switch c := cmd.(type) {
		case DrawCommand:
			return c.NodeRect, true
		case ComputeCommand:
			return c.NodeRect, true
		default:
			return units.PxRect{}, false
		}
	case BarrierGlobal:
		return surface, true
	case BarrierPaddedLocal:
		var nodeRect units.PxRect
		switch c := cmd.(type) {
		case DrawCommand:
			nodeRect = c.NodeRect
		case ComputeCommand:
			nodeRect = c.NodeRect
		}
		return nodeRect.Expand(bar.Top, bar.Right, bar.Bottom, bar.Left), true
	case BarrierAbsolute:
		return bar.Rect, true
	default:
		return units.PxRect{}, false
	}
}

// WithResolvedRect returns a copy of cmd with NodeRect translated from
// node-local to frame-absolute coordinates by offset (the emitting node's
// AbsPosition, resolved by internal/layout.Place), and Clip/HasClip set to
// the ancestor clip rect the placement pass accumulated for this node. A
// BarrierAbsolute command's own Bar.Rect is left untouched: it is an
// explicit, caller-supplied rect unrelated to the emitting node's bounds,
// already expressed in frame-absolute coordinates.
func WithResolvedRect(cmd Command, offset units.PxPosition, clip units.PxRect, hasClip bool) Command {
	switch c := cmd.(type) {
	case DrawCommand:
		c.NodeRect = c.NodeRect.Translate(offset.X, offset.Y)
		c.Clip, c.HasClip = clip, hasClip
		return c
	case ComputeCommand:
		c.NodeRect = c.NodeRect.Translate(offset.X, offset.Y)
		c.Clip, c.HasClip = clip, hasClip
		return c
	default:
		return cmd
	}
}
