package layout

import (
	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/tree"
	"github.com/tessera-ui/tessera/internal/units"
)

// Place performs the single top-down placement pass described by the
// original's place_node: it must only run after the whole tree has
// finished measuring (every RelPosition was recorded during measurement via
// MeasureInput.PlaceChild), and converts each node's parent-relative
// position into an absolute one by accumulating ancestor offsets.
//
// It also resolves every node's recorded commands in place: NodeRect is
// translated from node-local to frame-absolute coordinates using the node's
// resolved AbsPosition, and Clip is set to the intersection of every
// ancestor rect that enabled clipping. Both only become knowable once an
// entire top-down walk has run, since a command pushed during measurement
// cannot yet know any ancestor's placement.
func Place(a *tree.Arena, metas *tree.Metadatas, root tree.NodeID) {
	if root == tree.InvalidNodeID {
		return
	}
	rootMeta := metas.MetadataMut(root)
	rootMeta.AbsPosition = rootMeta.RelPosition
	resolveCommands(rootMeta, rootMeta.AbsPosition, units.PxRect{}, false)
	clip, hasClip := accumulateClip(rootMeta, units.PxRect{}, false)
	placeChildren(a, metas, root, rootMeta.AbsPosition, clip, hasClip)
}

func placeChildren(a *tree.Arena, metas *tree.Metadatas, parent tree.NodeID, parentAbs units.PxPosition, clip units.PxRect, hasClip bool) {
	for _, child := range a.ChildrenOf(parent) {
		meta := metas.MetadataMut(child)
		meta.AbsPosition = parentAbs.Add(meta.RelPosition)
		resolveCommands(meta, meta.AbsPosition, clip, hasClip)
		childClip, childHasClip := accumulateClip(meta, clip, hasClip)
		placeChildren(a, metas, child, meta.AbsPosition, childClip, childHasClip)
	}
}

// resolveCommands rewrites meta's recorded commands in place, translating
// each one's NodeRect by abs and stamping the accumulated ancestor clip.
func resolveCommands(meta *tree.Metadata, abs units.PxPosition, clip units.PxRect, hasClip bool) {
	for i, cmd := range meta.Commands {
		meta.Commands[i] = command.WithResolvedRect(cmd, abs, clip, hasClip)
	}
}

// accumulateClip folds meta's own ClipsChildren bounds into the clip rect
// its children will inherit. A node that does not clip its children passes
// its own incoming clip straight through unchanged.
func accumulateClip(meta *tree.Metadata, clip units.PxRect, hasClip bool) (units.PxRect, bool) {
	if !meta.ClipsChildren {
		return clip, hasClip
	}
	ownRect := units.RectFromOriginSize(meta.AbsPosition, meta.Computed.Size())
	if !hasClip {
		return ownRect, true
	}
	if inter, ok := clip.Intersection(ownRect); ok {
		return inter, true
	}
	return units.PxRect{}, true
}
