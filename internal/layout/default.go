package layout

import (
	"context"

	"github.com/tessera-ui/tessera/internal/tree"
	"github.com/tessera-ui/tessera/internal/units"
)

// DefaultLayoutFn is used for any ComponentNode that supplies no custom
// LayoutSpec. It implements the stacking layout described by the original's
// DEFAULT_LAYOUT_DESC: every child is measured against the node's own
// incoming constraint unchanged (children don't further subdivide space —
// they all stack at the origin), and the node's own size is the union of
// its children's sizes, clamped into whatever constraint it was itself
// given.
func DefaultLayoutFn(in *tree.MeasureInput) (units.ComputedData, error) {
	ctx := context.Background()
	constraint := in.Constraint

	results, err := in.MeasureChildren(ctx, constraint)
	if err != nil {
		return units.ComputedData{}, err
	}

	var maxW, maxH units.Px
	for _, child := range in.Arena.ChildrenOf(in.Self) {
		computed := results[child]
		in.PlaceChild(child, units.PxPosition{X: 0, Y: 0})
		maxW = units.MaxPxOf(maxW, computed.Width)
		maxH = units.MaxPxOf(maxH, computed.Height)
	}

	width := constraint.Width.Resolve(maxW)
	height := constraint.Height.Resolve(maxH)

	return units.ComputedData{
		Width: width, Height: height,
		MinWidth: minOf(constraint.Width), MaxWidth: maxOf(constraint.Width),
		MinHeight: minOf(constraint.Height), MaxHeight: maxOf(constraint.Height),
	}, nil
}

func minOf(p units.ParentConstraint) units.Px {
	if p.Kind == units.ParentFixed {
		return p.Fixed
	}
	return p.Min
}

func maxOf(p units.ParentConstraint) units.Px {
	if p.Kind == units.ParentFixed {
		return p.Fixed
	}
	return p.Max
}
