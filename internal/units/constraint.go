package units

import "errors"

// ErrFillUnderUnboundedWrap is returned by Merge/MergeConstraint when a Fill
// child is merged against a Wrap parent whose own max is unbounded: Fill
// means "expand to fill the available space," but an unbounded Wrap has no
// available space to offer — this is a definition error, not a choice the
// layout can silently resolve (spec.md: "Fill asking to expand under an
// unbounded Wrap is a definition error, reported as a layout fault").
var ErrFillUnderUnboundedWrap = errors.New("units: Fill under unbounded Wrap is a definition error")

// DimensionKind tags which variant of DimensionValue is in play.
type DimensionKind int

const (
	DimensionFixed DimensionKind = iota
	DimensionWrap
	DimensionFill
)

// DimensionValue is a single axis' sizing intent: a fixed pixel size, a
// wrap-to-content size bounded by an optional min/max, or a fill-available
// size bounded by an optional min/max.
type DimensionValue struct {
	Kind     DimensionKind
	Fixed    Px
	Min, Max *Px // nil means unbounded for Wrap/Fill
}

func Fixed(v Px) DimensionValue {
	return DimensionValue{Kind: DimensionFixed, Fixed: v}
}

func Wrap(min, max *Px) DimensionValue {
	return DimensionValue{Kind: DimensionWrap, Min: min, Max: max}
}

func Fill(min, max *Px) DimensionValue {
	return DimensionValue{Kind: DimensionFill, Min: min, Max: max}
}

func pxPtr(v Px) *Px { return &v }

// ParentConstraint describes what a parent has already resolved for one
// axis before merging in a child's own DimensionValue: either a hard fixed
// size, or a bounded range (Wrap/Fill collapse to the same shape once
// resolved from the parent's perspective — only the child's own
// DimensionValue distinguishes Wrap from Fill intent going forward).
type ParentConstraintKind int

const (
	ParentFixed ParentConstraintKind = iota
	ParentWrap
	ParentFill
)

type ParentConstraint struct {
	Kind     ParentConstraintKind
	Fixed    Px
	Min, Max Px // valid for Wrap/Fill; Max may be MaxPx for unbounded
}

// Merge resolves a child's DimensionValue against the parent's already
// resolved constraint for the same axis, covering every Fixed/Wrap/Fill
// parent-child combination exhaustively. It returns ErrFillUnderUnboundedWrap
// when the child is Fill and the parent is an unbounded Wrap.
func Merge(parent ParentConstraint, child DimensionValue) (ParentConstraint, error) {
	switch parent.Kind {
	case ParentFixed:
		return mergeFixedParent(parent.Fixed, child), nil
	case ParentWrap:
		return mergeRangedParent(parent.Min, parent.Max, child, true)
	case ParentFill:
		return mergeRangedParent(parent.Min, parent.Max, child, false)
	default:
		return parent, nil
	}
}

func mergeFixedParent(p Px, child DimensionValue) ParentConstraint {
	switch child.Kind {
	case DimensionFixed:
		return ParentConstraint{Kind: ParentFixed, Fixed: MinPxOf(child.Fixed, p)}
	case DimensionWrap:
		min, max := resolveMinMax(child.Min, child.Max, 0, p)
		max = MinPxOf(max, p)
		return ParentConstraint{Kind: ParentWrap, Min: min, Max: max}
	case DimensionFill:
		min, max := resolveMinMax(child.Min, child.Max, 0, p)
		return ParentConstraint{Kind: ParentFixed, Fixed: ClampPx(p, min, max)}
	default:
		return ParentConstraint{Kind: ParentFixed, Fixed: p}
	}
}

// mergeRangedParent handles both Wrap and Fill parents. A Fill child nested
// inside a *bounded* Wrap parent degrades to a Wrap range clamped by the
// parent's own bounds (the documented resolution for "Fill inside Wrap" in
// DESIGN.md); a Fill child nested inside an *unbounded* Wrap parent (pmax ==
// MaxPx) has no available space to fill and is a layout fault.
func mergeRangedParent(pmin, pmax Px, child DimensionValue, parentIsWrap bool) (ParentConstraint, error) {
	switch child.Kind {
	case DimensionFixed:
		return ParentConstraint{Kind: ParentFixed, Fixed: ClampPx(child.Fixed, pmin, pmax)}, nil
	case DimensionWrap:
		min, max := resolveMinMax(child.Min, child.Max, pmin, pmax)
		return ParentConstraint{Kind: ParentWrap, Min: MaxPxOf(min, pmin), Max: MinPxOf(max, pmax)}, nil
	case DimensionFill:
		if parentIsWrap && pmax == MaxPx {
			return ParentConstraint{}, ErrFillUnderUnboundedWrap
		}
		min, max := resolveMinMax(child.Min, child.Max, pmin, pmax)
		kind := ParentFill
		if parentIsWrap {
			kind = ParentWrap
		}
		return ParentConstraint{Kind: kind, Min: MaxPxOf(min, pmin), Max: MinPxOf(max, pmax)}, nil
	default:
		return ParentConstraint{Kind: ParentWrap, Min: pmin, Max: pmax}, nil
	}
}

func resolveMinMax(min, max *Px, fallbackMin, fallbackMax Px) (Px, Px) {
	lo := fallbackMin
	if min != nil {
		lo = *min
	}
	hi := fallbackMax
	if max != nil {
		hi = *max
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Constraint is the per-axis pair of resolved parent constraints a node
// measures its children against.
type Constraint struct {
	Width, Height ParentConstraint
}

// MergeConstraint applies Merge independently to both axes, returning the
// first axis' fault (width checked before height).
func MergeConstraint(parent Constraint, widthChild, heightChild DimensionValue) (Constraint, error) {
	width, err := Merge(parent.Width, widthChild)
	if err != nil {
		return Constraint{}, err
	}
	height, err := Merge(parent.Height, heightChild)
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Width: width, Height: height}, nil
}

// Resolve collapses a ParentConstraint down to a concrete Px, used once a
// node has finished measuring its own content and must commit to a size:
// Fixed returns its value; Wrap/Fill return the clamp of the requested
// content size into [Min, Max].
func (c ParentConstraint) Resolve(content Px) Px {
	switch c.Kind {
	case ParentFixed:
		return c.Fixed
	default:
		return ClampPx(content, c.Min, c.Max)
	}
}
