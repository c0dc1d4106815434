package units

// ComputedData is the result of measuring a node: the size it committed to,
// plus the min/max bounds it could have accepted, so an ancestor doing a
// second measurement pass (e.g. a Wrap-under-Wrap clamp) knows how far the
// node can still flex without remeasuring it from scratch.
type ComputedData struct {
	Width, Height       Px
	MinWidth, MaxWidth  Px
	MinHeight, MaxHeight Px
}

// ZeroComputedData is the all-zero measurement; the layout engine returns it
// for InvalidNodeID instead of faulting.
var ZeroComputedData = ComputedData{}

func (c ComputedData) Add(o ComputedData) ComputedData {
	return ComputedData{
		Width:      c.Width.Add(o.Width),
		Height:     c.Height.Add(o.Height),
		MinWidth:   c.MinWidth.Add(o.MinWidth),
		MaxWidth:   c.MaxWidth.Add(o.MaxWidth),
		MinHeight:  c.MinHeight.Add(o.MinHeight),
		MaxHeight:  c.MaxHeight.Add(o.MaxHeight),
	}
}

// MinFromConstraint builds a ComputedData whose size is the constraint's
// minimum on each axis: the fixed size for a Fixed axis, Min for a Wrap or
// Fill axis (whether or not its Max is bounded).
func MinFromConstraint(c Constraint) ComputedData {
	w := minOf(c.Width)
	h := minOf(c.Height)
	return ComputedData{Width: w, Height: h, MinWidth: w, MinHeight: h}
}

func minOf(p ParentConstraint) Px {
	switch p.Kind {
	case ParentFixed:
		return p.Fixed
	default:
		return p.Min
	}
}

func (c ComputedData) Size() PxSize {
	return PxSize{Width: c.Width, Height: c.Height}
}
