package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPxSaturatingAdd(t *testing.T) {
	assert.Equal(t, MaxPx, MaxPx.Add(1))
	assert.Equal(t, MinPx, MinPx.Sub(1))
	assert.Equal(t, Px(5), Px(2).Add(3))
}

func TestPxSaturatingMul(t *testing.T) {
	assert.Equal(t, MaxPx, MaxPx.Mul(2))
	assert.Equal(t, Px(10), Px(5).Mul(2))
}

func TestDpRoundHalfToEven(t *testing.T) {
	require.Equal(t, Px(2), Dp(2.5).ToPx(1))
	require.Equal(t, Px(4), Dp(3.5).ToPx(1))
	require.Equal(t, Px(0), Dp(0.5).ToPx(1))
}

func TestDpRoundTrip(t *testing.T) {
	d := Dp(12)
	p := d.ToPx(2.0)
	assert.Equal(t, Px(24), p)
	assert.Equal(t, Dp(12), p.ToDp(2.0))
}

func TestRectIsOrthogonal(t *testing.T) {
	a := PxRect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	b := PxRect{Left: 20, Top: 0, Right: 30, Bottom: 10}
	assert.True(t, a.IsOrthogonal(b), "disjoint on X")

	c := PxRect{Left: 0, Top: 20, Right: 10, Bottom: 30}
	assert.True(t, a.IsOrthogonal(c), "disjoint on Y")

	d := PxRect{Left: 5, Top: 5, Right: 15, Bottom: 15}
	assert.False(t, a.IsOrthogonal(d), "overlapping rects are not orthogonal")
}

func TestRectOverlaps(t *testing.T) {
	a := PxRect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	b := PxRect{Left: 5, Top: 5, Right: 15, Bottom: 15}
	assert.True(t, a.Overlaps(b))

	c := PxRect{Left: 10, Top: 0, Right: 20, Bottom: 10}
	assert.False(t, a.Overlaps(c), "touching edges do not overlap")
}

func TestMergeFixedParentFixedChild(t *testing.T) {
	parent := ParentConstraint{Kind: ParentFixed, Fixed: 100}
	result, err := Merge(parent, Fixed(150))
	require.NoError(t, err)
	assert.Equal(t, ParentFixed, result.Kind)
	assert.Equal(t, Px(100), result.Fixed, "fixed child clamps to parent fixed size")
}

func TestMergeFixedParentFillChild(t *testing.T) {
	parent := ParentConstraint{Kind: ParentFixed, Fixed: 100}
	min := Px(20)
	max := Px(80)
	result, err := Merge(parent, Fill(&min, &max))
	require.NoError(t, err)
	assert.Equal(t, ParentFixed, result.Kind)
	assert.Equal(t, Px(80), result.Fixed, "fill child clamps into its own max under fixed parent")
}

func TestMergeWrapParentWrapChild(t *testing.T) {
	parent := ParentConstraint{Kind: ParentWrap, Min: 0, Max: 200}
	min := Px(10)
	max := Px(500)
	result, err := Merge(parent, Wrap(&min, &max))
	require.NoError(t, err)
	assert.Equal(t, ParentWrap, result.Kind)
	assert.Equal(t, Px(10), result.Min)
	assert.Equal(t, Px(200), result.Max, "wrap-under-wrap clamps to the outer max")
}

func TestMergeFillParentFillChild(t *testing.T) {
	parent := ParentConstraint{Kind: ParentFill, Min: 0, Max: 300}
	result, err := Merge(parent, Fill(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, ParentFill, result.Kind)
	assert.Equal(t, Px(300), result.Max)
}

func TestResolveClampsContentIntoRange(t *testing.T) {
	c := ParentConstraint{Kind: ParentWrap, Min: 10, Max: 50}
	assert.Equal(t, Px(10), c.Resolve(5))
	assert.Equal(t, Px(50), c.Resolve(1000))
	assert.Equal(t, Px(30), c.Resolve(30))
}

func TestRectIntersectionUnion(t *testing.T) {
	a := PxRect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	b := PxRect{Left: 5, Top: 5, Right: 15, Bottom: 15}
	inter, ok := a.Intersection(b)
	require.True(t, ok)
	assert.Equal(t, PxRect{Left: 5, Top: 5, Right: 10, Bottom: 10}, inter)

	union := a.Union(b)
	assert.Equal(t, PxRect{Left: 0, Top: 0, Right: 15, Bottom: 15}, union)
}

func TestMaxPxValue(t *testing.T) {
	assert.Equal(t, int32(math.MaxInt32), int32(MaxPx))
}
