package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/units"
)

type pipelineA struct{}
type pipelineB struct{}
type computeA struct{}

func rect(l, t, r, b units.Px) units.PxRect {
	return units.PxRect{Left: l, Top: t, Right: r, Bottom: b}
}

func drawCmd(typeID any, bar command.Barrier, r units.PxRect) command.Command {
	switch v := typeID.(type) {
	case pipelineA:
		return command.NewDrawCommand(v, bar, r)
	case pipelineB:
		return command.NewDrawCommand(v, bar, r)
	default:
		panic("unknown pipeline")
	}
}

func computeCmd(bar command.Barrier, r units.PxRect) command.Command {
	return command.NewComputeCommand(computeA{}, bar, r)
}

var surface = rect(0, 0, 1000, 1000)

func TestReorderEmptyInstructions(t *testing.T) {
	out := Reorder(nil, surface)
	assert.Empty(t, out)
}

func TestReorderNoDependenciesPreservesOrder(t *testing.T) {
	cmds := []command.Command{
		drawCmd(pipelineA{}, command.NoBarrier(), units.PxRect{}),
		drawCmd(pipelineA{}, command.NoBarrier(), units.PxRect{}),
		drawCmd(pipelineA{}, command.NoBarrier(), units.PxRect{}),
	}
	out := Reorder(cmds, surface)
	require.Len(t, out, 3)
	assert.Equal(t, cmds, out, "independent continuation draws of the same pipeline keep original order")
}

func TestReorderComputeBeforeBarrierPreservesOrder(t *testing.T) {
	c := computeCmd(command.NoBarrier(), rect(0, 0, 10, 10))
	d := drawCmd(pipelineA{}, command.GlobalBarrier(), units.PxRect{})
	out := Reorder([]command.Command{c, d}, surface)
	require.Len(t, out, 2)
	assert.Equal(t, c, out[0], "compute must precede a later barrier draw")
	assert.Equal(t, d, out[1])
}

func TestReorderOverlappingDrawPreservesOrder(t *testing.T) {
	d1 := drawCmd(pipelineA{}, command.PaddedLocalBarrier(0, 0, 0, 0), rect(0, 0, 10, 10))
	d2 := drawCmd(pipelineB{}, command.PaddedLocalBarrier(0, 0, 0, 0), rect(5, 5, 15, 15))
	out := Reorder([]command.Command{d1, d2}, surface)
	require.Len(t, out, 2)
	assert.Equal(t, d1, out[0], "overlapping draws preserve painter's order")
	assert.Equal(t, d2, out[1])
}

func TestReorderDrawBeforeOverlappingComputePreservesOrder(t *testing.T) {
	d := drawCmd(pipelineA{}, command.PaddedLocalBarrier(0, 0, 0, 0), rect(0, 0, 10, 10))
	c := computeCmd(command.NoBarrier(), rect(5, 5, 15, 15))
	out := Reorder([]command.Command{d, c}, surface)
	require.Len(t, out, 2)
	assert.Equal(t, d, out[0], "draw before an overlapping later compute preserves order")
	assert.Equal(t, c, out[1])
}

// TestReorderContinuationDrawRectBlocksBatchAcrossOverlap reproduces
// reorder.rs's own test_opt case 2: two overlapping same-pipeline
// ContinuationDraws must not be batched together across an intervening
// overlapping draw of a different pipeline, because a no-barrier draw's
// affected rect is its own node rect, not "no rect at all".
func TestReorderContinuationDrawRectBlocksBatchAcrossOverlap(t *testing.T) {
	first := drawCmd(pipelineA{}, command.NoBarrier(), rect(0, 0, 10, 10))
	middle := drawCmd(pipelineB{}, command.NoBarrier(), rect(5, 5, 15, 15))
	last := drawCmd(pipelineA{}, command.NoBarrier(), rect(2, 2, 8, 8))
	out := Reorder([]command.Command{first, middle, last}, surface)
	require.Len(t, out, 3)
	assert.Equal(t, []command.Command{first, middle, last}, out,
		"overlapping continuation draws preserve painter's order instead of batching pipelineA together")
}

func TestReorderOrthogonalComputeBeforeBarrierDrawNoEdge(t *testing.T) {
	c := computeCmd(command.NoBarrier(), rect(0, 0, 10, 10))
	d := drawCmd(pipelineA{}, command.AbsoluteBarrier(rect(900, 900, 1000, 1000)), units.PxRect{})
	// The barrier draw comes first in the input, so rule 1 (compute before a
	// later barrier draw) does not apply, and the rects are orthogonal, so
	// rules 2 and 3 add no edge either. With no edge between them, the
	// compute is emitted first only because the Compute category outranks
	// BarrierDraw in the priority sort.
	out := Reorder([]command.Command{d, c}, surface)
	require.Len(t, out, 2)
	assert.Equal(t, c, out[0])
	assert.Equal(t, d, out[1])
}

func TestReorderBatchesSamePipelineContinuationDraws(t *testing.T) {
	cmds := []command.Command{
		drawCmd(pipelineA{}, command.NoBarrier(), units.PxRect{}),
		drawCmd(pipelineB{}, command.NoBarrier(), units.PxRect{}),
		drawCmd(pipelineA{}, command.NoBarrier(), units.PxRect{}),
	}
	out := Reorder(cmds, surface)
	require.Len(t, out, 3)
	// No dependency edges exist between any of these (all ContinuationDraw,
	// no overlapping rects at all), so the priority sort is free to batch
	// same-pipeline commands together: both pipelineA commands should be
	// adjacent in the output.
	aPositions := []int{}
	for i, c := range out {
		if c.PipelineTypeID().String() == cmds[0].PipelineTypeID().String() {
			aPositions = append(aPositions, i)
		}
	}
	require.Len(t, aPositions, 2)
	assert.Equal(t, 1, aPositions[1]-aPositions[0], "same-pipeline continuation draws are batched adjacently")
}

func TestReorderComplexDependencyChain(t *testing.T) {
	// background draw, a compute that reads it, a barrier draw that depends
	// on the compute, and a final independent continuation draw elsewhere.
	bg := drawCmd(pipelineA{}, command.PaddedLocalBarrier(0, 0, 0, 0), rect(0, 0, 100, 100))
	comp := computeCmd(command.NoBarrier(), rect(0, 0, 50, 50))
	barrierDraw := drawCmd(pipelineB{}, command.GlobalBarrier(), units.PxRect{})
	independent := drawCmd(pipelineA{}, command.NoBarrier(), units.PxRect{})

	out := Reorder([]command.Command{bg, comp, barrierDraw, independent}, surface)
	require.Len(t, out, 4)

	pos := map[string]int{}
	for i, c := range out {
		pos[describeForTest(c, i)] = i
	}
	// bg must precede comp (rule 3: overlapping draw before overlapping
	// compute); comp must precede barrierDraw (rule 1).
	bgIdx, compIdx, barrierIdx := indexOf(out, bg), indexOf(out, comp), indexOf(out, barrierDraw)
	assert.Less(t, bgIdx, compIdx)
	assert.Less(t, compIdx, barrierIdx)
}

func indexOf(cmds []command.Command, target command.Command) int {
	for i, c := range cmds {
		if c == target {
			return i
		}
	}
	return -1
}

func describeForTest(c command.Command, i int) string {
	return c.PipelineTypeID().String()
}

func TestClassifyDerivesCategoryFromBarrier(t *testing.T) {
	cat, r, hasRect := Classify(drawCmd(pipelineA{}, command.NoBarrier(), rect(1, 2, 3, 4)), surface)
	assert.Equal(t, ContinuationDraw, cat)
	assert.True(t, hasRect, "a no-barrier draw's affected rect is its own node rect, not absent")
	assert.Equal(t, rect(1, 2, 3, 4), r)

	cat, r, hasRect = Classify(drawCmd(pipelineA{}, command.GlobalBarrier(), units.PxRect{}), surface)
	assert.Equal(t, BarrierDraw, cat)
	assert.True(t, hasRect)
	assert.Equal(t, surface, r)

	cat, _, _ = Classify(computeCmd(command.NoBarrier(), units.PxRect{}), surface)
	assert.Equal(t, Compute, cat, "compute commands are always category Compute regardless of barrier")
}

func TestHasCycleDetectsCycle(t *testing.T) {
	g := newGraph(3)
	g.addEdge(0, 1)
	g.addEdge(1, 2)
	assert.False(t, g.hasCycle())
	g.addEdge(2, 0)
	assert.True(t, g.hasCycle())
}
