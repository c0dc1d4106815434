package renderer

import (
	"testing"

	"github.com/gogpu/wgpu/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/units"
)

type fakePayload struct{ N int }
type otherPayload struct{}

type fakeDrawable struct {
	calls   int
	beginN  int
	endN    int
	failBeg bool
}

func (f *fakeDrawable) Draw(ctx *DrawContext, cmd command.DrawCommand) error {
	f.calls++
	return nil
}
func (f *fakeDrawable) BeginFrame(device hal.Device, queue hal.Queue) error {
	f.beginN++
	return nil
}
func (f *fakeDrawable) EndFrame(device hal.Device, queue hal.Queue) error {
	f.endN++
	return nil
}

type fakeComputable struct{ calls int }

func (f *fakeComputable) Dispatch(ctx *ComputeContext, cmd command.ComputeCommand) error {
	f.calls++
	return nil
}

func TestPipelineRegistryRegisterAndLookupDrawable(t *testing.T) {
	r := NewPipelineRegistry()
	fd := &fakeDrawable{}
	RegisterDrawable[fakePayload](r, fd)

	id := command.TypeIDOf(fakePayload{})
	p, ok := r.lookupDrawable(id)
	require.True(t, ok)
	assert.Same(t, fd, p)

	_, ok = r.lookupDrawable(command.TypeIDOf(otherPayload{}))
	assert.False(t, ok, "unregistered payload type must not resolve to any pipeline")
}

func TestPipelineRegistryRegisterAndLookupComputable(t *testing.T) {
	r := NewPipelineRegistry()
	fc := &fakeComputable{}
	RegisterComputable[fakePayload](r, fc)

	p, ok := r.lookupComputable(command.TypeIDOf(fakePayload{}))
	require.True(t, ok)
	assert.Same(t, fc, p)
}

func TestPipelineRegistryBeginEndAllFramesCallsHooks(t *testing.T) {
	r := NewPipelineRegistry()
	fd := &fakeDrawable{}
	RegisterDrawable[fakePayload](r, fd)

	require.NoError(t, r.beginAllFrames(nil, nil))
	require.NoError(t, r.endAllFrames(nil, nil))
	assert.Equal(t, 1, fd.beginN)
	assert.Equal(t, 1, fd.endN)

	// A ComputablePipeline that implements neither hook must not panic or
	// error — the hooks are optional.
	fc := &fakeComputable{}
	RegisterComputable[otherPayload](r, fc)
	require.NoError(t, r.beginAllFrames(nil, nil))
	require.NoError(t, r.endAllFrames(nil, nil))
}

func TestDrawCommandDispatchesToRegisteredPipeline(t *testing.T) {
	r := NewPipelineRegistry()
	fd := &fakeDrawable{}
	RegisterDrawable[fakePayload](r, fd)

	cmd := command.NewDrawCommand(fakePayload{N: 1}, command.NoBarrier(), units.PxRect{})
	p, ok := r.lookupDrawable(cmd.TypeID)
	require.True(t, ok)
	require.NoError(t, p.Draw(&DrawContext{}, cmd))
	assert.Equal(t, 1, fd.calls)
}
