package frame

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/renderer"
	"github.com/tessera-ui/tessera/internal/state"
	"github.com/tessera-ui/tessera/internal/tree"
	"github.com/tessera-ui/tessera/internal/units"
)

// fakeWindow is a headless WindowAdapter: no real OS window, no real GPU
// surface, just the channel/size/request bookkeeping RunFrame depends on.
type fakeWindow struct {
	events        chan WindowEvent
	width, height int
	cursor        tree.CursorIcon
	ime           *tree.ImeRequest
}

func newFakeWindow(w, h int) *fakeWindow {
	return &fakeWindow{events: make(chan WindowEvent, 16), width: w, height: h}
}

func (f *fakeWindow) Events() <-chan WindowEvent { return f.events }
func (f *fakeWindow) InnerSize() (int, int)      { return f.width, f.height }
func (f *fakeWindow) ScaleFactor() float32       { return 1 }
func (f *fakeWindow) AcquireSurfaceFrame() (renderer.SurfaceFrame, error) {
	return renderer.SurfaceFrame{}, nil
}
func (f *fakeWindow) Present() error                        { return nil }
func (f *fakeWindow) RequestCursorIcon(icon tree.CursorIcon) { f.cursor = icon }
func (f *fakeWindow) RequestIME(req tree.ImeRequest)         { f.ime = &req }

// fakeRenderer records every command.Command it was asked to render,
// standing in for *renderer.Renderer so the driver can be exercised without
// a real hal.Device.
type fakeRenderer struct {
	resized  bool
	lastCmds []command.Command
	renders  int
}

func (f *fakeRenderer) Resize(width, height uint32) error { f.resized = true; return nil }
func (f *fakeRenderer) RenderFrame(ctx context.Context, cmds []command.Command, dest renderer.SurfaceFrame) error {
	f.lastCmds = cmds
	f.renders++
	return nil
}

func leafFn(w, h units.Px) tree.MeasureFn {
	return func(in *tree.MeasureInput) (units.ComputedData, error) {
		return units.ComputedData{Width: w, Height: h, MaxWidth: w, MaxHeight: h}, nil
	}
}

func TestRunFrameBuildsMeasuresAndRenders(t *testing.T) {
	win := newFakeWindow(200, 100)
	rnd := &fakeRenderer{}
	build := func(a *tree.Arena, states *state.Registry, ctxs *state.ContextRegistry) {
		root := a.AddNode(tree.ComponentNode{FnName: "root", Identity: tree.NewIdentity(tree.RootIdentity, 1, "")})
		a.AddNode(tree.ComponentNode{
			FnName:     "leaf",
			Identity:   tree.NewIdentity(a.Node(root).Identity, 2, ""),
			LayoutSpec: leafFn(10, 10),
		})
		a.PopNode()
		a.PopNode()
	}
	d := NewDriver(win, nil, rnd, build, 2)

	more, err := d.RunFrame(context.Background())
	require.NoError(t, err)
	assert.False(t, more, "no pending input events means the driver may block for the next one")
	assert.True(t, rnd.resized, "first frame must resize against the window's reported size")
	assert.Equal(t, 1, rnd.renders)
}

func TestRunFrameStopsOnCloseRequested(t *testing.T) {
	win := newFakeWindow(100, 100)
	win.events <- WindowEvent{Kind: EventCloseRequested}
	rnd := &fakeRenderer{}
	build := func(a *tree.Arena, states *state.Registry, ctxs *state.ContextRegistry) {
		a.AddNode(tree.ComponentNode{FnName: "root", Identity: tree.NewIdentity(tree.RootIdentity, 1, "")})
		a.PopNode()
	}
	d := NewDriver(win, nil, rnd, build, 2)

	more, err := d.RunFrame(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, 0, rnd.renders, "a close-requested event must skip the rest of the pipeline")
}

// TestStatefulCounterAcrossFrames covers the "stateful counter across
// frames" end-to-end scenario: a component increments a State[int] on every
// build and the new value is visible, and survives, across multiple
// RunFrame calls because state.Registry persists on the Driver.
func TestStatefulCounterAcrossFrames(t *testing.T) {
	win := newFakeWindow(50, 50)
	rnd := &fakeRenderer{}
	counterIdentity := tree.NewIdentity(tree.RootIdentity, 42, "counter")
	build := func(a *tree.Arena, states *state.Registry, ctxs *state.ContextRegistry) {
		root := a.AddNode(tree.ComponentNode{FnName: "root", Identity: tree.NewIdentity(tree.RootIdentity, 1, "")})
		counter := state.Remember(states, counterIdentity, func() int { return 0 })
		counter.WithMut(func(n *int) { *n++ })
		_ = root
		a.PopNode()
	}
	d := NewDriver(win, nil, rnd, build, 2)

	for i := 0; i < 3; i++ {
		_, err := d.RunFrame(context.Background())
		require.NoError(t, err)
	}

	counter := state.Remember(d.States, counterIdentity, func() int { return -1 })
	assert.Equal(t, 3, counter.Get(), "counter state persists and accumulates across separate RunFrame calls")
}

func TestReceiveFrameNanosInvokedEveryFrame(t *testing.T) {
	win := newFakeWindow(50, 50)
	win.events <- WindowEvent{Kind: EventFrameTick, Nanos: 123}
	rnd := &fakeRenderer{}
	build := func(a *tree.Arena, states *state.Registry, ctxs *state.ContextRegistry) {
		a.AddNode(tree.ComponentNode{FnName: "root", Identity: tree.NewIdentity(tree.RootIdentity, 1, "")})
		a.PopNode()
	}
	d := NewDriver(win, nil, rnd, build, 2)
	var seen []int64
	d.ReceiveFrameNanos(func(nanos int64) { seen = append(seen, nanos) })

	_, err := d.RunFrame(context.Background())
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, int64(123), seen[0])
}

func TestFocusStatePersistsAcrossCalls(t *testing.T) {
	win := newFakeWindow(50, 50)
	rnd := &fakeRenderer{}
	build := func(a *tree.Arena, states *state.Registry, ctxs *state.ContextRegistry) {
		a.AddNode(tree.ComponentNode{FnName: "root", Identity: tree.NewIdentity(tree.RootIdentity, 1, "")})
		a.PopNode()
	}
	d := NewDriver(win, nil, rnd, build, 1)

	focus := d.FocusState()
	focus.Set(Focus{NodeID: 7, Active: true})

	again := d.FocusState()
	assert.Equal(t, Focus{NodeID: 7, Active: true}, again.Get())
}
