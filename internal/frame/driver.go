// Package frame implements the top-level per-frame driver: pump window
// events, build the component tree, measure/place/flatten/reorder/render it,
// dispatch input bottom-up, garbage-collect stale state, and decide whether
// another frame is owed immediately.
//
// Grounded on maya.go's App/RenderPipeline/setupReactiveLoop/
// hasDirtyNodes/Run for the overall stage-orchestration shape — a fixed
// sequence of phases run once per tick, with a ticker/event-loop deciding
// whether to run the next one — and on the upstream Rust component tree's
// InputHandlerInput (block_cursor/block_keyboard/block_ime/block_all,
// WindowRequests, ImeRequest) for the event contract internal/tree.input.go
// implements.
package frame

import (
	"context"
	"fmt"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/layout"
	"github.com/tessera-ui/tessera/internal/renderer"
	"github.com/tessera-ui/tessera/internal/state"
	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/tree"
	"github.com/tessera-ui/tessera/internal/units"
)

// BuildFn constructs exactly one frame's component tree by calling
// a.AddNode/a.PopNode, the same builder-stack idiom internal/tree/arena.go
// exposes. states/ctxs are handed through so component functions can call
// state.Remember/state.UseContext while building.
type BuildFn func(a *tree.Arena, states *state.Registry, ctxs *state.ContextRegistry)

// FrameRenderer is the subset of *renderer.Renderer the driver depends on,
// narrowed to an interface so tests can substitute a fake that never
// touches a real GPU device.
type FrameRenderer interface {
	Resize(width, height uint32) error
	RenderFrame(ctx context.Context, cmds []command.Command, dest renderer.SurfaceFrame) error
}

// Driver owns everything that must persist across frames: the state and
// context registries, the layout cache, and the last-known window size.
type Driver struct {
	Window   WindowAdapter
	GPU      GPUAdapter
	Renderer FrameRenderer

	States   *state.Registry
	Contexts *state.ContextRegistry
	Cache    *layout.Cache

	Build       BuildFn
	WorkerPool  int

	width, height       int
	currentFrameNanos   int64
	frameNanosListeners []func(int64)
}

// NewDriver wires up a fresh Driver with empty persistent registries and an
// empty layout cache, ready for repeated RunFrame calls.
func NewDriver(window WindowAdapter, gpu GPUAdapter, rnd FrameRenderer, build BuildFn, workerPool int) *Driver {
	if workerPool < 1 {
		workerPool = 1
	}
	return &Driver{
		Window:     window,
		GPU:        gpu,
		Renderer:   rnd,
		States:     state.NewRegistry(),
		Contexts:   state.NewContextRegistry(),
		Cache:      layout.NewCache(),
		Build:      build,
		WorkerPool: workerPool,
	}
}

// RunFrame executes exactly one iteration of the frame pipeline and reports
// whether the driver should run another one immediately (true) or may block
// waiting for the next window event (false).
func (d *Driver) RunFrame(ctx context.Context) (bool, error) {
	events := d.drainEvents()

	resized := false
	var pointerEvents []*tree.PointerEvent
	var keyEvents []*tree.KeyEvent
	closeRequested := false

	for _, ev := range events {
		switch ev.Kind {
		case EventResize:
			d.width, d.height = ev.Width, ev.Height
			resized = true
		case EventPointer:
			pointerEvents = append(pointerEvents, ev.Pointer)
		case EventKey:
			keyEvents = append(keyEvents, ev.Key)
		case EventFrameTick:
			d.currentFrameNanos = ev.Nanos
		case EventCloseRequested:
			closeRequested = true
		}
	}
	if closeRequested {
		return false, nil
	}

	if d.width == 0 || d.height == 0 {
		d.width, d.height = d.Window.InnerSize()
		resized = true
	}
	if resized {
		if err := d.Renderer.Resize(uint32(d.width), uint32(d.height)); err != nil {
			return false, fmt.Errorf("frame: resize renderer: %w", err)
		}
	}

	a := tree.NewArena()
	d.Build(a, d.States, d.Contexts)
	root := a.Root()
	if root == tree.InvalidNodeID {
		d.States.AdvanceFrame()
		d.States.GC()
		return len(pointerEvents) > 0 || len(keyEvents) > 0, nil
	}

	metas := tree.NewMetadatas(a.Len())
	constraint := units.Constraint{
		Width:  units.ParentConstraint{Kind: units.ParentFixed, Fixed: units.Px(d.width)},
		Height: units.ParentConstraint{Kind: units.ParentFixed, Fixed: units.Px(d.height)},
	}

	_, err := layout.Measure(ctx, a, metas, d.Cache, root, constraint, d.WorkerPool)
	if err != nil {
		tlog.Error(tlog.TagFrame, "measurement failed, skipping render for this frame: %v", err)
		d.States.AdvanceFrame()
		d.States.GC()
		return true, nil
	}

	layout.Place(a, metas, root)
	cmds := tree.Flatten(a, metas, root)

	if err := d.renderFrame(ctx, cmds); err != nil {
		tlog.Error(tlog.TagFrame, "render failed, skipping present for this frame: %v", err)
	}

	requests := &tree.WindowRequests{}
	for _, ev := range pointerEvents {
		dispatchPointer(a, metas, root, ev, requests)
	}
	for _, ev := range keyEvents {
		dispatchKey(a, metas, root, ev, requests)
	}
	d.applyWindowRequests(requests)

	for _, fn := range d.frameNanosListeners {
		fn(d.currentFrameNanos)
	}

	d.States.AdvanceFrame()
	d.States.GC()

	return len(pointerEvents) > 0 || len(keyEvents) > 0, nil
}

func (d *Driver) renderFrame(ctx context.Context, cmds []command.Command) error {
	dest, err := d.Window.AcquireSurfaceFrame()
	if err != nil {
		// Surface lost/outdated: the window adapter is expected to have
		// already triggered a reconfigure internally; skip this frame's
		// present rather than treat it as fatal (§ Error Handling Design).
		tlog.Warn(tlog.TagFrame, "surface acquire failed, skipping present: %v", err)
		return nil
	}
	if err := d.Renderer.RenderFrame(ctx, cmds, dest); err != nil {
		return err
	}
	return d.Window.Present()
}

func (d *Driver) applyWindowRequests(reqs *tree.WindowRequests) {
	d.Window.RequestCursorIcon(reqs.CursorIcon)
	if reqs.IME != nil {
		d.Window.RequestIME(*reqs.IME)
	}
}

// drainEvents reads every currently buffered event off the window's channel
// without blocking.
func (d *Driver) drainEvents() []WindowEvent {
	ch := d.Window.Events()
	var out []WindowEvent
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}
