// Command tesseraapp is a thin example host: it wires a headless
// WindowAdapter, a logging FrameRenderer, and a component tree builder into
// an internal/frame.Driver and runs the frame loop. No GPUAdapter is wired
// (the Driver gets nil). It exists to demonstrate the wiring contract — real
// window/GPU backend selection (surface creation, adapter/device
// negotiation, present mode) is an application concern the library never
// performs itself, the same boundary app.rs's WgpuApp::new (host-side setup)
// draws against WgpuApp::render (library-side frame execution).
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/tessera-ui/tessera/internal/frame"
	"github.com/tessera-ui/tessera/internal/state"
	"github.com/tessera-ui/tessera/internal/tconfig"
	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/tree"
	"github.com/tessera-ui/tessera/internal/units"
)

// counterIdentity names this example's one piece of persistent state. A
// real application derives logic IDs per call site (see
// internal/tree.LogicIDFor); a single hand-picked constant is enough for an
// example with one component.
var counterIdentity = tree.NewIdentity(tree.RootIdentity, 1001, "example-counter")

// buildCounterExample is the BuildFn for this example: a root node wrapping
// a single leaf whose size grows with a State[int] counter, incremented
// once per build. It exercises internal/state.Remember the way a real
// component library's button/counter example would.
func buildCounterExample(a *tree.Arena, states *state.Registry, ctxs *state.ContextRegistry) {
	root := a.AddNode(tree.ComponentNode{
		FnName:   "root",
		Identity: tree.NewIdentity(tree.RootIdentity, 1, ""),
	})

	counter := state.Remember(states, counterIdentity, func() int { return 0 })
	counter.WithMut(func(n *int) { *n++ })
	n := counter.Get()

	leafSize := units.Px(20 + n)
	a.AddNode(tree.ComponentNode{
		FnName:   "counter-box",
		Identity: tree.NewIdentity(a.Node(root).Identity, 2, ""),
		LayoutSpec: func(in *tree.MeasureInput) (units.ComputedData, error) {
			return units.ComputedData{
				Width: leafSize, Height: leafSize,
				MaxWidth: leafSize, MaxHeight: leafSize,
			}, nil
		},
	})
	a.PopNode()

	a.PopNode()
}

func main() {
	cfg := tconfig.Default()
	cfg.Apply()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	window := newHeadlessWindow(800, 600)
	registry := newExampleRenderer()

	driver := frame.NewDriver(window, nil, registry, buildCounterExample, cfg.WorkerPoolSize)

	for {
		select {
		case <-ctx.Done():
			tlog.Info(tlog.TagFrame, "shutting down")
			return
		default:
		}

		more, err := driver.RunFrame(ctx)
		if err != nil {
			tlog.Error(tlog.TagFrame, "frame failed: %v", err)
			return
		}
		if !more {
			// Nothing pending: wait for the next vsync-equivalent tick
			// instead of busy-looping. A real WindowAdapter would instead
			// block on its own event source until the host delivers one.
			select {
			case <-ctx.Done():
				return
			case <-time.After(16 * time.Millisecond):
			}
		}
	}
}
