package main

import (
	"context"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/frame"
	"github.com/tessera-ui/tessera/internal/renderer"
	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/tree"
)

// headlessWindow is a WindowAdapter with no real OS window behind it: it
// never delivers pointer/key events on its own, and AcquireSurfaceFrame
// returns a zero-valued renderer.SurfaceFrame. A real host replaces this
// with an adapter backed by an actual window/surface toolkit; this example
// only needs to demonstrate that internal/frame.Driver's contract is
// satisfiable end-to-end.
type headlessWindow struct {
	width, height int
	events        chan frame.WindowEvent
}

func newHeadlessWindow(width, height int) *headlessWindow {
	return &headlessWindow{width: width, height: height, events: make(chan frame.WindowEvent, 64)}
}

func (w *headlessWindow) Events() <-chan frame.WindowEvent { return w.events }
func (w *headlessWindow) InnerSize() (int, int)            { return w.width, w.height }
func (w *headlessWindow) ScaleFactor() float32              { return 1 }

func (w *headlessWindow) AcquireSurfaceFrame() (renderer.SurfaceFrame, error) {
	return renderer.SurfaceFrame{}, nil
}

func (w *headlessWindow) Present() error { return nil }

func (w *headlessWindow) RequestCursorIcon(icon tree.CursorIcon) {
	tlog.Trace(tlog.TagFrame, "window requested cursor icon %d", int(icon))
}

func (w *headlessWindow) RequestIME(req tree.ImeRequest) {
	tlog.Trace(tlog.TagFrame, "window requested IME placement at %v", req.Position)
}

// exampleRenderer stands in for *renderer.Renderer in this example: it
// satisfies frame.FrameRenderer by logging what it would have drawn instead
// of issuing real hal.Device calls, since standing up a concrete GPU
// backend is the host's job (see the package doc in main.go) and is outside
// what a headless example can demonstrate.
type exampleRenderer struct {
	width, height uint32
}

func newExampleRenderer() *exampleRenderer { return &exampleRenderer{} }

func (r *exampleRenderer) Resize(width, height uint32) error {
	r.width, r.height = width, height
	tlog.Info(tlog.TagRenderer, "resized to %dx%d", width, height)
	return nil
}

func (r *exampleRenderer) RenderFrame(ctx context.Context, cmds []command.Command, dest renderer.SurfaceFrame) error {
	tlog.Trace(tlog.TagRenderer, "rendering %d commands", len(cmds))
	return nil
}
