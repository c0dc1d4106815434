package frame

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/tessera-ui/tessera/internal/renderer"
	"github.com/tessera-ui/tessera/internal/tree"
)

// WindowEventKind tags the small closed set of events a WindowAdapter can
// deliver through its Events channel.
type WindowEventKind int

const (
	EventResize WindowEventKind = iota
	EventPointer
	EventKey
	EventFrameTick
	EventCloseRequested
)

// WindowEvent is the host-delivered event shape Driver.RunFrame pumps once
// per call; only the fields relevant to Kind are populated.
type WindowEvent struct {
	Kind    WindowEventKind
	Width   int
	Height  int
	Pointer *tree.PointerEvent
	Key     *tree.KeyEvent
	Nanos   int64
}

// WindowAdapter is the host-provided window integration surface. Concrete
// OS/window event sourcing is a host concern, not this library's — this is
// only the contract the driver consumes.
type WindowAdapter interface {
	Events() <-chan WindowEvent
	InnerSize() (width, height int)
	ScaleFactor() float32
	AcquireSurfaceFrame() (renderer.SurfaceFrame, error)
	Present() error
	RequestCursorIcon(tree.CursorIcon)
	RequestIME(tree.ImeRequest)
}

// GPUAdapter hands the driver the device/queue a host has already created;
// device/adapter negotiation (backend selection, feature requests) is an
// application concern, same as WgpuApp::new's instance/adapter setup in the
// upstream Rust renderer, kept outside this library.
type GPUAdapter interface {
	Device() hal.Device
	Queue() hal.Queue
}

// ClipboardAdapter and FontAdapter are declared as external interfaces but
// are intentionally not wired into a concrete backend here — clipboard
// plumbing and font shaping internals are a host concern.
type ClipboardAdapter interface {
	ReadText() (string, error)
	WriteText(string) error
}

type GlyphRun struct {
	Text     string
	AdvanceX float32
}

type FontAdapter interface {
	Shape(text string, sizePx float32) ([]GlyphRun, error)
}
