package frame

import (
	"github.com/tessera-ui/tessera/internal/state"
	"github.com/tessera-ui/tessera/internal/tree"
)

// Focus is held in an ordinary state.State[Focus] entry — there is no
// separate focus subsystem, matching the Data Model's "focus model via
// State<Focus>" line.
type Focus struct {
	NodeID tree.NodeID
	Active bool
}

// focusIdentity is the single, fixed identity the driver's focus state lives
// under — one driver, one focus slot, independent of whatever the current
// frame's tree looks like.
var focusIdentity = tree.NewIdentity(tree.RootIdentity, ^uint64(0), "driver-focus")

// FocusState returns the Focus entry in this Driver's state registry,
// creating it on first use.
func (d *Driver) FocusState() *state.State[Focus] {
	return state.Remember(d.States, focusIdentity, func() Focus { return Focus{} })
}

// ReceiveFrameNanos registers fn to be called with the current frame's
// timestamp on every subsequent RunFrame that reaches the input phase (a
// frame that ends early on a close request, an empty tree, or a measurement
// failure does not call it), the Go analogue of the original's
// with_frame_nanos subscription side (spec.md: no cross-frame animation
// scheduler is owned by Tessera itself — this is just a timestamp relay).
func (d *Driver) ReceiveFrameNanos(fn func(nanos int64)) {
	d.frameNanosListeners = append(d.frameNanosListeners, fn)
}

// WithFrameNanos calls fn with the current frame's timestamp and returns its
// result, for components that want a one-shot read rather than a standing
// subscription.
func (d *Driver) WithFrameNanos(fn func(nanos int64) any) any {
	return fn(d.currentFrameNanos)
}
