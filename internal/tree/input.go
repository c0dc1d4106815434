package tree

import "github.com/tessera-ui/tessera/internal/units"

// CursorIcon is the small closed set of cursor shapes a node's input
// handler may request the window show.
type CursorIcon int

const (
	CursorDefault CursorIcon = iota
	CursorPointer
	CursorText
	CursorGrab
	CursorGrabbing
	CursorNotAllowed
)

// ImeRequest asks the window to place its IME composition UI at a given
// point, typically the caret position of a focused text field.
type ImeRequest struct {
	Position units.PxPosition
	Active   bool
}

// WindowRequests accumulates the side-effects a frame's input dispatch
// wants to request of the window, collected by internal/frame and applied
// once per frame via the WindowAdapter.
type WindowRequests struct {
	CursorIcon CursorIcon
	IME        *ImeRequest
}

// PointerEvent and KeyEvent are the two input event shapes dispatched
// bottom-up through the tree. Concrete event sourcing (actual OS/window
// event pumping) is a host concern; these are the shapes a WindowAdapter
// translates raw events into.
type PointerEvent struct {
	Position  units.PxPosition
	Button    int
	Pressed   bool
	TimeNanos int64
}

type KeyEvent struct {
	Key       string
	Pressed   bool
	Modifiers KeyModifiers
	TimeNanos int64
}

type KeyModifiers struct {
	Ctrl, Shift, Alt, Meta bool
}

// InputHandlerInput is the single argument an InputHandlerFn receives for
// one event dispatch. BlockCursor and BlockKeyboard clear Pointer and Key
// respectively, so every handler that runs later in this same dispatch
// (ancestors and older siblings) sees nil instead of the event; BlockAll
// also stops the dispatch walk. BlockIME only sets its flag.
type InputHandlerInput struct {
	Self       NodeID
	Metas      *Metadatas
	Pointer    *PointerEvent
	Key        *KeyEvent
	Requests   *WindowRequests
	blockedCursor, blockedKeyboard, blockedIME, blockedAll bool
}

func NewInputHandlerInput(self NodeID, metas *Metadatas, requests *WindowRequests) *InputHandlerInput {
	return &InputHandlerInput{Self: self, Metas: metas, Requests: requests}
}

func (in *InputHandlerInput) BlockCursor()   { in.blockedCursor = true; in.Pointer = nil }
func (in *InputHandlerInput) BlockKeyboard() { in.blockedKeyboard = true; in.Key = nil }
func (in *InputHandlerInput) BlockIME()      { in.blockedIME = true }
func (in *InputHandlerInput) BlockAll()      { in.blockedAll = true }

func (in *InputHandlerInput) IsCursorBlocked() bool   { return in.blockedCursor || in.blockedAll }
func (in *InputHandlerInput) IsKeyboardBlocked() bool { return in.blockedKeyboard || in.blockedAll }
func (in *InputHandlerInput) IsIMEBlocked() bool      { return in.blockedIME || in.blockedAll }
func (in *InputHandlerInput) IsAllBlocked() bool      { return in.blockedAll }

// RequestCursorIcon records a cursor icon request for this frame.
func (in *InputHandlerInput) RequestCursorIcon(icon CursorIcon) {
	in.Requests.CursorIcon = icon
}

// RequestIME records an IME placement request for this frame.
func (in *InputHandlerInput) RequestIME(req ImeRequest) {
	in.Requests.IME = &req
}
