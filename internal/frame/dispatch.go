package frame

import (
	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/tree"
)

// dispatchPointer walks the tree bottom-up (children before parents, newest
// sibling — last one added, i.e. topmost in paint order — before older
// siblings), invoking each visited node's InputHandlerFn with a shared
// InputHandlerInput so block flags set deep in the tree are visible to
// ancestors. Once block_all is set anywhere the walk halts immediately —
// siblings not yet visited at any level never see the event.
func dispatchPointer(a *tree.Arena, metas *tree.Metadatas, root tree.NodeID, ev *tree.PointerEvent, reqs *tree.WindowRequests) {
	in := tree.NewInputHandlerInput(root, metas, reqs)
	in.Pointer = ev
	visitBottomUp(a, metas, root, in, func(id tree.NodeID) bool {
		return hitTestPointer(metas, id, ev)
	})
}

func dispatchKey(a *tree.Arena, metas *tree.Metadatas, root tree.NodeID, ev *tree.KeyEvent, reqs *tree.WindowRequests) {
	in := tree.NewInputHandlerInput(root, metas, reqs)
	in.Key = ev
	// Keyboard events are not position-gated: every node in the tree may
	// observe them (a focused text field is rarely the pointer hit node).
	visitBottomUp(a, metas, root, in, func(tree.NodeID) bool { return true })
}

func hitTestPointer(metas *tree.Metadatas, id tree.NodeID, ev *tree.PointerEvent) bool {
	meta, ok := metas.Get(id)
	if !ok {
		return false
	}
	left, top := meta.AbsPosition.X, meta.AbsPosition.Y
	right := left + meta.Computed.Width
	bottom := top + meta.Computed.Height
	return ev.Position.X >= left && ev.Position.X < right &&
		ev.Position.Y >= top && ev.Position.Y < bottom
}

// visitBottomUp performs a post-order DFS over a's tree rooted at id,
// visiting children in reverse (last-added = topmost-painted) order before
// the node itself, and before siblings earlier in the child list. interested
// gates whether a node is even considered (pointer hit-testing); keyboard
// dispatch passes an always-true gate. Returns true once block_all fires,
// propagated up through the recursion to stop the rest of the walk.
func visitBottomUp(a *tree.Arena, metas *tree.Metadatas, id tree.NodeID, in *tree.InputHandlerInput, interested func(tree.NodeID) bool) bool {
	children := a.ChildrenOf(id)
	for i := len(children) - 1; i >= 0; i-- {
		if visitBottomUp(a, metas, children[i], in, interested) {
			return true
		}
	}

	node := a.Node(id)
	if node.InputHandlerFn == nil || !interested(id) {
		return in.IsAllBlocked()
	}

	in.Self = id
	callHandlerSafely(node.InputHandlerFn, in)
	return in.IsAllBlocked()
}

// callHandlerSafely recovers a panicking InputHandlerFn so one misbehaving
// handler never blocks event delivery to its siblings/ancestors (§ Error
// Handling Design).
func callHandlerSafely(fn tree.InputHandlerFn, in *tree.InputHandlerInput) {
	defer func() {
		if r := recover(); r != nil {
			tlog.Error(tlog.TagInput, "input handler for node %v panicked: %v", in.Self, r)
		}
	}()
	fn(in)
}
