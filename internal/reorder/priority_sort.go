package reorder

import "container/heap"

// priorityNode is one ready-to-emit instruction in the heap, ordered by
// (category desc, pipeline type id grouping, original index asc) — the Go
// analogue of reorder.rs's PriorityNode Ord impl, with the original index
// comparison reversed so a max-heap drains the earliest original index
// first within a tie.
type priorityNode struct {
	index    int
	category Category
	typeID   string
}

type priorityHeap []priorityNode

func (h priorityHeap) Len() int { return len(h) }
func (h priorityHeap) Less(i, j int) bool {
	if h[i].category != h[j].category {
		return h[i].category > h[j].category // Compute > BarrierDraw > ContinuationDraw
	}
	if h[i].typeID != h[j].typeID {
		return h[i].typeID < h[j].typeID
	}
	return h[i].index < h[j].index
}
func (h priorityHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *priorityHeap) Push(x any)        { *h = append(*h, x.(priorityNode)) }
func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// priorityTopologicalSort is a Kahn's-algorithm variant that, instead of
// draining strictly one ready node at a time, keeps pulling ready nodes
// that share the just-emitted node's (category, pipelineTypeID) before
// re-ranking the heap — this is what lets the renderer batch same-category,
// same-pipeline commands together even though they aren't contiguous in the
// dependency-respecting topological order alone.
func priorityTopologicalSort(g *graph, infos []instructionInfo) []int {
	inDeg := append([]int(nil), g.inDeg...)
	h := &priorityHeap{}
	heap.Init(h)

	push := func(i int) {
		heap.Push(h, priorityNode{index: i, category: infos[i].category, typeID: infos[i].cmd.PipelineTypeID().String()})
	}
	for i := 0; i < g.n; i++ {
		if inDeg[i] == 0 {
			push(i)
		}
	}

	order := make([]int, 0, g.n)
	var currentCategory Category = -1
	var currentType string
	haveCurrent := false

	for h.Len() > 0 {
		// Drain every ready node matching the current batch's
		// (category, typeID) before falling back to the heap's natural
		// priority order for the next batch.
		drained := false
		if haveCurrent {
			for idx := 0; idx < h.Len(); idx++ {
				n := (*h)[idx]
				if n.category == currentCategory && n.typeID == currentType {
					heap.Remove(h, idx)
					order = append(order, n.index)
					relax(g, inDeg, n.index, push)
					drained = true
					break
				}
			}
		}
		if drained {
			continue
		}

		top := heap.Pop(h).(priorityNode)
		order = append(order, top.index)
		currentCategory, currentType, haveCurrent = top.category, top.typeID, true
		relax(g, inDeg, top.index, push)
	}

	return order
}

func relax(g *graph, inDeg []int, u int, push func(int)) {
	for _, v := range g.edges[u] {
		inDeg[v]--
		if inDeg[v] == 0 {
			push(v)
		}
	}
}
