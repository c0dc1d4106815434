package tree

import "github.com/tessera-ui/tessera/internal/command"

// Flatten performs the depth-first flattening of the tree's per-node
// Commands into a single ordered stream: parent commands before children,
// children in sibling order. The returned order is painter's order — the
// reorderer (internal/reorder) is solely responsible for any subsequent
// reordering to respect GPU barriers.
func Flatten(a *Arena, metas *Metadatas, root NodeID) []command.Command {
	var out []command.Command
	flattenNode(a, metas, root, &out)
	return out
}

func flattenNode(a *Arena, metas *Metadatas, id NodeID, out *[]command.Command) {
	if id == InvalidNodeID {
		return
	}
	meta, ok := metas.Get(id)
	if ok {
		*out = append(*out, meta.Commands...)
	}
	for _, child := range a.ChildrenOf(id) {
		flattenNode(a, metas, child, out)
	}
}
