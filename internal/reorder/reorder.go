// Package reorder implements the command stream reorderer: it takes the
// painter's-order command stream internal/tree.Flatten produces and
// reorders it to respect GPU-visibility barriers while maximizing
// same-pipeline batching.
//
// Grounded directly on the upstream Rust renderer's reorder.rs
// (InstructionCategory, InstructionInfo, PriorityNode, reorder_instructions,
// priority_topological_sort, build_dependency_graph), with the underlying
// DAG/cycle-detection machinery adapted from the
// internal/graph/graph.go idiom (generic Graph, AddEdge, hasCycle,
// Kahn's-algorithm TopologicalSort) into the priority-heap-draining variant
// described by reorder.rs.
package reorder

import (
	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/units"
)

// Category is the reorderer's coarse priority class. Compute always
// outranks BarrierDraw, which always outranks ContinuationDraw.
type Category int

const (
	ContinuationDraw Category = iota
	BarrierDraw
	Compute
)

// instructionInfo mirrors the original's InstructionInfo: the derived
// category and affected rect for one command in the stream, plus its
// original index for stable tiebreaking.
type instructionInfo struct {
	cmd           command.Command
	category      Category
	rect          units.PxRect
	hasRect       bool
	originalIndex int
}

// Classify derives a command's Category and affected rect from its
// Barrier(): Compute commands are always category Compute regardless of
// barrier; None -> ContinuationDraw with the node's own rect (it still
// occupies space, per reorder.rs::InstructionInfo::new); Global/PaddedLocal/
// Absolute -> BarrierDraw (or stay Compute) with a derived rect.
func Classify(cmd command.Command, surface units.PxRect) (Category, units.PxRect, bool) {
	rect, hasRect := command.AffectedRect(cmd, surface)
	if cmd.IsCompute() {
		return Compute, rect, hasRect
	}
	if cmd.Barrier().Kind == command.BarrierNone {
		return ContinuationDraw, rect, hasRect
	}
	return BarrierDraw, rect, hasRect
}

func classifyAll(cmds []command.Command, surface units.PxRect) []instructionInfo {
	infos := make([]instructionInfo, len(cmds))
	for i, cmd := range cmds {
		cat, rect, hasRect := Classify(cmd, surface)
		infos[i] = instructionInfo{cmd: cmd, category: cat, rect: rect, hasRect: hasRect, originalIndex: i}
	}
	return infos
}

// Reorder is the package's single entry point: it classifies every command,
// builds the dependency DAG per the three rules in buildDependencyGraph,
// and drains it via a priority topological sort. A structurally impossible
// cycle (see hasCycle) falls back to the original order with a warning
// instead of panicking: a dependency cycle here is a logic bug, not
// something the renderer should crash a frame over.
func Reorder(cmds []command.Command, surface units.PxRect) []command.Command {
	if len(cmds) <= 1 {
		return cmds
	}
	infos := classifyAll(cmds, surface)
	g := buildDependencyGraph(infos)

	if g.hasCycle() {
		tlog.Warn(tlog.TagReorder, "dependency cycle detected among %d commands, falling back to original order", len(cmds))
		return cmds
	}

	order := priorityTopologicalSort(g, infos)
	out := make([]command.Command, len(order))
	for i, idx := range order {
		out[i] = infos[idx].cmd
	}
	return out
}
