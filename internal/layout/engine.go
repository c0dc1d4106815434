// Package layout implements the constrained layout solver: parallel,
// memoized measurement of the component tree followed by a single top-down
// placement pass.
//
// Grounded on the upstream Rust component tree's node.rs (MeasureInput,
// measure_node, place_node, DEFAULT_LAYOUT_DESC, measure_nodes). The
// original's bounded parallelism comes from rayon::par_iter; this
// implementation uses golang.org/x/sync/errgroup, bounded by
// tconfig.Config.WorkerPoolSize.
package layout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tessera-ui/tessera/internal/tlog"
	"github.com/tessera-ui/tessera/internal/tree"
	"github.com/tessera-ui/tessera/internal/units"
)

// engine implements tree.Measurer. One engine is created per frame by
// Measure.
type engine struct {
	arena      *tree.Arena
	metas      *tree.Metadatas
	cache      *Cache
	maxWorkers int
}

// Measure measures the whole tree rooted at root against the given
// constraint, returning the root's ComputedData. It is the sole entry point
// internal/frame calls for the measurement phase.
func Measure(ctx context.Context, arena *tree.Arena, metas *tree.Metadatas, cache *Cache, root tree.NodeID, constraint units.Constraint, maxWorkers int) (units.ComputedData, error) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	e := &engine{arena: arena, metas: metas, cache: cache, maxWorkers: maxWorkers}
	return e.MeasureNode(ctx, root, constraint)
}

// MeasureNode measures a single node: a memoization cache hit replays the
// prior result without invoking the node's MeasureFn at all (see DESIGN.md
// OQ-2); a miss invokes the node's own LayoutSpec, or DefaultLayoutFn if it
// has none, and stores the result for next frame.
func (e *engine) MeasureNode(ctx context.Context, id tree.NodeID, constraint units.Constraint) (units.ComputedData, error) {
	if id == tree.InvalidNodeID {
		return units.ZeroComputedData, nil
	}
	node := e.arena.Node(id)

	key := e.cache.BuildKey(e.arena, id, node.Identity, constraint)
	if entry, ok := e.cache.Lookup(key); ok {
		if computed, ok := e.applyCacheHit(ctx, id, entry); ok {
			tlog.Trace(tlog.TagLayout, "cache hit for node %s (identity %d)", id, node.Identity)
			return computed, nil
		}
		tlog.Trace(tlog.TagLayout, "cache entry for node %s invalidated (children changed), remeasuring", id)
	}

	fn := node.LayoutSpec
	if fn == nil {
		fn = DefaultLayoutFn
	}

	meta := e.metas.MetadataMut(id)
	meta.Commands = nil
	meta.ClipsChildren = false

	in := &tree.MeasureInput{
		Arena:      e.arena,
		Metas:      e.metas,
		Self:       id,
		Measurer:   e,
		Constraint: constraint,
		Recorded:   make(map[tree.NodeID]units.Constraint),
	}

	computed, err := fn(in)
	if err != nil {
		return units.ComputedData{}, &tree.MeasurementError{NodeID: id, FnName: node.FnName, Reason: err.Error()}
	}
	meta.Computed = computed

	e.cache.Store(key, buildCacheEntry(e.arena, e.metas, id, computed, in.Recorded))
	return computed, nil
}

// MeasureMany measures a set of sibling nodes in parallel, bounded by
// e.maxWorkers, short-circuiting on the first error — the Go analogue of
// rayon's par_iter().map(...).collect::<Result<_>>().
func (e *engine) MeasureMany(ctx context.Context, ids []tree.NodeID, constraint units.Constraint) (map[tree.NodeID]units.ComputedData, error) {
	results := make(map[tree.NodeID]units.ComputedData, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxWorkers)

	type pair struct {
		id       tree.NodeID
		computed units.ComputedData
	}
	out := make(chan pair, len(ids))

	for _, id := range ids {
		id := id
		g.Go(func() error {
			computed, err := e.MeasureNode(gctx, id, constraint)
			if err != nil {
				return err
			}
			out <- pair{id: id, computed: computed}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)
	for p := range out {
		results[p.id] = p.computed
	}
	return results, nil
}
