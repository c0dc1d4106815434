package layout

import (
	"context"
	"hash/maphash"
	"sync"

	"github.com/tessera-ui/tessera/internal/command"
	"github.com/tessera-ui/tessera/internal/tree"
	"github.com/tessera-ui/tessera/internal/units"
)

// CacheKey is (identity, constraint, layout-spec hash, children-subtree
// fingerprint) — a hit requires all four to match the previous frame's
// measurement of the same identity.
type CacheKey struct {
	identity            tree.Identity
	constraint          units.Constraint
	specHash             uint64
	childrenFingerprint  uint64
}

type cacheEntry struct {
	computed        units.ComputedData
	clipsChildren   bool
	commands        []command.Command
	childOrder      []tree.Identity // by position, for sanity-checking a hit
	childRelPos     []units.PxPosition
	childConstraint []units.Constraint
}

// Cache is the per-application memoization table, keyed by CacheKey. One
// Cache instance persists across frames (internal/frame owns it). Entries
// are only ever replaced by a Store under the same key, never removed: an
// entry for an identity, constraint or child set that no longer occurs
// stays in the map without being looked up again.
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]*cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[CacheKey]*cacheEntry)}
}

var seed = maphash.MakeSeed()

func (c *Cache) BuildKey(a *tree.Arena, id tree.NodeID, identity tree.Identity, constraint units.Constraint) CacheKey {
	return CacheKey{
		identity:            identity,
		constraint:          constraint,
		specHash:            specHash(a.Node(id)),
		childrenFingerprint: childrenFingerprint(a, id),
	}
}

// specHash distinguishes nodes whose LayoutSpec function identity changed
// (e.g. a widget swapped its layout strategy between frames) even though
// its tree Identity stayed the same; function values aren't comparable in
// Go, so this hashes whether a custom spec is present and its FnName,
// which is the information actually available about a LayoutSpec's shape.
func specHash(n tree.ComponentNode) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteString(n.FnName)
	if n.LayoutSpec != nil {
		h.WriteByte(1)
	} else {
		h.WriteByte(0)
	}
	return h.Sum64()
}

// childrenFingerprint hashes the ordered sequence of children identities,
// so a cache hit is only possible when the current frame's child
// (sub)structure exactly matches the frame that produced the cached result.
func childrenFingerprint(a *tree.Arena, id tree.NodeID) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	var buf [8]byte
	for _, child := range a.ChildrenOf(id) {
		identity := a.Node(child).Identity
		for i := 0; i < 8; i++ {
			buf[i] = byte(uint64(identity) >> (8 * i))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

func (c *Cache) Lookup(key CacheKey) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) Store(key CacheKey, e *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

func buildCacheEntry(a *tree.Arena, metas *tree.Metadatas, id tree.NodeID, computed units.ComputedData, recorded map[tree.NodeID]units.Constraint) *cacheEntry {
	meta, _ := metas.Get(id)
	children := a.ChildrenOf(id)

	e := &cacheEntry{
		computed:        computed,
		childOrder:      make([]tree.Identity, len(children)),
		childRelPos:     make([]units.PxPosition, len(children)),
		childConstraint: make([]units.Constraint, len(children)),
	}
	if meta != nil {
		e.clipsChildren = meta.ClipsChildren
		e.commands = append([]command.Command(nil), meta.Commands...)
	}
	for i, child := range children {
		e.childOrder[i] = a.Node(child).Identity
		if cm, ok := metas.Get(child); ok {
			e.childRelPos[i] = cm.RelPosition
		}
		e.childConstraint[i] = recorded[child]
	}
	return e
}

// applyCacheHit replays a cached measurement onto the current frame's node
// id without invoking its MeasureFn. It recursively measures each current
// child against the constraint recorded last time (so grandchildren's own
// caches are still consulted), and reports ok=false — forcing a full
// remeasure — if the current children can't be matched one-to-one against
// the cached child order (the "any un-measured-on-hit child forces a miss"
// rule): this can only happen if childrenFingerprint collided, which
// maphash makes vanishingly unlikely but is handled defensively regardless.
func (e *engine) applyCacheHit(ctx context.Context, id tree.NodeID, entry *cacheEntry) (units.ComputedData, bool) {
	children := e.arena.ChildrenOf(id)
	if len(children) != len(entry.childOrder) {
		return units.ComputedData{}, false
	}
	for i, child := range children {
		if e.arena.Node(child).Identity != entry.childOrder[i] {
			return units.ComputedData{}, false
		}
	}

	meta := e.metas.MetadataMut(id)
	meta.Computed = entry.computed
	meta.ClipsChildren = entry.clipsChildren
	meta.Commands = append([]command.Command(nil), entry.commands...)

	for i, child := range children {
		e.metas.MetadataMut(child).RelPosition = entry.childRelPos[i]
		if _, err := e.MeasureNode(ctx, child, entry.childConstraint[i]); err != nil {
			return units.ComputedData{}, false
		}
	}
	return entry.computed, true
}
