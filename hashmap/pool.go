package hashmap

import (
	"sync"
	"sync/atomic"
)

// bitmapNodePool is a type-safe wrapper around sync.Pool specialized
// for *bitmapNode[K,V], the one CHAMP node variant with a nontrivial
// allocation cost (four backing slices). It exists to absorb the
// clone traffic of a single bulk transient pass (Builder.Put, AddAll,
// RemoveWhere), which path-copies or clones many bitmap nodes that
// would otherwise all be fresh garbage by the time the pass ends.
//
// A bitmapNodePool is created fresh per bulk operation (per Builder,
// or per AddAll/RemoveWhere call), never shared globally: recycled
// nodes only ever reenter the pass that discarded them.
type bitmapNodePool[K comparable, V comparable] struct {
	sync.Pool

	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

func newBitmapNodePool[K comparable, V comparable]() *bitmapNodePool[K, V] {
	p := &bitmapNodePool[K, V]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return new(bitmapNode[K, V])
	}
	return p
}

// Get retrieves a *bitmapNode[K,V] from the pool, or allocates one if
// empty. A nil pool (the plain immutable path) always allocates.
func (p *bitmapNodePool[K, V]) Get() *bitmapNode[K, V] {
	if p == nil {
		return new(bitmapNode[K, V])
	}
	p.currentLive.Add(1)
	return p.Pool.Get().(*bitmapNode[K, V])
}

// Put returns n to the pool after resetting its fields. A nil pool
// discards n. Callers must only Put a node they know is exclusively
// owned by the current pass (n.owner == the pass's token) — a node
// that might still be reachable from another Map or Vector must never
// be recycled.
func (p *bitmapNodePool[K, V]) Put(n *bitmapNode[K, V]) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	n.reset()
	p.Pool.Put(n)
}

// Stats reports the pool's live and total allocation counts.
func (p *bitmapNodePool[K, V]) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
