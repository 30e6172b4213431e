package vector

import (
	"sync"
	"sync/atomic"
)

// nodePool is a type-safe wrapper around sync.Pool, specialized for
// managing *node[E] instances. It exists to absorb the allocation
// churn of a single bulk transient build (Builder), which can touch
// thousands of nodes that would otherwise all be freshly allocated
// and then immediately garbage.
//
// A nodePool is created fresh per Builder (per operation), not shared
// globally: two concurrent bulk builds never contend for the same
// pool, and a pool's lifetime never outlives the operation that
// created it.
type nodePool[E comparable] struct {
	sync.Pool

	totalAllocated atomic.Int64 // total *node[E] ever allocated
	currentLive    atomic.Int64 // nodes currently checked out, not yet returned
}

// newNodePool creates a pool of *node[E] instances.
func newNodePool[E comparable]() *nodePool[E] {
	p := &nodePool[E]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return new(node[E])
	}
	return p
}

// Get retrieves a *node[E] from the pool, or allocates one if the
// pool is empty. A nil pool (the plain, non-pooled immutable path)
// always allocates, without tracking.
func (p *nodePool[E]) Get() *node[E] {
	if p == nil {
		return new(node[E])
	}
	p.currentLive.Add(1)
	return p.Pool.Get().(*node[E])
}

// Put returns n to the pool for reuse, after resetting its fields. A
// nil pool discards n instead.
func (p *nodePool[E]) Put(n *node[E]) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	n.reset()
	p.Pool.Put(n)
}

// Stats returns the number of currently live (checked-out) nodes and
// the total number ever allocated by this pool.
func (p *nodePool[E]) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
