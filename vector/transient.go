package vector

import "github.com/go-persistent/collections/internal/bitops"

// Builder is the transient (mutation-owning) counterpart of Vector: a
// single bulk operation holds a fresh ownership token and mutates any
// node already tagged with that token in place, cloning (and tagging)
// anything it touches that it does not yet own. Build freezes the
// owned subtree — clearing tokens, making the result safe to share —
// and returns the finished Vector.
//
// Each Builder owns a private nodePool, scoped to that one bulk
// operation: it absorbs the allocation traffic of path-copying and
// overflow handling across many Push calls, without any node ever
// being shared between concurrent builds.
//
// A Builder must not be used concurrently, and must not be reused
// after Build.
type Builder[E comparable] struct {
	owner  *bitops.Token
	pool   *nodePool[E]
	root   *node[E]
	length int
}

// NewBuilder starts a fresh transient build.
func NewBuilder[E comparable]() *Builder[E] {
	return &Builder[E]{owner: bitops.New(), pool: newNodePool[E]()}
}

// From bulk-builds a vector from seq via repeated transient Push,
// amortizing the per-element cost of path-copying paid by Push.
func From[E comparable](seq []E) Vector[E] {
	b := NewBuilder[E]()
	for _, v := range seq {
		b.Push(v)
	}
	return b.Build()
}

// Push appends v, mutating the builder's owned spine in place where
// possible instead of path-copying.
func (b *Builder[E]) Push(v E) *Builder[E] {
	root, overflow := transientPush(b.root, v, b.owner, b.pool)
	if overflow != nil {
		nn := b.pool.Get()
		nn.height = root.height + 1
		nn.count = root.count + overflow.count
		nn.children = append(nn.children, root, overflow)
		nn.sizes = append(nn.sizes, root.count, root.count+overflow.count)
		nn.owner = b.owner
		root = nn
	}
	b.root = root
	b.length++
	return b
}

// Build freezes the owned subtree and returns the finished Vector.
// The Builder must not be reused afterward.
func (b *Builder[E]) Build() Vector[E] {
	freezeNode(b.root, b.owner)
	v := Vector[E]{root: collapseRoot(b.root), length: b.length}
	b.root = nil
	return v
}

// PoolStats reports the private pool's live and total node-allocation
// counts, for diagnostics.
func (b *Builder[E]) PoolStats() (live, total int64) {
	return b.pool.Stats()
}

// newLeafFrom allocates a single-element leaf from pool, tagged owner.
func newLeafFrom[E comparable](pool *nodePool[E], owner *bitops.Token, v E) *node[E] {
	n := pool.Get()
	n.height = 0
	n.count = 1
	n.items = append(n.items, v)
	n.owner = owner
	return n
}

// transientPush is pushNode's ownership-aware counterpart: a node
// tagged with owner is mutated and returned as-is; any other node is
// cloned (sourced from pool when a brand-new node is needed), tagged
// with owner, and the clone is mutated.
func transientPush[E comparable](n *node[E], v E, owner *bitops.Token, pool *nodePool[E]) (updated *node[E], overflow *node[E]) {
	if n == nil {
		return newLeafFrom(pool, owner, v), nil
	}

	if n.isLeaf() {
		if n.owner == owner {
			if len(n.items) < bitops.B {
				n.items = append(n.items, v)
				n.count++
				return n, nil
			}
			return n, newLeafFrom(pool, owner, v)
		}
		if len(n.items) < bitops.B {
			nn := pool.Get()
			nn.height = 0
			nn.items = append(nn.items[:0:0], n.items...)
			nn.items = append(nn.items, v)
			nn.count = len(nn.items)
			nn.owner = owner
			return nn, nil
		}
		return n, newLeafFrom(pool, owner, v)
	}

	owned := n.owner == owner
	newLast, carry := transientPush(n.lastChild(), v, owner, pool)

	var children []*node[E]
	if owned {
		children = n.children
	} else {
		children = make([]*node[E], len(n.children), bitops.B)
		copy(children, n.children)
	}
	children[len(children)-1] = newLast

	if carry == nil {
		if owned {
			n.children = children
			n.count++
			if n.sizes != nil {
				n.sizes[len(n.sizes)-1]++
			}
			return n, nil
		}
		nn := pool.Get()
		nn.height = n.height
		nn.count = n.count + 1
		nn.children = children
		nn.owner = owner
		if n.sizes != nil {
			nn.sizes = append(nn.sizes, n.sizes...)
			nn.sizes[len(nn.sizes)-1]++
		}
		return nn, nil
	}

	if len(children) < bitops.B {
		children = append(children, carry)
		if owned {
			n.children = children
			n.count++
			if n.sizes != nil {
				n.sizes = append(n.sizes, n.count)
			}
			return n, nil
		}
		nn := pool.Get()
		nn.height = n.height
		nn.count = n.count + 1
		nn.children = children
		nn.owner = owner
		if n.sizes != nil {
			nn.sizes = append(nn.sizes, n.sizes...)
			nn.sizes = append(nn.sizes, nn.count)
		}
		return nn, nil
	}

	carryNode := pool.Get()
	carryNode.height = n.height
	carryNode.count = carry.count
	carryNode.children = append(carryNode.children, carry)
	carryNode.sizes = append(carryNode.sizes, carry.count)
	carryNode.owner = owner
	return n, carryNode
}

// freezeNode clears the ownership token from n and every descendant
// still tagged with owner, stopping as soon as it reaches a node this
// operation never touched (a different, or nil, owner). Frozen nodes
// are deeply immutable: their content is never written again.
func freezeNode[E comparable](n *node[E], owner *bitops.Token) {
	if n == nil || n.owner != owner {
		return
	}
	n.owner = nil
	for _, c := range n.children {
		freezeNode(c, owner)
	}
}
