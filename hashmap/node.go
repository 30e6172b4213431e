package hashmap

import "github.com/go-persistent/collections/internal/bitops"

// threshold is the Sparse/Array boundary: a bitmap node's
// child-storage growth strategy changes once its child count crosses
// this, even though Sparse and Array bitmap nodes share the exact
// same struct and layout — they differ only in that threshold-driven
// growth policy. See bitmapNode.isArray.
const threshold = 8

// kv is an inline key/value pair, used by collisionNode's entry list.
type kv[K comparable, V comparable] struct {
	key K
	val V
}

// dataNode represents exactly one entry: a full hash, its key and its
// value. It is also the collapse target when a bitmap node or
// collision node is demoted down to a single remaining entry.
type dataNode[K comparable, V comparable] struct {
	hash uint32
	key  K
	val  V
}

// collisionNode holds two or more entries that share a hash prefix
// all the way to the maximum trie depth. Lookup and mutation fall
// back to a linear scan of entries.
type collisionNode[K comparable, V comparable] struct {
	hash    uint32
	entries []kv[K, V]
}

// bitmapNode is a CHAMP bitmap-indexed node: dataMap marks slots
// holding an inline (K,V) pair, nodeMap marks slots holding a child
// subtree reference, and dataMap&nodeMap == 0 always.
//
// A CHAMP node's content is classically one array with the data half
// in ascending slot order followed by the node half in descending
// slot order. This implementation keeps the same bitmap indexing and
// the same reverse ordering for kids, but splits the content array
// into typed keys/vals/hashes slices plus a kids slice of child
// references, instead of one combined array of boxed values — K and V
// stay unboxed, and only child references (which are genuinely
// heterogeneous: dataNode, collisionNode, or bitmapNode) pay the
// interface-boxing cost.
type bitmapNode[K comparable, V comparable] struct {
	dataMap uint32
	nodeMap uint32

	hashes []uint32 // parallel to keys/vals; needed to re-split on a later collision
	keys   []K
	vals   []V

	kids []any // *dataNode[K,V] | *collisionNode[K,V] | *bitmapNode[K,V], reverse slot order

	owner *bitops.Token
}

// isArray reports whether n is operating in Array mode (child count
// over threshold) rather than Sparse mode. The two modes share an
// identical layout; this only selects a capacity-growth strategy.
func (n *bitmapNode[K, V]) isArray() bool {
	return bitops.Popcount32(n.nodeMap) > threshold
}

// dataCount and childCount read the node's two population counts.
func (n *bitmapNode[K, V]) dataCount() int  { return bitops.Popcount32(n.dataMap) }
func (n *bitmapNode[K, V]) childCount() int { return bitops.Popcount32(n.nodeMap) }

// clone returns a shallow, unowned copy of n with fresh backing
// slices, safe to mutate independently of n.
func (n *bitmapNode[K, V]) clone() *bitmapNode[K, V] {
	return &bitmapNode[K, V]{
		dataMap: n.dataMap,
		nodeMap: n.nodeMap,
		hashes:  append([]uint32(nil), n.hashes...),
		keys:    append([]K(nil), n.keys...),
		vals:    append([]V(nil), n.vals...),
		kids:    append([]any(nil), n.kids...),
	}
}

// cloneFrom is clone, sourcing the fresh node from pool instead of a
// bare allocation. A nil pool falls back to an ordinary allocation.
func (n *bitmapNode[K, V]) cloneFrom(pool *bitmapNodePool[K, V]) *bitmapNode[K, V] {
	c := pool.Get()
	c.dataMap = n.dataMap
	c.nodeMap = n.nodeMap
	c.hashes = append(c.hashes[:0], n.hashes...)
	c.keys = append(c.keys[:0], n.keys...)
	c.vals = append(c.vals[:0], n.vals...)
	c.kids = append(c.kids[:0], n.kids...)
	return c
}

// reset clears n's fields so a pool can safely hand it out again. The
// slices are dropped entirely (not just truncated) rather than kept
// for their capacity: removeDataAt/removeChildAt and friends routinely
// hand out a node whose hashes/keys/vals/kids alias the original
// node's backing array, so truncating in place here could let a later
// reuse of that capacity silently corrupt a still-live, supposedly
// immutable node elsewhere.
func (n *bitmapNode[K, V]) reset() {
	n.dataMap = 0
	n.nodeMap = 0
	n.hashes = nil
	n.keys = nil
	n.vals = nil
	n.kids = nil
	n.owner = nil
}

// forWrite returns a node the caller may mutate in place: n itself if
// it already carries owner, otherwise a freshly tagged clone sourced
// from pool. A nil owner always clones (the immutable path never
// mutates in place); a nil pool clones via a bare allocation.
func (n *bitmapNode[K, V]) forWrite(owner *bitops.Token, pool *bitmapNodePool[K, V]) *bitmapNode[K, V] {
	if owner != nil && n.owner == owner {
		return n
	}
	c := n.cloneFrom(pool)
	c.owner = owner
	return c
}

// insertDataAt returns a copy of n with a new inline (hash,key,val) at
// slot frag. Capacity is pre-grown to B once the node is already in
// Array mode, trading a larger allocation for fewer reallocations
// under continued growth.
func (n *bitmapNode[K, V]) insertDataAt(frag uint, hash uint32, key K, val V) *bitmapNode[K, V] {
	idx := bitops.DataIndex(frag, n.dataMap)
	cap0 := len(n.keys) + 1
	if n.isArray() {
		cap0 = bitops.B
	}

	hashes := growInsertU32(n.hashes, idx, hash, cap0)
	keys := growInsertK(n.keys, idx, key, cap0)
	vals := growInsertV(n.vals, idx, val, cap0)

	return &bitmapNode[K, V]{
		dataMap: n.dataMap | bitops.Bit(frag),
		nodeMap: n.nodeMap,
		hashes:  hashes,
		keys:    keys,
		vals:    vals,
		kids:    n.kids,
	}
}

// removeDataAt returns a copy of n with the data slot frag removed.
func (n *bitmapNode[K, V]) removeDataAt(frag uint) *bitmapNode[K, V] {
	idx := bitops.DataIndex(frag, n.dataMap)
	hashes := append(append([]uint32(nil), n.hashes[:idx]...), n.hashes[idx+1:]...)
	keys := append(append([]K(nil), n.keys[:idx]...), n.keys[idx+1:]...)
	vals := append(append([]V(nil), n.vals[:idx]...), n.vals[idx+1:]...)
	return &bitmapNode[K, V]{
		dataMap: n.dataMap &^ bitops.Bit(frag),
		nodeMap: n.nodeMap,
		hashes:  hashes,
		keys:    keys,
		vals:    vals,
		kids:    n.kids,
	}
}

// insertChildAt returns a copy of n with child inserted at slot frag.
// Children live in reverse slot order from the end of the kids slice.
func (n *bitmapNode[K, V]) insertChildAt(frag uint, child any) *bitmapNode[K, V] {
	idx := bitops.NodeIndex(frag, n.nodeMap)
	pos := len(n.kids) - idx
	kids := make([]any, 0, len(n.kids)+1)
	kids = append(kids, n.kids[:pos]...)
	kids = append(kids, child)
	kids = append(kids, n.kids[pos:]...)
	return &bitmapNode[K, V]{
		dataMap: n.dataMap,
		nodeMap: n.nodeMap | bitops.Bit(frag),
		hashes:  n.hashes,
		keys:    n.keys,
		vals:    n.vals,
		kids:    kids,
	}
}

// removeChildAt returns a copy of n with the child at slot frag
// dropped entirely.
func (n *bitmapNode[K, V]) removeChildAt(frag uint) *bitmapNode[K, V] {
	idx := bitops.NodeIndex(frag, n.nodeMap)
	pos := len(n.kids) - 1 - idx
	kids := append(append([]any(nil), n.kids[:pos]...), n.kids[pos+1:]...)
	return &bitmapNode[K, V]{
		dataMap: n.dataMap,
		nodeMap: n.nodeMap &^ bitops.Bit(frag),
		hashes:  n.hashes,
		keys:    n.keys,
		vals:    n.vals,
		kids:    kids,
	}
}

func growInsertU32(s []uint32, idx int, v uint32, cap0 int) []uint32 {
	out := make([]uint32, len(s), max(cap0, len(s)+1))
	copy(out, s[:idx])
	out = out[:len(s)+1]
	copy(out[idx+1:], s[idx:])
	out[idx] = v
	return out
}

func growInsertK[K any](s []K, idx int, v K, cap0 int) []K {
	out := make([]K, len(s), max(cap0, len(s)+1))
	copy(out, s[:idx])
	out = out[:len(s)+1]
	copy(out[idx+1:], s[idx:])
	out[idx] = v
	return out
}

func growInsertV[V any](s []V, idx int, v V, cap0 int) []V {
	out := make([]V, len(s), max(cap0, len(s)+1))
	copy(out, s[:idx])
	out = out[:len(s)+1]
	copy(out[idx+1:], s[idx:])
	out[idx] = v
	return out
}
