package hashmap

import "github.com/go-persistent/collections/internal/bitops"

const maxShift = 32

// champGet looks up key by hash in the subtree rooted at n.
func champGet[K comparable, V comparable](n any, hash uint32, key K) (V, bool) {
	return champGetAt[K, V](n, hash, key, 0)
}

func champGetAt[K comparable, V comparable](n any, hash uint32, key K, shift uint) (V, bool) {
	var zero V
	switch t := n.(type) {
	case nil:
		return zero, false
	case *dataNode[K, V]:
		if t.hash == hash && t.key == key {
			return t.val, true
		}
		return zero, false
	case *collisionNode[K, V]:
		for _, e := range t.entries {
			if e.key == key {
				return e.val, true
			}
		}
		return zero, false
	case *bitmapNode[K, V]:
		return champGetBitmap[K, V](t, hash, key, shift)
	default:
		return zero, false
	}
}

func champGetBitmap[K comparable, V comparable](n *bitmapNode[K, V], hash uint32, key K, shift uint) (V, bool) {
	var zero V
	frag := bitops.Frag(hash, shift)
	bit := bitops.Bit(frag)
	if n.dataMap&bit != 0 {
		idx := bitops.DataIndex(frag, n.dataMap)
		if n.keys[idx] == key {
			return n.vals[idx], true
		}
		return zero, false
	}
	if n.nodeMap&bit != 0 {
		idx := bitops.NodeIndex(frag, n.nodeMap)
		child := n.kids[len(n.kids)-1-idx]
		return champGetAt[K, V](child, hash, key, shift+bitops.Bits)
	}
	return zero, false
}

// mergeTwoEntries builds the smallest subtree holding two distinct
// entries that collided in their parent's slot. It recurses down the
// fragment trail until the fragments diverge, or falls back to a
// collision node once the hash is exhausted.
func mergeTwoEntries[K comparable, V comparable](h1 uint32, k1 K, v1 V, h2 uint32, k2 K, v2 V, shift uint) any {
	if shift >= maxShift {
		return &collisionNode[K, V]{hash: h1, entries: []kv[K, V]{{k1, v1}, {k2, v2}}}
	}
	f1 := bitops.Frag(h1, shift)
	f2 := bitops.Frag(h2, shift)
	if f1 != f2 {
		bn := &bitmapNode[K, V]{dataMap: bitops.Bit(f1) | bitops.Bit(f2)}
		if f1 < f2 {
			bn.hashes = []uint32{h1, h2}
			bn.keys = []K{k1, k2}
			bn.vals = []V{v1, v2}
		} else {
			bn.hashes = []uint32{h2, h1}
			bn.keys = []K{k2, k1}
			bn.vals = []V{v2, v1}
		}
		return bn
	}
	child := mergeTwoEntries[K, V](h1, k1, v1, h2, k2, v2, shift+bitops.Bits)
	return &bitmapNode[K, V]{nodeMap: bitops.Bit(f1), kids: []any{child}}
}

// champAddOwned inserts or replaces (hash,key,value) in the subtree
// rooted at n. When owner is non-nil, bitmap nodes already tagged with
// owner are mutated in place instead of cloned — this is the shared
// engine behind both the immutable Add path (owner == nil, pool ==
// nil) and the transient bulk-build path (pool sources replacement
// bitmap nodes instead of allocating them bare).
func champAddOwned[K comparable, V comparable](n any, hash uint32, key K, value V, shift uint, owner *bitops.Token, pool *bitmapNodePool[K, V]) (result any, grew bool) {
	switch t := n.(type) {
	case nil:
		return &dataNode[K, V]{hash: hash, key: key, val: value}, true

	case *dataNode[K, V]:
		if t.key == key {
			if t.val == value {
				return t, false
			}
			return &dataNode[K, V]{hash: hash, key: key, val: value}, false
		}
		return mergeTwoEntries[K, V](t.hash, t.key, t.val, hash, key, value, shift), true

	case *collisionNode[K, V]:
		for i, e := range t.entries {
			if e.key == key {
				if e.val == value {
					return t, false
				}
				entries := append([]kv[K, V](nil), t.entries...)
				entries[i] = kv[K, V]{key, value}
				return &collisionNode[K, V]{hash: t.hash, entries: entries}, false
			}
		}
		entries := append(append([]kv[K, V](nil), t.entries...), kv[K, V]{key, value})
		return &collisionNode[K, V]{hash: t.hash, entries: entries}, true

	case *bitmapNode[K, V]:
		frag := bitops.Frag(hash, shift)
		bit := bitops.Bit(frag)

		if t.dataMap&bit != 0 {
			idx := bitops.DataIndex(frag, t.dataMap)
			if t.keys[idx] == key {
				if t.vals[idx] == value {
					return t, false
				}
				nn := t.forWrite(owner, pool)
				nn.vals[idx] = value
				nn.hashes[idx] = hash
				return nn, false
			}
			existingHash, existingKey, existingVal := t.hashes[idx], t.keys[idx], t.vals[idx]
			child := mergeTwoEntries[K, V](existingHash, existingKey, existingVal, hash, key, value, shift+bitops.Bits)
			withoutData := t.removeDataAt(frag)
			nn := withoutData.insertChildAt(frag, child)
			nn.owner = owner
			return nn, true
		}

		if t.nodeMap&bit != 0 {
			idx := bitops.NodeIndex(frag, t.nodeMap)
			childPos := len(t.kids) - 1 - idx
			child := t.kids[childPos]
			newChild, grewChild := champAddOwned[K, V](child, hash, key, value, shift+bitops.Bits, owner, pool)
			if newChild == child && !grewChild {
				return t, false
			}
			nn := t.forWrite(owner, pool)
			nn.kids[childPos] = newChild
			return nn, grewChild
		}

		nn := t.insertDataAt(frag, hash, key, value)
		nn.owner = owner
		if owner != nil {
			// insertDataAt shares t's kids array; an owned node gets its
			// own so later in-place child writes cannot reach t.
			nn.kids = append([]any(nil), nn.kids...)
		}
		return nn, true

	default:
		panic("hashmap: unrecognized node kind")
	}
}

// champRemoveOwned deletes key from the subtree rooted at n, applying
// the promote-and-inline collapse rules: a bitmap node left with a
// single inline entry and no children becomes a dataNode; a collision
// node left with one entry becomes a dataNode. pool, when non-nil,
// both sources replacement bitmap nodes and reclaims the ones that
// collapseIfSingleton discards, provided they were exclusively owned
// by this pass.
func champRemoveOwned[K comparable, V comparable](n any, hash uint32, key K, shift uint, owner *bitops.Token, pool *bitmapNodePool[K, V]) (result any, shrank bool) {
	switch t := n.(type) {
	case nil:
		return nil, false

	case *dataNode[K, V]:
		if t.key == key {
			return nil, true
		}
		return t, false

	case *collisionNode[K, V]:
		for i, e := range t.entries {
			if e.key == key {
				if len(t.entries) == 2 {
					rest := t.entries[1-i]
					return &dataNode[K, V]{hash: t.hash, key: rest.key, val: rest.val}, true
				}
				entries := append(append([]kv[K, V](nil), t.entries[:i]...), t.entries[i+1:]...)
				return &collisionNode[K, V]{hash: t.hash, entries: entries}, true
			}
		}
		return t, false

	case *bitmapNode[K, V]:
		frag := bitops.Frag(hash, shift)
		bit := bitops.Bit(frag)

		if t.dataMap&bit != 0 {
			idx := bitops.DataIndex(frag, t.dataMap)
			if t.keys[idx] != key {
				return t, false
			}
			without := t.removeDataAt(frag)
			without.owner = owner
			if owner != nil {
				// removeDataAt shares t's kids array; an owned node gets
				// its own so later in-place child writes cannot reach t.
				without.kids = append([]any(nil), without.kids...)
			}
			return collapseIfSingleton[K, V](without, owner, pool), true
		}

		if t.nodeMap&bit != 0 {
			idx := bitops.NodeIndex(frag, t.nodeMap)
			childPos := len(t.kids) - 1 - idx
			child := t.kids[childPos]
			newChild, shrankChild := champRemoveOwned[K, V](child, hash, key, shift+bitops.Bits, owner, pool)
			if !shrankChild {
				return t, false
			}

			var nn *bitmapNode[K, V]
			switch nc := newChild.(type) {
			case nil:
				// removeChildAt aliases its receiver's hashes/keys/vals
				// slices into the node it returns, so the forWrite
				// clone can't be safely recycled here: its backing
				// arrays are still live inside nn.
				nn = t.forWrite(owner, pool).removeChildAt(frag)
			case *dataNode[K, V]:
				nn = t.forWrite(owner, pool).removeChildAt(frag).insertDataAt(frag, nc.hash, nc.key, nc.val)
			default:
				nn = t.forWrite(owner, pool)
				nn.kids[childPos] = newChild
			}
			nn.owner = owner
			return collapseIfSingleton[K, V](nn, owner, pool), true
		}

		return t, false

	default:
		panic("hashmap: unrecognized node kind")
	}
}

// collapseIfSingleton demotes a bitmap node down to a plain dataNode
// once it holds exactly one inline entry and no children. When n is
// discarded (collapsed away or emptied) and is exclusively owned by
// this pass's owner token, it is returned to pool instead of left for
// the garbage collector.
func collapseIfSingleton[K comparable, V comparable](n *bitmapNode[K, V], owner *bitops.Token, pool *bitmapNodePool[K, V]) any {
	if n.dataCount() == 1 && n.childCount() == 0 {
		result := &dataNode[K, V]{hash: n.hashes[0], key: n.keys[0], val: n.vals[0]}
		if owner != nil && n.owner == owner {
			pool.Put(n)
		}
		return result
	}
	if n.dataCount() == 0 && n.childCount() == 0 {
		if owner != nil && n.owner == owner {
			pool.Put(n)
		}
		return nil
	}
	return n
}

// countEntries returns the number of (key,value) pairs reachable from
// n, recursively.
func countEntries[K comparable, V comparable](n any) int {
	switch t := n.(type) {
	case nil:
		return 0
	case *dataNode[K, V]:
		return 1
	case *collisionNode[K, V]:
		return len(t.entries)
	case *bitmapNode[K, V]:
		total := t.dataCount()
		for _, c := range t.kids {
			total += countEntries[K, V](c)
		}
		return total
	default:
		return 0
	}
}
