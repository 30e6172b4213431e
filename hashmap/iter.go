package hashmap

import "github.com/go-persistent/collections"

// entry is a single work item on the iterator's explicit stack: a
// bitmap node being walked data-slots-then-children, a collision
// node's remaining entries, or a single data node not yet emitted.
type entry[K comparable, V comparable] struct {
	bn       *bitmapNode[K, V]
	dataIdx  int
	childIdx int

	cn  *collisionNode[K, V]
	cIdx int

	dn *dataNode[K, V]
}

// Iterator walks a Map's entries via an explicit stack, avoiding both
// recursion and goroutine-backed generators.
type Iterator[K comparable, V comparable] struct {
	stack   []entry[K, V]
	curKey  K
	curVal  V
	started bool
	done    bool
}

// Iter returns an iterator positioned before the first entry.
func (m Map[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{}
	it.push(m.root)
	return it
}

func (it *Iterator[K, V]) push(n any) {
	switch t := n.(type) {
	case nil:
	case *dataNode[K, V]:
		it.stack = append(it.stack, entry[K, V]{dn: t})
	case *collisionNode[K, V]:
		it.stack = append(it.stack, entry[K, V]{cn: t})
	case *bitmapNode[K, V]:
		it.stack = append(it.stack, entry[K, V]{bn: t})
	}
}

// Next advances to the next entry, returning false once exhausted.
func (it *Iterator[K, V]) Next() bool {
	it.started = true
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]

		if top.dn != nil {
			it.curKey, it.curVal = top.dn.key, top.dn.val
			it.stack = it.stack[:len(it.stack)-1]
			return true
		}

		if top.cn != nil {
			if top.cIdx >= len(top.cn.entries) {
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			e := top.cn.entries[top.cIdx]
			top.cIdx++
			it.curKey, it.curVal = e.key, e.val
			return true
		}

		bn := top.bn
		if top.dataIdx < len(bn.keys) {
			i := top.dataIdx
			top.dataIdx++
			it.curKey, it.curVal = bn.keys[i], bn.vals[i]
			return true
		}
		if top.childIdx < len(bn.kids) {
			child := bn.kids[len(bn.kids)-1-top.childIdx]
			top.childIdx++
			it.push(child)
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	it.done = true
	return false
}

// Key and Val return the entry at the iterator's current position.
// Call only after a Next that returned true.
func (it *Iterator[K, V]) Key() K { return it.curKey }
func (it *Iterator[K, V]) Val() V { return it.curVal }

// CurrentErr returns the current entry, or ErrIteratorExhausted if
// Next has not been called or returned false.
func (it *Iterator[K, V]) CurrentErr() (K, V, error) {
	var zk K
	var zv V
	if !it.started || it.done {
		return zk, zv, collections.ErrIteratorExhausted
	}
	return it.curKey, it.curVal, nil
}
