// Package vector implements PersistentVector[E]: an immutable indexed
// sequence backed by a Relaxed Radix-Balanced Tree (RRB-Tree). Every
// operation returns a new Vector; the original is left untouched.
// Single-element operations path-copy O(log32 N) nodes; bulk builds
// go through Builder, which owns a mutation token and mutates nodes in
// place until Build freezes the result.
package vector

import (
	"fmt"

	"github.com/go-persistent/collections"
	"github.com/go-persistent/collections/internal/bitops"
)

// Vector is an immutable, indexed sequence of E. The zero value is
// the canonical empty vector.
type Vector[E comparable] struct {
	root   *node[E]
	length int

	hashed bool
	hash   uint64
}

// Empty returns the canonical empty vector.
func Empty[E comparable]() Vector[E] {
	return Vector[E]{}
}

// Len returns the number of elements, O(1).
func (v Vector[E]) Len() int { return v.length }

// IsEmpty reports whether the vector has no elements.
func (v Vector[E]) IsEmpty() bool { return v.length == 0 }

func (v Vector[E]) checkIndex(i int, upperInclusive bool) error {
	limit := v.length
	if upperInclusive {
		limit++
	}
	if i < 0 || i >= limit {
		return fmt.Errorf("%w: index %d, length %d", collections.ErrIndexOutOfBounds, i, v.length)
	}
	return nil
}

// Get returns the element at i. It fails with ErrIndexOutOfBounds if
// i is not in [0, Len).
func (v Vector[E]) Get(i int) (E, error) {
	var zero E
	if err := v.checkIndex(i, false); err != nil {
		return zero, err
	}
	return getNode(v.root, i), nil
}

// MustGet is Get, panicking instead of returning an error.
func (v Vector[E]) MustGet(i int) E {
	e, err := v.Get(i)
	if err != nil {
		panic(err)
	}
	return e
}

// Update returns a new vector with the element at i replaced by val.
// If val equals the existing element, Update returns v itself (same
// root identity, no allocation).
func (v Vector[E]) Update(i int, val E) (Vector[E], error) {
	if err := v.checkIndex(i, false); err != nil {
		return v, err
	}
	newRoot := updateNode(v.root, i, val)
	if newRoot == v.root {
		return v, nil
	}
	return Vector[E]{root: newRoot, length: v.length}, nil
}

// Push appends val to the end.
func (v Vector[E]) Push(val E) Vector[E] {
	if v.root == nil {
		return Vector[E]{root: newLeaf([]E{val}), length: 1}
	}
	newRoot, overflow := pushNode(v.root, val)
	if overflow != nil {
		children := []*node[E]{newRoot, overflow}
		if newRoot.relaxed() {
			// a relaxed root may hold fewer than B^(height+1) elements,
			// so the new root needs a size table to index past it.
			newRoot = newRelaxedBranch(newRoot.height+1, children)
		} else {
			newRoot = newBranch(newRoot.height+1, children)
		}
	}
	return Vector[E]{root: newRoot, length: v.length + 1}
}

// PushFront prepends val.
func (v Vector[E]) PushFront(val E) Vector[E] {
	if v.root == nil {
		return Vector[E]{root: newLeaf([]E{val}), length: 1}
	}
	newRoot, overflow := prependNode(v.root, val)
	if overflow != nil {
		newRoot = &node[E]{
			height:   newRoot.height + 1,
			count:    newRoot.count + overflow.count,
			children: []*node[E]{overflow, newRoot},
			sizes:    []int{overflow.count, overflow.count + newRoot.count},
		}
	}
	return Vector[E]{root: newRoot, length: v.length + 1}
}

// Pop removes and returns the last element. It fails with
// ErrEmptyCollection if v is empty.
func (v Vector[E]) Pop() (Vector[E], E, error) {
	var zero E
	if v.length == 0 {
		return v, zero, collections.ErrEmptyCollection
	}
	last := getNode(v.root, v.length-1)
	newRoot := removeAtNode(v.root, v.length-1)
	return Vector[E]{root: collapseRoot(newRoot), length: v.length - 1}, last, nil
}

// PopFront removes and returns the first element. It fails with
// ErrEmptyCollection if v is empty.
func (v Vector[E]) PopFront() (Vector[E], E, error) {
	var zero E
	if v.length == 0 {
		return v, zero, collections.ErrEmptyCollection
	}
	first := getNode(v.root, 0)
	newRoot := removeAtNode(v.root, 0)
	return Vector[E]{root: collapseRoot(newRoot), length: v.length - 1}, first, nil
}

// InsertAt inserts val at position i, shifting later elements right.
// i must be in [0, Len].
func (v Vector[E]) InsertAt(i int, val E) (Vector[E], error) {
	if err := v.checkIndex(i, true); err != nil {
		return v, err
	}
	left := sliceTree(v.root, 0, i)
	right := sliceTree(v.root, i, v.length)
	mid := newLeaf([]E{val})
	newRoot := concatNodes(concatNodes(left, mid), right)
	return Vector[E]{root: newRoot, length: v.length + 1}, nil
}

// RemoveAt removes the element at i. i must be in [0, Len).
func (v Vector[E]) RemoveAt(i int) (Vector[E], error) {
	if err := v.checkIndex(i, false); err != nil {
		return v, err
	}
	left := sliceTree(v.root, 0, i)
	right := sliceTree(v.root, i+1, v.length)
	newRoot := concatNodes(left, right)
	return Vector[E]{root: newRoot, length: v.length - 1}, nil
}

// Slice returns the half-open range [lo, hi). 0 <= lo <= hi <= Len.
func (v Vector[E]) Slice(lo, hi int) (Vector[E], error) {
	if lo < 0 || hi > v.length || lo > hi {
		return v, fmt.Errorf("%w: [%d,%d) of length %d", collections.ErrInvalidRange, lo, hi, v.length)
	}
	if lo == hi {
		return Vector[E]{}, nil
	}
	return Vector[E]{root: sliceTree(v.root, lo, hi), length: hi - lo}, nil
}

// Concat returns v followed by other, order-preserving.
func (v Vector[E]) Concat(other Vector[E]) Vector[E] {
	return Vector[E]{root: concatNodes(v.root, other.root), length: v.length + other.length}
}

// Equal reports whether v and other have the same length and
// pairwise-equal elements in order.
func (v Vector[E]) Equal(other Vector[E]) bool {
	if v.length != other.length {
		return false
	}
	ai, bi := v.Iter(), other.Iter()
	for ai.Next() {
		bi.Next()
		if ai.Current() != bi.Current() {
			return false
		}
	}
	return true
}

// Hash returns an order-dependent hash: a rolling combine over the
// elements' hashes, each computed by the caller-supplied hashElem. The
// root lazily caches the result after first computation.
func (v *Vector[E]) Hash(hashElem func(E) uint64) uint64 {
	if v.hashed {
		return v.hash
	}
	h := uint64(14695981039346656037) // FNV-1a offset basis
	it := v.Iter()
	for it.Next() {
		h ^= hashElem(it.Current())
		h *= 1099511628211 // FNV-1a prime
	}
	v.hash = h
	v.hashed = true
	return h
}

// DebugCheck walks the tree and validates its structural invariants,
// panicking on the first violation. It is a no-op unless
// collections.DebugInvariants is set, since the walk is O(N) and
// meant for tests and diagnostics, never for a hot path.
func (v Vector[E]) DebugCheck() {
	if !collections.DebugInvariants {
		return
	}
	v.checkInvariants()
}

// checkInvariants walks a frozen tree and validates the §3.1
// invariants, panicking on the first violation. It is O(N) and
// intended for tests/diagnostics only; callers reach it through
// DebugCheck, which applies the collections.DebugInvariants gate.
func (v Vector[E]) checkInvariants() {
	if v.root == nil {
		if v.length != 0 {
			panic("vector: nil root with nonzero length")
		}
		return
	}
	count := checkNodeInvariants(v.root, true)
	if count != v.length {
		panic(fmt.Sprintf("vector: root count %d != length %d", count, v.length))
	}
}

func checkNodeInvariants[E comparable](n *node[E], isRoot bool) int {
	if n.isLeaf() {
		if len(n.items) == 0 || len(n.items) > bitops.B {
			panic("vector: leaf element count out of [1,B]")
		}
		if n.count != len(n.items) {
			panic("vector: leaf count mismatch")
		}
		return n.count
	}

	if len(n.children) == 0 || len(n.children) > bitops.B {
		panic("vector: branch child count out of [1,B]")
	}
	if isRoot && len(n.children) == 1 {
		panic("vector: root collapsed incorrectly, single child remains")
	}

	sum := 0
	for i, c := range n.children {
		if c.height != n.height-1 {
			panic("vector: child height mismatch")
		}
		sum += c.count
		if n.sizes != nil {
			want := sum
			if n.sizes[i] != want {
				panic("vector: size table cumulative mismatch")
			}
		} else if i < len(n.children)-1 && c.count != n.childCapacity() {
			panic("vector: strict branch has undersized non-last child")
		}
		checkNodeInvariants(c, false)
	}
	if sum != n.count {
		panic("vector: branch count != sum of children")
	}
	return n.count
}
