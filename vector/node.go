package vector

import "github.com/go-persistent/collections/internal/bitops"

// node is both the RRB leaf and branch variant, distinguished by
// height: height 0 is a leaf holding up to B elements directly;
// height >= 1 is a branch holding up to B children one level below.
//
// A branch is strict when sizes is nil: every non-last child holds
// exactly B^height elements, so indexing is pure radix arithmetic. A
// branch is relaxed when sizes is non-nil: sizes[k] is the cumulative
// element count of children[0..k], enabling indexing despite
// irregular child sizes produced by concat/insert/remove.
type node[E comparable] struct {
	height int
	count  int
	owner  *bitops.Token

	items    []E       // leaf only
	children []*node[E] // branch only
	sizes    []int      // branch only, nil when strict
}

func newLeaf[E comparable](items []E) *node[E] {
	return &node[E]{height: 0, count: len(items), items: items}
}

// newBranch builds a strict branch: sizes is omitted because every
// non-last child is assumed full (B^height elements). Callers that
// cannot guarantee this must use newRelaxedBranch instead.
func newBranch[E comparable](height int, children []*node[E]) *node[E] {
	count := 0
	for _, c := range children {
		count += c.count
	}
	return &node[E]{height: height, count: count, children: children}
}

// newRelaxedBranch builds a branch carrying an explicit cumulative
// size table, used whenever a non-last child might be undersized.
func newRelaxedBranch[E comparable](height int, children []*node[E]) *node[E] {
	sizes := make([]int, len(children))
	sum := 0
	for i, c := range children {
		sum += c.count
		sizes[i] = sum
	}
	return &node[E]{height: height, count: sum, children: children, sizes: sizes}
}

func (n *node[E]) isLeaf() bool { return n.height == 0 }

// shift is the bit offset at which this branch extracts its child
// selector fragment: a child at this height holds B^height elements
// when full, so i>>shift selects among B such chunks.
func (n *node[E]) shift() uint { return uint(n.height) * bitops.Bits }

// relaxed reports whether n carries a size table.
func (n *node[E]) relaxed() bool { return n.sizes != nil }

// locate finds, for index i, the child slot to descend into and the
// index to continue with in that child.
func (n *node[E]) locate(i int) (slot int, childIndex int) {
	shift := n.shift()
	slot = int(bitops.Frag(uint32(i), shift))

	if n.sizes == nil {
		childCap := 1 << shift
		low := slot * childCap
		return slot, i - low
	}

	// relaxed: the radix guess can be off by a small amount because
	// earlier children may be undersized; walk forward until the
	// cumulative size table catches up.
	for n.sizes[slot] <= i {
		slot++
	}
	low := 0
	if slot > 0 {
		low = n.sizes[slot-1]
	}
	return slot, i - low
}

// isFull reports whether n already holds B children (branch) or B
// elements (leaf), i.e. has no room for one more.
func (n *node[E]) isFull() bool {
	if n.isLeaf() {
		return len(n.items) == bitops.B
	}
	return len(n.children) == bitops.B
}

// childCapacity is the element count of a full (strict) child one
// level below n.
func (n *node[E]) childCapacity() int {
	return 1 << n.shift()
}

// clone returns a shallow copy of n with fresh backing slices, unowned
// (owner nil), safe to hand out as an independent immutable node.
func (n *node[E]) clone() *node[E] {
	c := &node[E]{height: n.height, count: n.count}
	if n.items != nil {
		c.items = append([]E(nil), n.items...)
	}
	if n.children != nil {
		c.children = append([]*node[E](nil), n.children...)
	}
	if n.sizes != nil {
		c.sizes = append([]int(nil), n.sizes...)
	}
	return c
}

// lastChild / firstChild are convenience accessors used throughout the
// append/prepend/concat machinery.
func (n *node[E]) lastChild() *node[E]  { return n.children[len(n.children)-1] }
func (n *node[E]) firstChild() *node[E] { return n.children[0] }

// reset clears n's fields so a pool can safely hand it out again. The
// slices are dropped entirely (not just truncated) rather than kept
// for their capacity: several node constructors hand out a slice that
// aliases a node's original backing array (structural sharing between
// old and new trees), so truncating in place here could let a later
// reuse of that capacity silently corrupt a still-live, supposedly
// immutable node elsewhere.
func (n *node[E]) reset() {
	n.height = 0
	n.count = 0
	n.owner = nil
	n.items = nil
	n.children = nil
	n.sizes = nil
}
