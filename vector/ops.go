package vector

import "github.com/go-persistent/collections/internal/bitops"

// getNode returns the element at index i of the subtree rooted at n.
// Callers must have already range-checked i against the facade's
// length; n is never nil here.
func getNode[E comparable](n *node[E], i int) E {
	for !n.isLeaf() {
		slot, childIndex := n.locate(i)
		n = n.children[slot]
		i = childIndex
	}
	return n.items[i]
}

// updateNode path-copies the spine to index i, writing v. If the
// existing element already equals v, every node on the spine is
// returned unchanged (same pointer), giving the structural-sharing
// guarantee: update with an identical value returns the same root
// identity.
func updateNode[E comparable](n *node[E], i int, v E) *node[E] {
	if n.isLeaf() {
		if n.items[i] == v {
			return n
		}
		items := append([]E(nil), n.items...)
		items[i] = v
		return newLeaf(items)
	}

	slot, childIndex := n.locate(i)
	newChild := updateNode(n.children[slot], childIndex, v)
	if newChild == n.children[slot] {
		return n
	}
	children := append([]*node[E](nil), n.children...)
	children[slot] = newChild
	c := &node[E]{height: n.height, count: n.count, children: children, sizes: n.sizes}
	return c
}

// pushNode appends v to the rightmost spine of n. It returns the
// (possibly unchanged) node and, when n had no room left anywhere on
// that spine, an overflow sibling of the same height holding just v
// (descended to the appropriate depth) for the caller to graft on as
// a new child.
func pushNode[E comparable](n *node[E], v E) (updated *node[E], overflow *node[E]) {
	if n.isLeaf() {
		if len(n.items) < bitops.B {
			return newLeaf(append(append([]E(nil), n.items...), v)), nil
		}
		return n, newLeaf([]E{v})
	}

	newLast, carry := pushNode(n.lastChild(), v)
	children := append([]*node[E](nil), n.children...)
	children[len(children)-1] = newLast

	if carry == nil {
		if n.relaxed() {
			return newRelaxedBranch(n.height, children), nil
		}
		return newBranch(n.height, children), nil
	}

	if len(children) < bitops.B {
		children = append(children, carry)
		if n.relaxed() {
			return newRelaxedBranch(n.height, children), nil
		}
		return newBranch(n.height, children), nil
	}

	// n itself is full: the carried overflow becomes a new sibling
	// branch at this height for the parent to graft on.
	return n, &node[E]{height: n.height, count: carry.count, children: []*node[E]{carry}, sizes: []int{carry.count}}
}

// prependNode mirrors pushNode on the leftmost spine. Every touched
// branch comes back relaxed: prepending always leaves the first child
// undersized relative to the strict invariant.
func prependNode[E comparable](n *node[E], v E) (updated *node[E], overflow *node[E]) {
	if n.isLeaf() {
		if len(n.items) < bitops.B {
			items := make([]E, 0, len(n.items)+1)
			items = append(items, v)
			items = append(items, n.items...)
			return newLeaf(items), nil
		}
		return n, newLeaf([]E{v})
	}

	newFirst, carry := prependNode(n.firstChild(), v)
	children := append([]*node[E](nil), n.children...)
	children[0] = newFirst

	if carry == nil {
		return newRelaxedBranch(n.height, children), nil
	}

	if len(children) < bitops.B {
		grown := make([]*node[E], 0, len(children)+1)
		grown = append(grown, carry)
		grown = append(grown, children...)
		return newRelaxedBranch(n.height, grown), nil
	}

	return n, &node[E]{height: n.height, count: carry.count, children: []*node[E]{carry}, sizes: []int{carry.count}}
}

// wrapSingle wraps n in a new single-child branch one level taller.
func wrapSingle[E comparable](n *node[E]) *node[E] {
	return &node[E]{height: n.height + 1, count: n.count, children: []*node[E]{n}, sizes: []int{n.count}}
}

// collapseRoot strips single-child branches from the top, per the
// invariant that a root never has exactly one child except when that
// child is itself the effective tree.
func collapseRoot[E comparable](n *node[E]) *node[E] {
	for n != nil && n.height > 0 && len(n.children) == 1 {
		n = n.children[0]
	}
	return n
}

// coalesceLeaves repacks a flat run of elements into as few leaves as
// possible, each holding exactly B elements except possibly the last.
func coalesceLeaves[E comparable](items []E) []*node[E] {
	if len(items) == 0 {
		return nil
	}
	out := make([]*node[E], 0, (len(items)+bitops.B-1)/bitops.B)
	for len(items) > 0 {
		n := len(items)
		if n > bitops.B {
			n = bitops.B
		}
		out = append(out, newLeaf(append([]E(nil), items[:n]...)))
		items = items[n:]
	}
	return out
}

// coalesceBranches repacks a flat run of same-height children into as
// few branches as possible, each holding exactly B children except
// possibly the last. This is the rebalance plan referenced by concat:
// it bounds the number of produced nodes by ceil(total/B), trading a
// little extra copying at the merge boundary for a simple, obviously
// correct policy instead of only touching runs that are undersized.
func coalesceBranches[E comparable](height int, children []*node[E]) []*node[E] {
	if len(children) == 0 {
		return nil
	}
	out := make([]*node[E], 0, (len(children)+bitops.B-1)/bitops.B)
	for len(children) > 0 {
		n := len(children)
		if n > bitops.B {
			n = bitops.B
		}
		group := append([]*node[E](nil), children[:n]...)
		out = append(out, newRelaxedBranch(height, group))
		children = children[n:]
	}
	return out
}

// mergeAtHeight merges two same-height subtrees' boundary and returns
// at most two new same-height nodes for the caller (either the concat
// top level or the parent one level up) to graft in place of the two
// originals.
func mergeAtHeight[E comparable](left, right *node[E]) []*node[E] {
	if left.isLeaf() {
		combined := append(append([]E(nil), left.items...), right.items...)
		return coalesceLeaves(combined)
	}

	boundary := mergeAtHeight(left.lastChild(), right.firstChild())

	combined := make([]*node[E], 0, len(left.children)+len(right.children))
	combined = append(combined, left.children[:len(left.children)-1]...)
	combined = append(combined, boundary...)
	combined = append(combined, right.children[1:]...)

	return coalesceBranches(left.height, combined)
}

// concatNodes concatenates left and right, preserving order.
func concatNodes[E comparable](left, right *node[E]) *node[E] {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}

	for left.height < right.height {
		left = wrapSingle(left)
	}
	for right.height < left.height {
		right = wrapSingle(right)
	}

	tops := mergeAtHeight(left, right)

	var root *node[E]
	switch len(tops) {
	case 1:
		root = tops[0]
	default:
		root = &node[E]{height: left.height + 1, count: tops[0].count + tops[1].count, children: tops, sizes: []int{tops[0].count, tops[0].count + tops[1].count}}
	}
	return collapseRoot(root)
}

// sliceTree returns the subtree covering [lo, hi) of n's logical
// index range. The caller guarantees 0 <= lo <= hi <= n.count; lo ==
// hi yields nil, the empty tree.
func sliceTree[E comparable](n *node[E], lo, hi int) *node[E] {
	if n == nil || lo == hi {
		return nil
	}
	if lo == 0 && hi == n.count {
		return n
	}

	if n.isLeaf() {
		return newLeaf(append([]E(nil), n.items[lo:hi]...))
	}

	var newChildren []*node[E]
	start := 0
	for idx, child := range n.children {
		end := start + child.count
		if n.sizes != nil {
			end = n.sizes[idx]
		}
		// overlap of [start,end) with [lo,hi)
		if end > lo && start < hi {
			childLo := lo - start
			if childLo < 0 {
				childLo = 0
			}
			childHi := hi - start
			if childHi > child.count {
				childHi = child.count
			}
			sub := sliceTree(child, childLo, childHi)
			// sliceTree collapses single-child results; restore the
			// height so every child stays one level below n.
			for sub.height < child.height {
				sub = wrapSingle(sub)
			}
			newChildren = append(newChildren, sub)
		}
		start = end
	}

	return collapseRoot(newRelaxedBranch(n.height, newChildren))
}

// removeAtNode path-copies the spine to index i, dropping that
// element. If a child becomes empty its slot is dropped and the size
// table below is recomputed; if the root is left with a single child,
// the caller (Pop/PopFront) strips it via collapseRoot.
func removeAtNode[E comparable](n *node[E], i int) *node[E] {
	if n.isLeaf() {
		items := make([]E, 0, len(n.items)-1)
		items = append(items, n.items[:i]...)
		items = append(items, n.items[i+1:]...)
		if len(items) == 0 {
			return nil
		}
		return newLeaf(items)
	}

	slot, childIndex := n.locate(i)
	newChild := removeAtNode(n.children[slot], childIndex)

	children := make([]*node[E], 0, len(n.children))
	children = append(children, n.children[:slot]...)
	if newChild != nil {
		children = append(children, newChild)
	}
	children = append(children, n.children[slot+1:]...)

	if len(children) == 0 {
		return nil
	}
	return newRelaxedBranch(n.height, children)
}
