package hashmap

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/go-persistent/collections"
	"github.com/go-persistent/collections/internal/bitops"
)

// DebugCheck walks the trie and validates its structural invariants,
// panicking on the first violation. It is a no-op unless
// collections.DebugInvariants is set, since the walk is O(N) and
// meant for tests and diagnostics, never for a hot path.
func (m Map[K, V]) DebugCheck() {
	if !collections.DebugInvariants {
		return
	}
	m.checkInvariants()
}

// checkInvariants walks a frozen trie and validates the CHAMP
// structural invariants, panicking on the first violation. It is
// O(N) and intended for tests/diagnostics only; callers reach it
// through DebugCheck, which applies the collections.DebugInvariants
// gate.
func (m Map[K, V]) checkInvariants() {
	count := checkChampNode[K, V](m.root, true)
	if count != m.length {
		panic(fmt.Sprintf("hashmap: root entry count %d != length %d", count, m.length))
	}
}

func checkChampNode[K comparable, V comparable](n any, isRoot bool) int {
	switch t := n.(type) {
	case nil:
		return 0

	case *dataNode[K, V]:
		return 1

	case *collisionNode[K, V]:
		if len(t.entries) < 2 {
			panic("hashmap: collision node with fewer than 2 entries")
		}
		return len(t.entries)

	case *bitmapNode[K, V]:
		if t.dataMap&t.nodeMap != 0 {
			panic("hashmap: dataMap and nodeMap overlap")
		}
		if t.dataCount() != len(t.keys) || t.dataCount() != len(t.vals) || t.dataCount() != len(t.hashes) {
			panic("hashmap: data slot slices length mismatch with dataMap popcount")
		}
		if t.childCount() != len(t.kids) {
			panic("hashmap: kids length mismatch with nodeMap popcount")
		}

		// cross-validate the bitmap popcounts against an independent
		// bitset.BitSet walk of the occupied slot numbers.
		occupied := bitset.New(bitops.B)
		for frag := uint(0); frag < bitops.B; frag++ {
			bit := bitops.Bit(frag)
			if t.dataMap&bit != 0 || t.nodeMap&bit != 0 {
				occupied.Set(frag)
			}
		}
		if int(occupied.Count()) != t.dataCount()+t.childCount() {
			panic("hashmap: occupied slot count disagrees with popcount sum")
		}

		total := t.dataCount()
		for _, c := range t.kids {
			if _, ok := c.(*dataNode[K, V]); ok {
				panic("hashmap: node-mapped slot holds an un-promoted single data node")
			}
			total += checkChampNode[K, V](c, false)
		}

		// A node reachable from a single parent slot must itself
		// resolve to at least two entries; a one-entry subtree should
		// already have been collapsed into an inline dataNode.
		if !isRoot && total < 2 {
			panic("hashmap: non-root bitmap node resolves to fewer than 2 entries")
		}
		return total

	default:
		panic("hashmap: unrecognized node kind")
	}
}
