// Package bitops is the primitive index-math kernel shared by the RRB
// vector engine and the CHAMP map engine: branching-factor constants,
// bit-fragment extraction, popcount-based rank, and the ownership
// token used by both engines' transient (in-place mutation) paths.
//
// Single-word bit tricks on a fixed 32-bit domain are too fine-grained
// to reach for a general multi-word bitset library, so this package is
// plain math/bits.
package bitops

import "math/bits"

const (
	// Bits is the number of bits consumed per trie level.
	Bits = 5

	// B is the branching factor: 1<<Bits.
	B = 32

	// Mask selects the low Bits bits of a fragment.
	Mask = B - 1

	// MaxDepth is the deepest a CHAMP trie can go before all remaining
	// hash bits are exhausted and colliding keys must share a
	// Collision node: ceil(32/Bits).
	MaxDepth = 7
)

// Frag extracts the Bits-wide fragment of hash at the given shift.
func Frag(hash uint32, shift uint) uint {
	return uint((hash >> shift) & Mask)
}

// Bit returns the single-bit mask for slot i within a 32-slot bitmap.
func Bit(i uint) uint32 {
	return 1 << i
}

// Popcount32 returns the population count (number of set bits) of x.
func Popcount32(x uint32) int {
	return bits.OnesCount32(x)
}

// DataIndex returns the position of slot frag's data pair within a
// CHAMP bitmap node's data half, i.e. the number of data slots below
// frag.
func DataIndex(frag uint, dataMap uint32) int {
	return bits.OnesCount32(dataMap & (Bit(frag) - 1))
}

// NodeIndex returns the position of slot frag's child, counted from
// the start of the node half (children are stored in reverse slot
// order from the end of the content array; callers combine this with
// the node half's length to get the actual array index).
func NodeIndex(frag uint, nodeMap uint32) int {
	return bits.OnesCount32(nodeMap & (Bit(frag) - 1))
}

// Token is an opaque ownership marker. A node carries a *Token; a live
// token held by the node's owner authorizes in-place mutation of that
// node's content. A frozen node's token is nil. Equality is by pointer
// identity: New allocates a fresh one per bulk operation, and no two
// concurrent operations ever observe the same Token.
type Token struct{ _ byte }

// New allocates a fresh ownership token for one bulk (transient)
// operation.
func New() *Token {
	return new(Token)
}
