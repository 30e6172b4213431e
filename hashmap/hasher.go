package hashmap

import "github.com/dolthub/maphash"

// Hasher produces a stable 32-bit hash for a key. CHAMP only needs the
// low bits at each level, but the full hash is kept and reused at
// every level (stored on dataNode and inline in bitmapNode's data
// half) so a later split never has to rehash.
type Hasher[K comparable] interface {
	Hash(key K) uint32
}

// defaultHasher adapts maphash.Hasher[K], a generic, seed-randomized
// hasher over comparable types, down to the 32 bits CHAMP consumes.
// Each newDefaultHasher call draws its own random seed, so hashes are
// stable for one Map and every Map derived from it (they carry the
// same hasher), but differ between independently created maps and
// across processes.
type defaultHasher[K comparable] struct {
	h maphash.Hasher[K]
}

func newDefaultHasher[K comparable]() defaultHasher[K] {
	return defaultHasher[K]{h: maphash.NewHasher[K]()}
}

func (d defaultHasher[K]) Hash(key K) uint32 {
	full := d.h.Hash(key)
	return uint32(full) ^ uint32(full>>32)
}
