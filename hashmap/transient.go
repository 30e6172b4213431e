package hashmap

import "github.com/go-persistent/collections/internal/bitops"

// Builder accumulates entries under a single ownership token and
// mutates freshly-created nodes in place, mirroring vector.Builder's
// transient protocol. Build freezes the result so no later mutation
// through the builder can leak into the returned Map.
//
// Each Builder owns a private bitmapNodePool, scoped to that one bulk
// operation, absorbing the clone traffic of repeated Put calls.
type Builder[K comparable, V comparable] struct {
	owner  *bitops.Token
	pool   *bitmapNodePool[K, V]
	root   any
	length int
	hasher Hasher[K]
	frozen bool
}

// NewBuilder returns an empty Builder using the default hasher.
func NewBuilder[K comparable, V comparable]() *Builder[K, V] {
	h := newDefaultHasher[K]()
	return &Builder[K, V]{owner: bitops.New(), pool: newBitmapNodePool[K, V](), hasher: h}
}

// PoolStats reports the private pool's live and total allocation
// counts, for diagnostics.
func (b *Builder[K, V]) PoolStats() (live, total int64) {
	return b.pool.Stats()
}

// newOwner allocates a fresh ownership token for a one-shot transient
// pass outside of Builder (AddAll, RemoveWhere).
func newOwner() *bitops.Token {
	return bitops.New()
}

// From seeds a Builder from an existing Go map, for bulk construction.
func From[K comparable, V comparable](src map[K]V) Map[K, V] {
	b := NewBuilder[K, V]()
	for k, v := range src {
		b.Put(k, v)
	}
	return b.Build()
}

// Put inserts or overwrites key with value. It panics if called after
// Build.
func (b *Builder[K, V]) Put(key K, value V) *Builder[K, V] {
	if b.frozen {
		panic("hashmap: Builder used after Build")
	}
	hash := b.hasher.Hash(key)
	newRoot, grew := champAddOwned[K, V](b.root, hash, key, value, 0, b.owner, b.pool)
	b.root = newRoot
	if grew {
		b.length++
	}
	return b
}

// Build freezes the builder's tree and returns the resulting Map. The
// builder must not be reused afterward.
func (b *Builder[K, V]) Build() Map[K, V] {
	b.frozen = true
	freezeChampNode[K, V](b.root)
	return Map[K, V]{root: b.root, length: b.length, hasher: b.hasher}
}

// freezeChampNode clears ownership tokens recursively, stopping as
// soon as it reaches a subtree that was never touched by this builder
// (an unowned node can't contain an owned descendant).
func freezeChampNode[K comparable, V comparable](n any) {
	t, ok := n.(*bitmapNode[K, V])
	if !ok || t.owner == nil {
		return
	}
	t.owner = nil
	for _, c := range t.kids {
		freezeChampNode[K, V](c)
	}
}
