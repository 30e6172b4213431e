// Package hashmap implements PersistentMap[K,V]: an immutable
// associative container backed by a Compressed Hash-Array Mapped
// Prefix tree (CHAMP). Every operation returns a new Map; the
// original is left untouched. Bulk construction goes through Builder,
// which owns a mutation token and mutates nodes in place until Build
// freezes the result.
package hashmap

import "fmt"

// Map is an immutable key/value association. The zero value is not
// directly usable; use Empty.
type Map[K comparable, V comparable] struct {
	root   any // nil | *dataNode[K,V] | *collisionNode[K,V] | *bitmapNode[K,V]
	length int
	hasher Hasher[K]
}

// Empty returns the canonical empty map, using the default hasher.
func Empty[K comparable, V comparable]() Map[K, V] {
	return Map[K, V]{hasher: newDefaultHasher[K]()}
}

// EmptyWithHasher returns an empty map that hashes keys with hasher,
// for keys whose equality isn't well served by the default adapter.
func EmptyWithHasher[K comparable, V comparable](hasher Hasher[K]) Map[K, V] {
	return Map[K, V]{hasher: hasher}
}

// FromMap builds a Map from a Go map's current contents.
func FromMap[K comparable, V comparable](src map[K]V) Map[K, V] {
	return From[K, V](src)
}

// Len returns the number of entries, O(1).
func (m Map[K, V]) Len() int { return m.length }

// IsEmpty reports whether the map has no entries.
func (m Map[K, V]) IsEmpty() bool { return m.length == 0 }

func (m Map[K, V]) ensureHasher() Hasher[K] {
	if m.hasher != nil {
		return m.hasher
	}
	return newDefaultHasher[K]()
}

// Get returns the value for key, if present.
func (m Map[K, V]) Get(key K) (V, bool) {
	h := m.ensureHasher().Hash(key)
	return champGet[K, V](m.root, h, key)
}

// MustGet is Get, panicking with ErrKeyNotFound if absent.
func (m Map[K, V]) MustGet(key K) V {
	v, ok := m.Get(key)
	if !ok {
		panic(fmt.Errorf("%w: %v", ErrKeyNotFound, key))
	}
	return v
}

// ContainsKey reports whether key is present.
func (m Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Add returns a new map with key associated to value, replacing any
// existing association. If value equals the existing one, Add returns
// m itself.
func (m Map[K, V]) Add(key K, value V) Map[K, V] {
	hasher := m.ensureHasher()
	h := hasher.Hash(key)
	newRoot, grew := champAddOwned[K, V](m.root, h, key, value, 0, nil, nil)
	if newRoot == m.root && !grew {
		return m
	}
	length := m.length
	if grew {
		length++
	}
	return Map[K, V]{root: newRoot, length: length, hasher: hasher}
}

// AddAll returns a new map with every (key,value) in entries added,
// via a single transient build pass.
func (m Map[K, V]) AddAll(entries map[K]V) Map[K, V] {
	hasher := m.ensureHasher()
	b := &Builder[K, V]{owner: newOwner(), pool: newBitmapNodePool[K, V](), root: m.root, length: m.length, hasher: hasher}
	for k, v := range entries {
		b.Put(k, v)
	}
	return b.Build()
}

// Remove returns a new map without key. If key was absent, Remove
// returns m itself.
func (m Map[K, V]) Remove(key K) Map[K, V] {
	hasher := m.ensureHasher()
	h := hasher.Hash(key)
	newRoot, shrank := champRemoveOwned[K, V](m.root, h, key, 0, nil, nil)
	if !shrank {
		return m
	}
	return Map[K, V]{root: newRoot, length: m.length - 1, hasher: hasher}
}

// RemoveWhere returns a new map with every entry for which pred
// returns true removed, via a single transient pass.
func (m Map[K, V]) RemoveWhere(pred func(K, V) bool) Map[K, V] {
	hasher := m.ensureHasher()
	owner := newOwner()
	pool := newBitmapNodePool[K, V]()
	root := m.root
	length := m.length
	it := m.Iter()
	var toRemove []K
	for it.Next() {
		if pred(it.Key(), it.Val()) {
			toRemove = append(toRemove, it.Key())
		}
	}
	for _, k := range toRemove {
		h := hasher.Hash(k)
		newRoot, shrank := champRemoveOwned[K, V](root, h, k, 0, owner, pool)
		if shrank {
			root = newRoot
			length--
		}
	}
	freezeChampNode[K, V](root)
	return Map[K, V]{root: root, length: length, hasher: hasher}
}

// Update applies fn to the current value for key (with ok true) and
// stores the result. If key is absent, fn is not called: the value
// returned by ifAbsent is stored instead, and if ifAbsent is not
// supplied, Update leaves the map unchanged.
func (m Map[K, V]) Update(key K, fn func(old V, ok bool) V, ifAbsent ...func() V) Map[K, V] {
	old, ok := m.Get(key)
	if !ok && len(ifAbsent) == 0 {
		return m
	}
	var next V
	if ok {
		next = fn(old, true)
	} else {
		next = ifAbsent[0]()
	}
	return m.Add(key, next)
}

// PutIfAbsent inserts fn() under key only if key is not already
// present, returning the resulting map and the value now stored
// (existing or freshly computed).
func (m Map[K, V]) PutIfAbsent(key K, fn func() V) (Map[K, V], V) {
	if v, ok := m.Get(key); ok {
		return m, v
	}
	v := fn()
	return m.Add(key, v), v
}

// Equal reports whether m and other hold the same set of (key,value)
// pairs, independent of trie shape or internal ordering.
func (m Map[K, V]) Equal(other Map[K, V]) bool {
	if m.length != other.length {
		return false
	}
	it := m.Iter()
	for it.Next() {
		v, ok := other.Get(it.Key())
		if !ok || v != it.Val() {
			return false
		}
	}
	return true
}

// Hash returns an order-independent hash: the XOR of each entry's
// combined key/value hash, via hashElem over both, followed by a
// splitmix64-style avalanche so that maps differing only in the
// low-order bits of a single entry's hash don't collide in the
// low-order bits of the result. Order independence matches Equal's
// shape independence: XOR commutes, so any iteration order folds to
// the same value before avalanching, and equal maps always hash
// equal.
func (m Map[K, V]) Hash(hashElem func(K, V) uint64) uint64 {
	var h uint64
	it := m.Iter()
	for it.Next() {
		h ^= hashElem(it.Key(), it.Val())
	}
	return avalanche64(h)
}

// avalanche64 is the splitmix64 output mixer: it scrambles h so every
// output bit depends on every input bit, without affecting
// injectivity (it's a bijection on uint64).
func avalanche64(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// ToMap drains the map into a plain Go map, mainly for interop and
// test assertions.
func (m Map[K, V]) ToMap() map[K]V {
	out := make(map[K]V, m.length)
	it := m.Iter()
	for it.Next() {
		out[it.Key()] = it.Val()
	}
	return out
}
