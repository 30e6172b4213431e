package hashmap

import (
	"fmt"
	"testing"

	"github.com/go-persistent/collections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGetRemove(t *testing.T) {
	m := Empty[string, int]()
	m2 := m.Add("a", 1).Add("b", 2).Add("c", 3)
	require.Equal(t, 3, m2.Len())

	v, ok := m2.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// original untouched
	assert.Equal(t, 0, m.Len())
	_, ok = m.Get("a")
	assert.False(t, ok)

	m3 := m2.Remove("b")
	assert.Equal(t, 2, m3.Len())
	_, ok = m3.Get("b")
	assert.False(t, ok)
	// m2 untouched by the remove
	_, ok = m2.Get("b")
	assert.True(t, ok)
}

func TestBulkBuildAndIterate(t *testing.T) {
	src := make(map[int]string, 5000)
	for i := 0; i < 5000; i++ {
		src[i] = fmt.Sprintf("v%d", i)
	}
	m := FromMap(src)
	m.checkInvariants()
	require.Equal(t, len(src), m.Len())

	got := m.ToMap()
	assert.Equal(t, src, got)
}

func TestRemoveWhereAndAddAll(t *testing.T) {
	src := make(map[int]int, 2000)
	for i := 0; i < 2000; i++ {
		src[i] = i * i
	}
	m := FromMap(src)

	evens := m.RemoveWhere(func(k, v int) bool { return k%2 == 1 })
	evens.checkInvariants()
	assert.Equal(t, 1000, evens.Len())
	for k := range src {
		_, ok := evens.Get(k)
		if k%2 == 0 {
			assert.True(t, ok)
		} else {
			assert.False(t, ok)
		}
	}

	extra := map[int]int{2000: 1, 2001: 2, 2002: 3}
	grown := m.AddAll(extra)
	grown.checkInvariants()
	assert.Equal(t, m.Len()+3, grown.Len())
}

func TestUpdateAndPutIfAbsent(t *testing.T) {
	m := Empty[string, int]()

	same := m.Update("missing", func(old int, ok bool) int { return old + 1 })
	assert.Equal(t, 0, same.Len(), "update on an absent key with no ifAbsent is a no-op")

	withDefault := m.Update("x", func(old int, ok bool) int { return old + 1 }, func() int { return 10 })
	v, ok := withDefault.Get("x")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	incremented := withDefault.Update("x", func(old int, ok bool) int { return old + 1 })
	v, _ = incremented.Get("x")
	assert.Equal(t, 11, v)

	m2, v2 := m.PutIfAbsent("y", func() int { return 7 })
	assert.Equal(t, 7, v2)
	v3, _ := m2.Get("y")
	assert.Equal(t, 7, v3)

	m3, v4 := m2.PutIfAbsent("y", func() int { return 999 })
	assert.Equal(t, 7, v4, "putIfAbsent must not overwrite an existing entry")
	assert.True(t, m3.Equal(m2))
}

func TestEqualIsOrderIndependent(t *testing.T) {
	a := Empty[int, string]().Add(1, "a").Add(2, "b").Add(3, "c")
	b := Empty[int, string]().Add(3, "c").Add(1, "a").Add(2, "b")
	assert.True(t, a.Equal(b))

	c := a.Add(4, "d")
	assert.False(t, a.Equal(c))
}

// constHasher forces every key into the same bucket so that adds
// exercise the collision-node path at the trie's full depth.
type constHasher[K comparable] struct{}

func (constHasher[K]) Hash(K) uint32 { return 0xABCDEF }

func TestHashCollisionsForceCollisionNode(t *testing.T) {
	m := EmptyWithHasher[int, string](constHasher[int]{})
	for i := 0; i < 20; i++ {
		m = m.Add(i, fmt.Sprintf("v%d", i))
	}
	m.checkInvariants()
	require.Equal(t, 20, m.Len())

	for i := 0; i < 20; i++ {
		v, ok := m.Get(i)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("v%d", i), v)
	}

	removed := m.Remove(5)
	removed.checkInvariants()
	assert.Equal(t, 19, removed.Len())
	_, ok := removed.Get(5)
	assert.False(t, ok)
	v, ok := removed.Get(6)
	require.True(t, ok)
	assert.Equal(t, "v6", v)
}

func TestSingletonCollapseOnRemove(t *testing.T) {
	m := Empty[int, int]()
	for i := 0; i < 500; i++ {
		m = m.Add(i, i)
	}
	m.checkInvariants()

	for i := 0; i < 499; i++ {
		m = m.Remove(i)
	}
	m.checkInvariants()
	require.Equal(t, 1, m.Len())

	v, ok := m.Get(499)
	require.True(t, ok)
	assert.Equal(t, 499, v)
}

func TestBuilderPoolAllocates(t *testing.T) {
	b := NewBuilder[int, int]()
	for i := 0; i < 4000; i++ {
		b.Put(i, i)
	}
	live, total := b.PoolStats()
	assert.Greater(t, total, int64(0))
	assert.Greater(t, live, int64(0))

	m := b.Build()
	require.Equal(t, 4000, m.Len())
}

func TestRemoveWhereCollapsesHeavily(t *testing.T) {
	src := make(map[int]int, 4000)
	for i := 0; i < 4000; i++ {
		src[i] = i
	}
	m := FromMap(src)

	// Removing all but a handful of entries forces many bitmapNode
	// collapses in a single RemoveWhere transient pass, exercising the
	// collapseIfSingleton path that recycles exclusively-owned nodes
	// back into that pass's pool.
	thinned := m.RemoveWhere(func(k, v int) bool { return k%1000 != 0 })
	thinned.checkInvariants()
	assert.Equal(t, 4, thinned.Len())
	for _, want := range []int{0, 1000, 2000, 3000} {
		v, ok := thinned.Get(want)
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestDebugCheckRespectsFlag(t *testing.T) {
	m := Empty[int, int]().Add(1, 1).Add(2, 2).Add(3, 3)

	collections.DebugInvariants = false
	m.DebugCheck() // flag off: no-op regardless of trie shape

	collections.DebugInvariants = true
	defer func() { collections.DebugInvariants = false }()
	m.DebugCheck() // flag on: runs the walk, and a well-formed trie passes it
}

func TestLargeRandomRoundTrip(t *testing.T) {
	n := 3000
	src := make(map[int]int, n)
	for i := 0; i < n; i++ {
		src[i] = i * 7
	}
	m := FromMap(src)
	m.checkInvariants()

	for i := 0; i < n; i += 2 {
		m = m.Remove(i)
	}
	m.checkInvariants()
	require.Equal(t, n/2, m.Len())

	for i := 1; i < n; i += 2 {
		v, ok := m.Get(i)
		require.True(t, ok)
		assert.Equal(t, i*7, v)
	}
}
