package hashmap

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// DumpString renders the trie structure as text, depth-indented in
// the same "." per level style as the vector package's dumper.
func (m Map[K, V]) DumpString() string {
	w := new(strings.Builder)
	dumpChampNode[K, V](w, m.root, 0)
	return w.String()
}

// Dump writes the same rendering as DumpString to w.
func (m Map[K, V]) Dump(w io.Writer) error {
	_, err := io.WriteString(w, m.DumpString())
	return err
}

func dumpChampNode[K comparable, V comparable](w io.Writer, n any, depth int) {
	prefix := strings.Repeat(".", depth)
	switch t := n.(type) {
	case nil:
		fmt.Fprintf(w, "%s[EMPTY]\n", prefix)
	case *dataNode[K, V]:
		fmt.Fprintf(w, "%s[DATA] key=%s val=%s\n", prefix, spew.Sdump(t.key), spew.Sdump(t.val))
	case *collisionNode[K, V]:
		fmt.Fprintf(w, "%s[COLLISION] hash=%x entries=%d\n", prefix, t.hash, len(t.entries))
		for _, e := range t.entries {
			fmt.Fprintf(w, "%s.key=%s val=%s\n", prefix, spew.Sdump(e.key), spew.Sdump(e.val))
		}
	case *bitmapNode[K, V]:
		mode := "sparse"
		if t.isArray() {
			mode = "array"
		}
		fmt.Fprintf(w, "%s[BITMAP] data=%d children=%d mode=%s\n", prefix, t.dataCount(), t.childCount(), mode)
		for i := range t.keys {
			fmt.Fprintf(w, "%s.key=%s val=%s\n", prefix, spew.Sdump(t.keys[i]), spew.Sdump(t.vals[i]))
		}
		for _, c := range t.kids {
			dumpChampNode[K, V](w, c, depth+1)
		}
	}
}
