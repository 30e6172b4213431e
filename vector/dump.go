package vector

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// DumpString renders the tree structure as text, for tests and
// interactive debugging: each line is prefixed with one "." per level
// of depth. Each leaf line continues with "items=" and spew.Sdump's
// multi-line rendering of the leaf's elements, elided as "..." below.
//
//	[BRANCH] height=2 count=40 relaxed
//	.[BRANCH] height=1 count=32
//	..[LEAF] count=32 items=...
//	.[BRANCH] height=1 count=8 relaxed
//	..[LEAF] count=8 items=...
func (v Vector[E]) DumpString() string {
	w := new(strings.Builder)
	dumpNode(w, v.root, 0)
	return w.String()
}

// Dump writes the same rendering as DumpString to w.
func (v Vector[E]) Dump(w io.Writer) error {
	_, err := io.WriteString(w, v.DumpString())
	return err
}

func dumpNode[E comparable](w io.Writer, n *node[E], depth int) {
	prefix := strings.Repeat(".", depth)
	if n == nil {
		fmt.Fprintf(w, "%s[EMPTY]\n", prefix)
		return
	}
	if n.isLeaf() {
		fmt.Fprintf(w, "%s[LEAF] count=%d items=%s\n", prefix, n.count, spew.Sdump(n.items))
		return
	}
	tag := ""
	if n.relaxed() {
		tag = " relaxed"
	}
	fmt.Fprintf(w, "%s[BRANCH] height=%d count=%d%s\n", prefix, n.height, n.count, tag)
	for _, c := range n.children {
		dumpNode(w, c, depth+1)
	}
}
