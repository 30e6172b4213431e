// Package collections holds the pieces shared by the two persistent
// containers in this module, [github.com/go-persistent/collections/vector]
// and [github.com/go-persistent/collections/hashmap]: the error kinds
// both containers raise and the debug-invariant toggle both container
// engines consult.
//
// The containers themselves live in their own sub-packages because each
// wraps a distinct tree engine (a Relaxed Radix-Balanced Tree for the
// vector, a Compressed Hash-Array Mapped Prefix Tree for the map) with
// little in common beyond error reporting and the ownership-token
// mutation protocol, which is small enough to duplicate per engine
// rather than force through a shared abstraction.
package collections
