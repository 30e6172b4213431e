package collections

import "errors"

// Sentinel errors returned by both PersistentVector and PersistentMap
// operations. Callers compare with errors.Is; operations that can
// attach context (the offending index, the requested range) wrap the
// sentinel with fmt.Errorf("...: %w", ...).
var (
	// ErrIndexOutOfBounds is returned by any indexed access outside
	// [0, len), or outside [0, len] for an insertion.
	ErrIndexOutOfBounds = errors.New("collections: index out of bounds")

	// ErrEmptyCollection is returned by Pop/PopFront on an empty vector.
	ErrEmptyCollection = errors.New("collections: collection is empty")

	// ErrInvalidRange is returned by Slice when lo > hi or either bound
	// falls outside [0, len].
	ErrInvalidRange = errors.New("collections: invalid range")

	// ErrIteratorExhausted is returned by an iterator's value accessors
	// once the cursor has advanced past the last element.
	ErrIteratorExhausted = errors.New("collections: iterator exhausted")
)

// DebugInvariants gates the O(N) structural-invariant walk each engine
// exposes as checkInvariants. Off by default: the walk is for tests and
// diagnostics, never required for a correct build. A violated
// invariant is a programmer error, not a recoverable condition, so the
// walk panics rather than returning an error.
var DebugInvariants = false
