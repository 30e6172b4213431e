package hashmap

import "errors"

// ErrKeyNotFound is the panic payload for MustGet on an absent key.
var ErrKeyNotFound = errors.New("hashmap: key not found")
