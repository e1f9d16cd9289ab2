package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is an append-only store addressed by a typed uint32 handle. Entries
// never move or disappear, so a handle stays valid for the arena's lifetime.
type Arena[H ~uint32, T any] struct {
	items []T
}

// Insert appends v and returns its handle.
func (a *Arena[H, T]) Insert(v T) H {
	n, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("ir: arena overflow: %w", err))
	}
	a.items = append(a.items, v)
	return H(n)
}

// Get returns a mutable reference to the entry at h. Passing a handle this
// arena never issued is a compiler bug and panics.
func (a *Arena[H, T]) Get(h H) *T {
	if int(h) >= len(a.items) {
		panic(fmt.Sprintf("ir: arena handle %d out of range (len %d)", h, len(a.items)))
	}
	return &a.items[h]
}

// Contains reports whether h was issued by this arena.
func (a *Arena[H, T]) Contains(h H) bool {
	return int(h) < len(a.items)
}

// Len returns the number of stored entries.
func (a *Arena[H, T]) Len() int {
	return len(a.items)
}
