// Package pk defines PK, the opaque, generation-safe handle a Layout uses to
// identify a placed item. Neither the layout nor the tracker ever hold a
// pointer into the other; every cross-reference goes through a PK.
package pk

import "fmt"

// PK identifies a placed item within a single Layout. The low 32 bits are a
// dense slot index (suitable for O(1) array/matrix access); the high 32 bits
// are a generation counter that is bumped whenever a slot is recycled after
// removal, so a stale PK held by a caller can never silently alias a newer
// item occupying the same slot.
type PK uint64

// Nil is the zero value; no valid placed item ever carries it.
const Nil PK = 0

// New packs a slot index and generation into a PK. Generation 0 is reserved
// for Nil, so the first real generation for any slot is 1.
func New(index, generation uint32) PK {
	return PK(uint64(generation)<<32 | uint64(index))
}

// Index returns the dense slot index, suitable as a row/column into the
// tracker's triangular matrices.
func (k PK) Index() uint32 { return uint32(k) }

// Generation returns the slot's generation counter.
func (k PK) Generation() uint32 { return uint32(k >> 32) }

// Valid reports whether k is anything other than Nil.
func (k PK) Valid() bool { return k != Nil }

func (k PK) String() string {
	return fmt.Sprintf("pk(%d#%d)", k.Index(), k.Generation())
}

// Less gives a total order over PKs, used for deterministic tie-breaking
// (e.g. proposal application order in the separator's worker pool).
func Less(a, b PK) bool { return a < b }
