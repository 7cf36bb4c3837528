package tracker

import (
	"fmt"

	"github.com/irregpack/stripsep/pk"
)

// InvariantError reports a violated tracker invariant (spec.md §8), as
// surfaced by CheckInvariants. It is the GeometryAssertionFailure error kind
// from spec.md §7; callers (the separator) count it in
// SolutionSnapshot.AssertionWarnings and re-synchronise the tracker rather
// than treating it as fatal, matching §9's guidance that
// symmetric-detection edge cases are a non-fatal warning in production.
type InvariantError struct {
	A, B      pk.PK
	Got, Want float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("tracker: invariant violated for pair (%s,%s): got %g, want %g", e.A, e.B, e.Got, e.Want)
}

func invariantErr(a, b pk.PK, got, want float64) error {
	return &InvariantError{A: a, B: b, Got: got, Want: want}
}
