// Package terminator implements the terminator (spec.md §4.7, component C7):
// a cooperative deadline/interrupt handle polled by value from every loop
// the optimiser runs, rather than a context.Context plumbed through every
// call. Grounded on the original Rust implementation's terminator.rs (see
// SPEC_FULL.md §12): a plain struct carrying an atomic deadline and an atomic
// interrupt flag, not a channel or goroutine, since the only operation
// needed is a cheap repeated check, not a notification.
package terminator

import (
	"sync/atomic"
	"time"
)

// Terminator is safe for concurrent use: Stopped is called from every worker
// in the separator's parallel evaluation pool, while Interrupt/SetDeadline
// are called from whatever owns the solve (the CLI's signal handler, or a
// test harness simulating one).
type Terminator struct {
	deadline  atomic.Int64 // UnixNano; 0 means "no deadline"
	interrupt atomic.Bool
}

// New returns a Terminator with no deadline and no pending interrupt.
func New() *Terminator {
	return &Terminator{}
}

// WithDeadline returns a Terminator that also stops at t.
func WithDeadline(t time.Time) *Terminator {
	term := New()
	term.SetDeadline(t)
	return term
}

// SetDeadline updates the wall-clock deadline. A zero Time clears it.
func (t *Terminator) SetDeadline(at time.Time) {
	if at.IsZero() {
		t.deadline.Store(0)
		return
	}
	t.deadline.Store(at.UnixNano())
}

// Interrupt requests immediate termination regardless of deadline; e.g. a
// CLI wiring SIGINT to this.
func (t *Terminator) Interrupt() {
	t.interrupt.Store(true)
}

// Reset clears both the deadline and any pending interrupt, so a Terminator
// can be reused across independent solve attempts (spec.md §4.7: "reusable
// across runs").
func (t *Terminator) Reset() {
	t.deadline.Store(0)
	t.interrupt.Store(false)
}

// Stopped reports whether the optimiser should halt now: either Interrupt
// was called, or the deadline (if any) has passed. It is polled by the
// optimiser driver's phase loops, by the separator's outer loop, and before
// each item of a separator relocation pass; the sampler and its coordinate
// descent do not poll it, so one item's sampling runs to completion.
func (t *Terminator) Stopped() bool {
	if t.interrupt.Load() {
		return true
	}
	d := t.deadline.Load()
	if d == 0 {
		return false
	}
	return time.Now().UnixNano() >= d
}

// Remaining returns the time left until the deadline, or a large positive
// duration if none is set. Never negative; callers checking "did we already
// run out" should use Stopped instead.
func (t *Terminator) Remaining() time.Duration {
	d := t.deadline.Load()
	if d == 0 {
		return time.Duration(1<<63 - 1)
	}
	rem := time.Unix(0, d).Sub(time.Now())
	if rem < 0 {
		return 0
	}
	return rem
}
