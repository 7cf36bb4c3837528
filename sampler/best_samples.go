package sampler

import (
	"math"

	"github.com/irregpack/stripsep/evaluator"
	"github.com/irregpack/stripsep/geo"
)

// BestSamples is the bounded, sorted, duplicate-suppressing container for
// top-k evaluations described in spec.md §3/§4.8 (component C8). Grounded on
// the original Rust implementation's best_samples.rs (see SPEC_FULL.md §12):
// for the small capacities this repo ever uses (n_coord_descents, typically
// 3), a linear scan beats a heap's bookkeeping overhead.
type BestSamples struct {
	capacity    int
	transThresh float64 // UNIQUE_SAMPLE_THRESHOLD, scaled by item min-dim at construction
	rotThresh   float64
	entries     []entry
}

type entry struct {
	t geo.Transform
	e evaluator.SampleEval
}

// NewBestSamples returns an empty container with the given capacity. The
// translation threshold should already be scaled by the item's min dimension
// (spec.md §4.8: "translation scaled by item's min dimension"); the rotation
// threshold is compared on its own, unscaled, axis.
func NewBestSamples(capacity int, transThresh, rotThresh float64) *BestSamples {
	return &BestSamples{capacity: capacity, transThresh: transThresh, rotThresh: rotThresh}
}

// Report attempts to insert (t, e). It rejects a candidate whose transform
// is within the uniqueness threshold (L∞) of any stored entry, to preserve
// diversity across coordinate-descent seeds (spec.md §4.8). Returns true iff
// inserted.
func (b *BestSamples) Report(t geo.Transform, e evaluator.SampleEval) bool {
	for _, ex := range b.entries {
		if linfClose(t, ex.t, b.transThresh, b.rotThresh) {
			return false
		}
	}

	b.entries = append(b.entries, entry{t: t, e: e})
	// Keep entries sorted ascending by SampleEval.Less (spec.md §3 total order).
	i := len(b.entries) - 1
	for ; i > 0 && b.entries[i].e.Less(b.entries[i-1].e); i-- {
		b.entries[i], b.entries[i-1] = b.entries[i-1], b.entries[i]
	}
	if len(b.entries) > b.capacity {
		b.entries = b.entries[:b.capacity]
	}
	// The new entry survives only if it sorted into the first capacity slots.
	return i < b.capacity
}

// Len returns the number of stored entries.
func (b *BestSamples) Len() int { return len(b.entries) }

// Best returns the best stored entry (lowest by SampleEval.Less), or false
// if empty.
func (b *BestSamples) Best() (geo.Transform, evaluator.SampleEval, bool) {
	if len(b.entries) == 0 {
		return geo.Transform{}, evaluator.SampleEval{}, false
	}
	return b.entries[0].t, b.entries[0].e, true
}

// Seeds returns every stored transform, best first, for coordinate-descent
// seeding (spec.md §4.4 step 3).
func (b *BestSamples) Seeds() []geo.Transform {
	out := make([]geo.Transform, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.t
	}
	return out
}

func linfClose(a, b geo.Transform, transThresh, rotThresh float64) bool {
	dtx := math.Abs(a.TX - b.TX)
	dty := math.Abs(a.TY - b.TY)
	drot := math.Abs(a.Rot - b.Rot)
	return dtx <= transThresh && dty <= transThresh && drot <= rotThresh
}
