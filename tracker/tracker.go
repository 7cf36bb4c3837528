// Package tracker implements the overlap tracker (spec.md §4.2, component
// C2): the dense symmetric pair_overlap/pair_weight matrices, the
// bin_overlap/bin_weight vectors, and the weight update rules that let the
// separator escape local minima.
package tracker

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/overlap"
	"github.com/irregpack/stripsep/pk"
)

// Weight tuning constants (spec.md §4.2).
const (
	WeightMinIncRatio = 1.2
	WeightMaxIncRatio = 2.0
	WeightDecay       = 0.95
	WeightFloor       = 1.0
)

// ErrUnknownPK indicates an operation referenced a PK the tracker has not
// registered (never placed, or already removed from the tracker).
var ErrUnknownPK = errors.New("tracker: unknown pk")

// OverlapTracker maintains the pair-overlap/pair-weight and
// bin-overlap/bin-weight matrices described in spec.md §3. Matrix storage is
// a dense, symmetric, triangular array indexed by tracker-local dense
// indices obtained from each PK (mirroring the teacher's Dense matrix
// storage in matrix/dense.go, adapted from a flat r*c buffer to a flat
// triangular buffer since pair_overlap/pair_weight are symmetric with a
// zero diagonal).
type OverlapTracker struct {
	indexOf map[pk.PK]int
	keyOf   []pk.PK // index -> pk; holes are pk.Nil
	free    []int

	pairOverlap []float64 // triangular, i<j
	pairWeight  []float64
	binOverlap  []float64 // per index
	binWeight   []float64
	stagnation  []int
}

// New returns an empty tracker. Call RegisterLayout to seed it from an
// existing Layout snapshot.
func New() *OverlapTracker {
	return &OverlapTracker{indexOf: make(map[pk.PK]int)}
}

func triIndex(i, j int) int {
	if i > j {
		i, j = j, i
	}
	// j*(j-1)/2 + i, the standard packed lower-triangular layout for i<j.
	return j*(j-1)/2 + i
}

func (t *OverlapTracker) ensureCapacity(n int) {
	need := triIndex(n-2, n-1) + 1
	if n < 2 {
		need = 0
	}
	for len(t.pairOverlap) < need {
		t.pairOverlap = append(t.pairOverlap, 0)
		t.pairWeight = append(t.pairWeight, 1.0)
	}
}

func (t *OverlapTracker) allocIndex(p pk.PK) int {
	var idx int
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
		t.keyOf[idx] = p
		t.binOverlap[idx] = 0
		t.binWeight[idx] = 1.0
		t.stagnation[idx] = 0
	} else {
		idx = len(t.keyOf)
		t.keyOf = append(t.keyOf, p)
		t.binOverlap = append(t.binOverlap, 0)
		t.binWeight = append(t.binWeight, 1.0)
		t.stagnation = append(t.stagnation, 0)
	}
	t.indexOf[p] = idx
	t.ensureCapacity(len(t.keyOf))
	// Reset every pair slot touching idx: a recycled slot must not carry a
	// stale overlap/weight forward to whatever PK now occupies it.
	for j := 0; j < len(t.keyOf); j++ {
		if j == idx {
			continue
		}
		slot := triIndex(idx, j)
		if slot < len(t.pairOverlap) {
			t.pairOverlap[slot] = 0
			t.pairWeight[slot] = 1.0
		}
	}
	return idx
}

// RegisterLayout resets the tracker and initialises both matrices from l: it
// iterates every placed item, asking l's CDE for full-polygon collisions and
// the bin, and seeds every discovered overlap's weight at 1.0.
func (t *OverlapTracker) RegisterLayout(l layout.Layout) {
	t.indexOf = make(map[pk.PK]int)
	t.keyOf = nil
	t.free = nil
	t.pairOverlap = nil
	t.pairWeight = nil
	t.binOverlap = nil
	t.binWeight = nil
	t.stagnation = nil

	keys := l.Keys()
	for _, p := range keys {
		t.allocIndex(p)
	}
	for _, p := range keys {
		t.recompute(l, p)
	}
}

// MoveItem recomputes p's overlaps against every other tracked item and the
// bin, after p's transform has already been committed in l. Registers p if
// it was not already tracked (e.g. a freshly placed item).
func (t *OverlapTracker) MoveItem(l layout.Layout, p pk.PK) error {
	if _, ok := l.Get(p); !ok {
		return ErrUnknownPK
	}
	if _, ok := t.indexOf[p]; !ok {
		t.allocIndex(p)
	}
	t.recompute(l, p)
	return nil
}

func (t *OverlapTracker) recompute(l layout.Layout, p pk.PK) {
	pi, ok := l.Get(p)
	if !ok {
		return
	}
	i := t.indexOf[p]

	hazards := l.CollectPolyCollisions(pi.Shape, []pk.PK{p})
	collidingPK := make(map[pk.PK]bool, len(hazards))
	binCollides := false
	for _, h := range hazards {
		switch h.Kind {
		case layout.HazardPlacedItem:
			collidingPK[h.PK] = true
		case layout.HazardBinExterior:
			binCollides = true
		}
	}

	for other, j := range t.indexOf {
		if other == p {
			continue
		}
		otherPI, ok := l.Get(other)
		if !ok {
			continue
		}
		var ov float64
		if collidingPK[other] {
			ov = overlap.PolyOverlapProxy(pi.Shape, otherPI.Shape)
		}
		slot := triIndex(i, j)
		t.pairOverlap[slot] = ov
	}

	if binCollides {
		t.binOverlap[i] = overlap.BinOverlapProxy(pi.Shape, l.BinBound())
	} else {
		t.binOverlap[i] = 0
	}
}

// Resync recomputes every tracked pair/bin overlap from l's current
// geometry, registering any PK present in l but not yet tracked (at weight
// 1.0) and dropping any tracked PK no longer present in l — but otherwise
// leaves pair_weight/bin_weight untouched. Use this (rather than
// RegisterLayout, which resets every weight to 1.0) when learned weights
// should carry across a layout mutation, e.g. the optimiser driver's
// explore-phase shrink attempts (spec.md §4.6: "updated weights retained
// across attempts").
func (t *OverlapTracker) Resync(l layout.Layout) {
	keys := l.Keys()
	present := make(map[pk.PK]bool, len(keys))
	for _, p := range keys {
		present[p] = true
		if _, ok := t.indexOf[p]; !ok {
			t.allocIndex(p)
		}
	}

	var stale []pk.PK
	for p := range t.indexOf {
		if !present[p] {
			stale = append(stale, p)
		}
	}
	for _, p := range stale {
		t.RemoveItem(p)
	}

	for _, p := range keys {
		t.recompute(l, p)
	}
}

// RemoveItem drops p from the tracker, recycling its slot.
func (t *OverlapTracker) RemoveItem(p pk.PK) {
	idx, ok := t.indexOf[p]
	if !ok {
		return
	}
	delete(t.indexOf, p)
	t.keyOf[idx] = pk.Nil
	t.free = append(t.free, idx)
}

// GetPairOverlap returns pair_overlap[a,b].
func (t *OverlapTracker) GetPairOverlap(a, b pk.PK) (float64, bool) {
	i, ok1 := t.indexOf[a]
	j, ok2 := t.indexOf[b]
	if !ok1 || !ok2 || a == b {
		return 0, ok1 && ok2
	}
	return t.pairOverlap[triIndex(i, j)], true
}

// GetPairWeight returns pair_weight[a,b].
func (t *OverlapTracker) GetPairWeight(a, b pk.PK) (float64, bool) {
	i, ok1 := t.indexOf[a]
	j, ok2 := t.indexOf[b]
	if !ok1 || !ok2 || a == b {
		return 1.0, ok1 && ok2
	}
	return t.pairWeight[triIndex(i, j)], true
}

// GetBinOverlap returns bin_overlap[a].
func (t *OverlapTracker) GetBinOverlap(a pk.PK) (float64, bool) {
	i, ok := t.indexOf[a]
	if !ok {
		return 0, false
	}
	return t.binOverlap[i], true
}

// GetBinWeight returns bin_weight[a].
func (t *OverlapTracker) GetBinWeight(a pk.PK) (float64, bool) {
	i, ok := t.indexOf[a]
	if !ok {
		return 1.0, false
	}
	return t.binWeight[i], true
}

// GetWeightedOverlap returns Σ_b pair_overlap·pair_weight + bin_overlap·bin_weight
// for item a.
func (t *OverlapTracker) GetWeightedOverlap(a pk.PK) float64 {
	i, ok := t.indexOf[a]
	if !ok {
		return 0
	}
	var sum float64
	for j := 0; j < len(t.keyOf); j++ {
		if j == i || t.keyOf[j] == pk.Nil {
			continue
		}
		slot := triIndex(i, j)
		sum += t.pairOverlap[slot] * t.pairWeight[slot]
	}
	sum += t.binOverlap[i] * t.binWeight[i]
	return sum
}

// TotalWeightedOverlap returns the layout-wide objective (spec.md §4.5 step
// 2c): Σ pair_overlap·pair_weight (each unordered pair counted once) + Σ
// bin_overlap·bin_weight.
func (t *OverlapTracker) TotalWeightedOverlap() float64 {
	var sum float64
	for slot := range t.pairOverlap {
		sum += t.pairOverlap[slot] * t.pairWeight[slot]
	}
	for i := range t.binOverlap {
		sum += t.binOverlap[i] * t.binWeight[i]
	}
	return sum
}

// TotalActualOverlap sums raw pair_overlap and bin_overlap (ignoring
// weights): the layout is feasible iff this is exactly zero.
func (t *OverlapTracker) TotalActualOverlap() float64 {
	var sum float64
	for slot := range t.pairOverlap {
		sum += t.pairOverlap[slot]
	}
	for i := range t.binOverlap {
		sum += t.binOverlap[i]
	}
	return sum
}

// IncrementWeights multiplies, for each item in items, its weights against
// currently overlapping partners (pair and bin) by a ratio in
// [WeightMinIncRatio, WeightMaxIncRatio], linearly interpolated from the
// item's weighted overlap normalised against the largest weighted overlap
// among items (spec.md §4.2).
func (t *OverlapTracker) IncrementWeights(items []pk.PK) {
	mags := make([]float64, len(items))
	for k, p := range items {
		mags[k] = t.GetWeightedOverlap(p)
	}
	var maxMag float64
	if len(mags) > 0 {
		maxMag = floats.Max(mags)
	}
	for k, p := range items {
		i, ok := t.indexOf[p]
		if !ok {
			continue
		}
		norm := 0.0
		if maxMag > 0 {
			norm = mags[k] / maxMag
		}
		ratio := WeightMinIncRatio + norm*(WeightMaxIncRatio-WeightMinIncRatio)

		for other, j := range t.indexOf {
			if other == p {
				continue
			}
			slot := triIndex(i, j)
			if t.pairOverlap[slot] > 0 {
				t.pairWeight[slot] *= ratio
			}
		}
		if t.binOverlap[i] > 0 {
			t.binWeight[i] *= ratio
		}
	}
}

// DecayWeights multiplies every weight by WeightDecay, flooring at
// WeightFloor (spec.md §4.2).
func (t *OverlapTracker) DecayWeights() {
	for slot := range t.pairWeight {
		t.pairWeight[slot] = decay(t.pairWeight[slot])
	}
	for i := range t.binWeight {
		t.binWeight[i] = decay(t.binWeight[i])
	}
}

func decay(w float64) float64 {
	w *= WeightDecay
	if w < WeightFloor {
		w = WeightFloor
	}
	return w
}

// IncrementStagnation bumps p's per-item stagnation counter and returns the
// new value.
func (t *OverlapTracker) IncrementStagnation(p pk.PK) int {
	i, ok := t.indexOf[p]
	if !ok {
		return 0
	}
	t.stagnation[i]++
	return t.stagnation[i]
}

// ResetStagnation zeroes p's stagnation counter.
func (t *OverlapTracker) ResetStagnation(p pk.PK) {
	if i, ok := t.indexOf[p]; ok {
		t.stagnation[i] = 0
	}
}

// Stagnation returns p's current stagnation counter.
func (t *OverlapTracker) Stagnation(p pk.PK) int {
	if i, ok := t.indexOf[p]; ok {
		return t.stagnation[i]
	}
	return 0
}

// OverlappingItems returns every tracked PK whose GetWeightedOverlap is
// strictly positive, ordered descending by that magnitude — the priority
// list the separator's outer loop consumes (spec.md §4.5 step 2a).
func (t *OverlapTracker) OverlappingItems() []pk.PK {
	type scored struct {
		p pk.PK
		w float64
	}
	all := make([]scored, 0, len(t.indexOf))
	for p := range t.indexOf {
		w := t.GetWeightedOverlap(p)
		if w > 0 {
			all = append(all, scored{p, w})
		}
	}
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && (all[j-1].w < all[j].w || (all[j-1].w == all[j].w && all[j-1].p < all[j].p)); j-- {
			all[j-1], all[j] = all[j], all[j-1]
		}
	}
	out := make([]pk.PK, len(all))
	for i, s := range all {
		out[i] = s.p
	}
	return out
}

// CheckInvariants recomputes every tracked pair's overlap from scratch
// against l's current geometry and reports the first mismatch beyond a
// relative epsilon of 1e-3 (spec.md §8 property 3, §9's note that
// geometry-assertion failures are non-fatal in this repo — callers decide
// whether to treat the returned error as fatal). A nil return means every
// invariant in spec.md §8 (1)-(3) holds.
func (t *OverlapTracker) CheckInvariants(l layout.Layout) error {
	const relEps = 1e-3
	for a, i := range t.indexOf {
		piA, ok := l.Get(a)
		if !ok {
			continue
		}
		for b, j := range t.indexOf {
			if i >= j {
				continue
			}
			piB, ok := l.Get(b)
			if !ok {
				continue
			}
			tracked := t.pairOverlap[triIndex(i, j)]
			collides := geo.RingsOverlap(piA.Shape.Outer(), piB.Shape.Outer())
			if !collides {
				if tracked != 0 {
					return invariantErr(a, b, tracked, 0)
				}
				continue
			}
			want := overlap.PolyOverlapProxy(piA.Shape, piB.Shape)
			if !withinRel(tracked, want, relEps) {
				return invariantErr(a, b, tracked, want)
			}
		}
	}
	return nil
}

func withinRel(got, want, relEps float64) bool {
	if want == 0 {
		return got == 0
	}
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff/want <= relEps
}
