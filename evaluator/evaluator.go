// Package evaluator implements the sample evaluator (spec.md §4.3, component
// C3): scoring a single candidate placement as a weighted sum of overlaps,
// with an early-abort upper bound.
package evaluator

import (
	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/overlap"
	"github.com/irregpack/stripsep/pk"
	"github.com/irregpack/stripsep/tracker"
)

// EvalKind tags SampleEval's variant.
type EvalKind uint8

const (
	// Valid means the candidate collides with nothing; Score carries the
	// area-proxy spec.md §3 says is not used for scoring (kept at 0 here;
	// see SampleEval doc).
	Valid EvalKind = iota
	// Colliding means the candidate overlaps something; Score carries the
	// weighted overlap.
	Colliding
	// Invalid means the candidate was rejected (early-abort, or a hard
	// hazard such as a bin hole/quality zone).
	Invalid
)

// SampleEval is the tagged outcome of evaluating one candidate transform
// (spec.md §3). Total order: all Valid precede all Colliding precede all
// Invalid; within a group, ascending by Score.
//
// spec.md §3 notes the surrogate area proxy is "not used for scoring" for
// Valid results — every Valid candidate is equally good at the evaluator
// level (Score==0); the sampler's BestSamples still distinguishes between
// multiple Valid candidates via the unique-threshold diversity rule, not via
// Score.
type SampleEval struct {
	Kind  EvalKind
	Score float64
}

// Less implements the total order from spec.md §8 property 4.
func (e SampleEval) Less(o SampleEval) bool {
	if e.Kind != o.Kind {
		return e.Kind < o.Kind
	}
	return e.Score < o.Score
}

// Evaluator scores candidate transforms for a single target item against a
// Layout+OverlapTracker snapshot (spec.md §4.3).
type Evaluator struct {
	l       layout.Layout
	tr      *tracker.OverlapTracker
	invokes int
}

// New returns an Evaluator reading from l and tr. Neither is mutated.
func New(l layout.Layout, tr *tracker.OverlapTracker) *Evaluator {
	return &Evaluator{l: l, tr: tr}
}

// Invocations returns how many times Eval has been called, for telemetry
// (spec.md §4.3: "The evaluator counts its invocations for telemetry.").
func (e *Evaluator) Invocations() int { return e.invokes }

// Eval scores candidate transform dt for item p (currently placed at some
// transform in e.l, about to be displaced to dt). ub, if non-nil and
// Colliding, is an upper bound: if the partial weighted overlap discovered
// by the fast surrogate-only query already exceeds it, Eval returns Invalid
// without performing the full-polygon query (spec.md §4.3 step 2 and §8
// property 6).
func (e *Evaluator) Eval(p pk.PK, item *geo.Item, dt geo.Transform, ub *SampleEval) SampleEval {
	e.invokes++

	shape := geo.NewShape(item, dt)
	det := layout.NewDetector()
	e.l.CollectSurrogateCollisions(shape.Surrogate, []pk.PK{p}, det)

	for _, h := range det.Slice() {
		if h.Hard() {
			return SampleEval{Kind: Invalid}
		}
	}

	partial := e.weighHazards(p, shape, det.Slice())
	if ub != nil && ub.Kind == Colliding && partial > ub.Score {
		return SampleEval{Kind: Invalid}
	}

	hazards := e.l.CollectPolyCollisions(shape, []pk.PK{p})
	for _, h := range hazards {
		if h.Hard() {
			return SampleEval{Kind: Invalid}
		}
		det.Add(h)
	}

	if det.Len() == 0 {
		return SampleEval{Kind: Valid, Score: 0}
	}

	full := e.weighHazards(p, shape, det.Slice())
	return SampleEval{Kind: Colliding, Score: full}
}

// weighHazards sums weighted overlap for the given hazards as seen from
// mover p's candidate shape. Weights come from the tracker's currently
// committed pair_weight[p,other]/bin_weight[p] — relocating p changes its
// overlap magnitudes, not the learned weights, which only move via
// IncrementWeights/DecayWeights.
func (e *Evaluator) weighHazards(p pk.PK, shape *geo.Shape, hazards []layout.HazardEntity) float64 {
	var sum float64
	for _, h := range hazards {
		switch h.Kind {
		case layout.HazardPlacedItem:
			otherPI, ok := e.l.Get(h.PK)
			if !ok {
				continue
			}
			w, _ := e.tr.GetPairWeight(p, h.PK)
			sum += overlap.PolyOverlapProxy(shape, otherPI.Shape) * w
		case layout.HazardBinExterior:
			w, ok := e.tr.GetBinWeight(p)
			if !ok {
				w = 1.0
			}
			sum += overlap.BinOverlapProxy(shape, e.l.BinBound()) * w
		}
	}
	return sum
}
