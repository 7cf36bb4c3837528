// Package separator implements the separator (spec.md §4.5 and §5, component
// C5): the outer per-item relocation loop, stagnation ("strike") detection,
// weight updates, jolts, and the worker-pool concurrency model — snapshot
// evaluation in parallel, serialised deterministic commit.
package separator

import (
	"errors"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/irregpack/stripsep/evaluator"
	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/layout"
	"github.com/irregpack/stripsep/pk"
	"github.com/irregpack/stripsep/sampler"
	"github.com/irregpack/stripsep/terminator"
	"github.com/irregpack/stripsep/tracker"
)

// ErrNoFeasibleLayout is returned by Separate when it exhausts its strike
// budget without driving total actual overlap to zero (spec.md §7).
var ErrNoFeasibleLayout = errors.New("separator: exhausted strikes without a feasible layout")

// ErrTerminated is returned by Separate when the terminator fired before a
// feasible layout was found.
var ErrTerminated = errors.New("separator: terminated before a feasible layout")

// relEps is the relative-decrease threshold a pass must clear to count as an
// "improvement" (spec.md §4.5 step 2c).
const relEps = 1e-6

// joltFraction is the share of the most-overlapping items perturbed on a
// strike (spec.md §4.5 step 2e, "a fraction of the most-overlapping items").
const joltFraction = 0.2

// Config holds the separator's outer-loop tuning constants (spec.md §4.5).
type Config struct {
	IterNoImprvLimit int
	StrikeLimit      int
	NWorkers         int
	SampleConfig     sampler.Config

	// DebugAssertions enables the per-pass tracker.CheckInvariants call
	// spec.md §7 describes as "GeometryAssertionFailure": fatal in debug,
	// a logged warning (plus a tracker re-sync) in release. This repo has
	// no debug/release build profile, so the choice is this flag instead
	// (see SPEC_FULL.md §12): on, a failure is non-fatal here too — the
	// pass is counted in AssertionWarnings and the tracker is resynced
	// from scratch, matching the release behaviour; callers that want the
	// fatal debug behaviour check AssertionWarnings themselves.
	DebugAssertions bool
}

// ExploreConfig is SEP_CFG_EXPLORE from spec.md §4.5/§4.6.
func ExploreConfig() Config {
	return Config{
		IterNoImprvLimit: 200,
		StrikeLimit:      3,
		NWorkers:         3,
		SampleConfig:     sampler.DefaultConfig(),
		DebugAssertions:  true,
	}
}

// CompressConfig is SEP_CFG_COMPRESS: identical sample counts to explore but
// the finer FIN_REF_CD_RATIOS coordinate-descent step sizes (spec.md §4.4,
// §4.6).
func CompressConfig() Config {
	return Config{
		IterNoImprvLimit: 100,
		StrikeLimit:      5,
		NWorkers:         3,
		SampleConfig:     sampler.FinalRefinementConfig(),
		DebugAssertions:  true,
	}
}

// SolutionSnapshot is the separator's (and driver's) externally visible
// result: strip width, per-item absolute transforms, and the achieved usage
// ratio (spec.md §6).
type SolutionSnapshot struct {
	BinWidth             float64
	Transforms           map[pk.PK]geo.Transform
	Items                map[pk.PK]*geo.Item
	UsageRatio           float64
	Feasible             bool
	TotalWeightedOverlap float64
	AssertionWarnings    int
}

// Snapshot captures l's current state. usageRatio is the sum of placed
// items' hull areas over the bin area — a cheap proxy for "how full the
// strip is", not an exact packing density.
func Snapshot(l layout.Layout, tr *tracker.OverlapTracker) SolutionSnapshot {
	keys := l.Keys()
	transforms := make(map[pk.PK]geo.Transform, len(keys))
	items := make(map[pk.PK]*geo.Item, len(keys))
	var usedArea float64
	for _, p := range keys {
		pi, ok := l.Get(p)
		if !ok {
			continue
		}
		transforms[p] = pi.Transform()
		items[p] = pi.Item()
		usedArea += pi.Item().HullArea
	}
	binArea := l.BinWidth() * l.BinHeight()
	var usage float64
	if binArea > 0 {
		usage = usedArea / binArea
	}
	return SolutionSnapshot{
		BinWidth:             l.BinWidth(),
		Transforms:           transforms,
		Items:                items,
		UsageRatio:           usage,
		Feasible:             tr.TotalActualOverlap() == 0,
		TotalWeightedOverlap: tr.TotalWeightedOverlap(),
	}
}

// Separator drives the relocation loop described in spec.md §4.5.
type Separator struct {
	cfg Config
}

// New returns a Separator configured per cfg.
func New(cfg Config) *Separator {
	return &Separator{cfg: cfg}
}

// Separate runs the outer loop against l and tr until a feasible layout is
// reached, the strike budget is exhausted, or term fires. The caller is
// responsible for having tr already synchronised against l — via
// tr.RegisterLayout (fresh weights) or tr.Resync (preserving weights
// accumulated by a previous attempt); Separate itself never resets weights,
// so that choice is entirely the driver's (spec.md §4.6). rng drives every
// random draw (sampler phases, jolts); workers receive independent child
// streams derived from it (spec.md §5).
func (s *Separator) Separate(l layout.Layout, tr *tracker.OverlapTracker, term *terminator.Terminator, rng *rand.Rand) (SolutionSnapshot, error) {
	itersNoImprovement := 0
	strikes := 0
	assertionWarnings := 0
	prevTotal := tr.TotalWeightedOverlap()
	last := Snapshot(l, tr)

	for !term.Stopped() && strikes < s.cfg.StrikeLimit {
		priority := tr.OverlappingItems()
		if len(priority) == 0 {
			last = Snapshot(l, tr)
			last.Feasible = true
			last.AssertionWarnings = assertionWarnings
			return last, nil
		}

		s.runPass(l, tr, term, rng, priority)

		if s.cfg.DebugAssertions {
			if err := tr.CheckInvariants(l); err != nil {
				// spec.md §7 GeometryAssertionFailure: this repo has no
				// debug/release split, so we always take the release
				// path here — count it and resynchronise from scratch;
				// a caller building a debug binary can check
				// AssertionWarnings and panic itself.
				assertionWarnings++
				tr.Resync(l)
			}
		}

		newTotal := tr.TotalWeightedOverlap()
		last = Snapshot(l, tr)
		last.AssertionWarnings = assertionWarnings
		improved := newTotal < prevTotal*(1-relEps)
		if improved {
			itersNoImprovement = 0
			if tr.TotalActualOverlap() == 0 {
				last.Feasible = true
				return last, nil
			}
		} else {
			itersNoImprovement++
			if itersNoImprovement >= s.cfg.IterNoImprvLimit {
				strikes++
				s.jolt(l, tr, rng, priority)
				tr.IncrementWeights(priority)
				tr.DecayWeights()
				itersNoImprovement = 0
				newTotal = tr.TotalWeightedOverlap()
				last = Snapshot(l, tr)
				last.AssertionWarnings = assertionWarnings
			}
		}
		prevTotal = newTotal
	}

	if term.Stopped() {
		return last, ErrTerminated
	}
	return last, ErrNoFeasibleLayout
}

type proposal struct {
	p       pk.PK
	newT    geo.Transform
	curEval evaluator.SampleEval
	newEval evaluator.SampleEval
}

// improvement is a monotone "how much better" scalar usable for ordering
// proposals across different SampleEval kinds (spec.md §5: "descending
// proposed-improvement order").
func (pr proposal) improvement() float64 {
	return rank(pr.curEval) - rank(pr.newEval)
}

// rank maps a SampleEval onto a single descending-is-worse scalar so
// proposals that move an item from Colliding to Valid, or reduce a
// Colliding score, compare uniformly.
func rank(e evaluator.SampleEval) float64 {
	switch e.Kind {
	case evaluator.Valid:
		return 0
	case evaluator.Colliding:
		return 1 + e.Score
	default: // Invalid
		return 1 + 1e18
	}
}

// runPass performs one parallel-evaluate, serial-commit relocation round
// over items, per spec.md §5.
func (s *Separator) runPass(l layout.Layout, tr *tracker.OverlapTracker, term *terminator.Terminator, rng *rand.Rand, items []pk.PK) {
	nWorkers := s.cfg.NWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}
	bin := l.BinBound()

	buckets := make([][]pk.PK, nWorkers)
	for i, p := range items {
		w := i % nWorkers
		buckets[w] = append(buckets[w], p)
	}

	// Each worker's RNG is derived here, sequentially, in the calling
	// goroutine, before any worker goroutine starts. rng is a single
	// math/rand.Rand and is not safe for concurrent use; deriving every
	// child stream up front (rather than letting each worker call
	// sampler.DeriveRNG against the shared rng itself) keeps the only
	// mutation of rng single-threaded and gives every worker an
	// independent, run-to-run-stable stream (spec.md §5, §8 property 7).
	// Likewise each worker gets its own Evaluator: Evaluator.Eval mutates
	// an unsynchronised invokes counter, so sharing one across goroutines
	// would race exactly like a shared rng would.
	workerRNGs := make([]*rand.Rand, nWorkers)
	workerEvs := make([]*evaluator.Evaluator, nWorkers)
	for w := 0; w < nWorkers; w++ {
		workerRNGs[w] = sampler.DeriveRNG(rng, uint64(w))
		workerEvs[w] = evaluator.New(l, tr)
	}

	results := make([][]proposal, nWorkers)
	var g errgroup.Group
	for w := 0; w < nWorkers; w++ {
		w := w
		g.Go(func() error {
			workerRNG := workerRNGs[w]
			workerEv := workerEvs[w]
			var out []proposal
			for _, p := range buckets[w] {
				if term.Stopped() {
					break
				}
				pi, ok := l.Get(p)
				if !ok {
					continue
				}
				item := pi.Item()
				curT := pi.Transform()
				curEval := workerEv.Eval(p, item, curT, nil)
				newT, newEval := sampler.Sample(workerEv, p, item, bin, workerRNG, s.cfg.SampleConfig)
				if newEval.Less(curEval) {
					out = append(out, proposal{p: p, newT: newT, curEval: curEval, newEval: newEval})
				}
			}
			results[w] = out
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; Wait only rendezvous them

	var all []proposal
	for _, r := range results {
		all = append(all, r...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		ii, jj := all[i].improvement(), all[j].improvement()
		if ii != jj {
			return ii > jj
		}
		return pk.Less(all[i].p, all[j].p)
	})

	ev := evaluator.New(l, tr) // serial commit phase: single-threaded, one Evaluator is fine
	for _, pr := range all {
		pi, ok := l.Get(pr.p)
		if !ok {
			continue
		}
		item := pi.Item()
		curEval := ev.Eval(pr.p, item, pi.Transform(), nil)
		confirmEval := ev.Eval(pr.p, item, pr.newT, nil)
		if !confirmEval.Less(curEval) {
			continue // stale: layout moved on since this proposal was evaluated
		}
		if err := l.Move(pr.p, pr.newT); err != nil {
			continue
		}
		_ = tr.MoveItem(l, pr.p)
	}
}

// jolt randomly perturbs the top joltFraction of the most-overlapping items
// by a Gaussian translation with σ ≈ item_min_dim (spec.md §4.5 step 2e).
func (s *Separator) jolt(l layout.Layout, tr *tracker.OverlapTracker, rng *rand.Rand, priority []pk.PK) {
	n := int(float64(len(priority)) * joltFraction)
	if n < 1 && len(priority) > 0 {
		n = 1
	}
	if n > len(priority) {
		n = len(priority)
	}
	for _, p := range priority[:n] {
		pi, ok := l.Get(p)
		if !ok {
			continue
		}
		item := pi.Item()
		sigma := item.MinDim
		t := pi.Transform()
		distX := distuv.Normal{Mu: t.TX, Sigma: sigma, Src: rng}
		distY := distuv.Normal{Mu: t.TY, Sigma: sigma, Src: rng}
		jolted := geo.Transform{
			TX:  distX.Rand(),
			TY:  distY.Rand(),
			Rot: t.Rot,
		}
		if err := l.Move(p, jolted); err != nil {
			continue
		}
		_ = tr.MoveItem(l, p)
	}
}
