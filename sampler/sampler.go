package sampler

import (
	"math/rand"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/irregpack/stripsep/evaluator"
	"github.com/irregpack/stripsep/geo"
	"github.com/irregpack/stripsep/pk"
)

// Sample runs the full pipeline from spec.md §4.4 for a single target item:
// a bin-uniform Monte-Carlo phase, a focussed-Gaussian phase seeded from the
// uniform phase's best, then a coordinate-descent refinement from each of
// BestSamples' surviving seeds. It returns the best transform/eval found
// across every refinement.
func Sample(ev *evaluator.Evaluator, p pk.PK, item *geo.Item, bin orb.Bound, rng *rand.Rand, cfg Config) (geo.Transform, evaluator.SampleEval) {
	transThresh := cfg.UniqueSampleThresholdRatio * item.MinDim
	best := NewBestSamples(cfg.NCoordDescents, transThresh, cfg.UniqueSampleRotThreshold)

	var running evaluator.SampleEval
	runningSet := false
	tryReport := func(t geo.Transform) {
		var ub *evaluator.SampleEval
		if runningSet && running.Kind == evaluator.Colliding {
			ub = &running
		}
		e := ev.Eval(p, item, t, ub)
		if !runningSet || e.Less(running) {
			running = e
			runningSet = true
		}
		best.Report(t, e)
	}

	// Phase 1: bin-uniform.
	for i := 0; i < cfg.NBinSamples; i++ {
		t := uniformTransform(item, bin, rng)
		tryReport(t)
	}

	// Phase 2: focussed-Gaussian around the uniform phase's best.
	if cfg.NFocussedSamples > 0 {
		seedT, _, ok := best.Best()
		if !ok {
			seedT = uniformTransform(item, bin, rng)
		}
		sigma := cfg.ExploreStddevRatio * item.MinDim
		distX := distuv.Normal{Mu: seedT.TX, Sigma: sigma, Src: rng}
		distY := distuv.Normal{Mu: seedT.TY, Sigma: sigma, Src: rng}
		for i := 0; i < cfg.NFocussedSamples; i++ {
			t := geo.Transform{
				TX:  distX.Rand(),
				TY:  distY.Rand(),
				Rot: seedT.Rot,
			}
			tryReport(t)
		}
	}

	// Phase 3: coordinate descent from each surviving seed.
	globalBestT, globalBestE := globalBest(best)
	for _, seed := range best.Seeds() {
		t, e := coordinateDescent(ev, p, item, seed, cfg)
		if e.Less(globalBestE) {
			globalBestT, globalBestE = t, e
		}
	}

	return globalBestT, globalBestE
}

func globalBest(b *BestSamples) (geo.Transform, evaluator.SampleEval) {
	t, e, ok := b.Best()
	if !ok {
		return geo.Transform{}, evaluator.SampleEval{Kind: evaluator.Invalid}
	}
	return t, e
}

func uniformTransform(item *geo.Item, bin orb.Bound, rng *rand.Rand) geo.Transform {
	x := bin.Min[0] + rng.Float64()*(bin.Max[0]-bin.Min[0])
	y := bin.Min[1] + rng.Float64()*(bin.Max[1]-bin.Min[1])
	rot := item.Rotations[rng.Intn(len(item.Rotations))]
	return geo.Transform{TX: x, TY: y, Rot: rot}
}

// coordinateDescent refines a single seed transform by translation-only
// axial moves (rotation stays frozen), per spec.md §4.4 step 3.
func coordinateDescent(ev *evaluator.Evaluator, p pk.PK, item *geo.Item, seed geo.Transform, cfg Config) (geo.Transform, evaluator.SampleEval) {
	cur := seed
	curEval := ev.Eval(p, item, cur, nil)

	step := cfg.InitStepRatio * item.MinDim
	floor := cfg.FloorStepRatio * item.MinDim

	axes := [4][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for it := 0; it < cfg.MaxCDIters && step >= floor; it++ {
		bestAxisT := cur
		bestAxisE := curEval
		improved := false
		for _, ax := range axes {
			cand := geo.Transform{TX: cur.TX + ax[0]*step, TY: cur.TY + ax[1]*step, Rot: cur.Rot}
			var ub *evaluator.SampleEval
			if bestAxisE.Kind == evaluator.Colliding {
				ub = &bestAxisE
			}
			e := ev.Eval(p, item, cand, ub)
			if e.Less(bestAxisE) {
				bestAxisT, bestAxisE = cand, e
				improved = true
			}
		}
		if improved {
			cur, curEval = bestAxisT, bestAxisE
			step *= CDStepSuccess
		} else {
			step *= CDStepFail
		}
	}

	return cur, curEval
}
